package shop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salesmatrix/sales-matrix/internal/errs"
	"github.com/salesmatrix/sales-matrix/internal/kvstore"
	"github.com/salesmatrix/sales-matrix/internal/model"
)

func product(id int) model.Product {
	return model.Product{ID: id, Name: "P", Price: 10, Rating: 4, Status: model.StatusInStock}
}

func TestLists_CartAddRemove(t *testing.T) {
	t.Parallel()
	l := New(kvstore.NewMemory())

	require.NoError(t, l.AddToCart(product(1)))
	require.NoError(t, l.AddToCart(product(2)))
	require.Equal(t, 2, l.CartCount())

	cart := l.Cart()
	require.Equal(t, 1, cart[0].ProductID)
	require.Equal(t, 2, cart[1].ProductID)
	require.NotZero(t, cart[0].AddedAt)

	require.NoError(t, l.RemoveFromCart(1))
	require.Equal(t, 1, l.CartCount())
	require.Equal(t, 2, l.Cart()[0].ProductID)
}

func TestLists_CartDuplicatesAllowed(t *testing.T) {
	t.Parallel()
	l := New(kvstore.NewMemory())

	require.NoError(t, l.AddToCart(product(1)))
	require.NoError(t, l.AddToCart(product(1)))
	require.Equal(t, 2, l.CartCount())

	// removal drops every entry for the id
	require.NoError(t, l.RemoveFromCart(1))
	require.Zero(t, l.CartCount())
}

func TestLists_CartRejectsOutOfStock(t *testing.T) {
	t.Parallel()
	l := New(kvstore.NewMemory())

	p := product(1)
	p.Status = model.StatusOutOfOrder
	require.ErrorIs(t, l.AddToCart(p), errs.ErrValidation)
	require.Zero(t, l.CartCount())
}

func TestLists_WishlistToggle(t *testing.T) {
	t.Parallel()
	l := New(kvstore.NewMemory())

	added, err := l.ToggleWishlist(product(1))
	require.NoError(t, err)
	require.True(t, added)
	require.Len(t, l.Wishlist(), 1)

	added, err = l.ToggleWishlist(product(1))
	require.NoError(t, err)
	require.False(t, added)
	require.Empty(t, l.Wishlist())
}

func TestLists_WishlistRemove(t *testing.T) {
	t.Parallel()
	l := New(kvstore.NewMemory())

	_, err := l.ToggleWishlist(product(1))
	require.NoError(t, err)
	require.NoError(t, l.RemoveFromWishlist(1))
	require.Empty(t, l.Wishlist())

	// removing an absent id is a no-op
	require.NoError(t, l.RemoveFromWishlist(99))
}

func TestLists_CompareCap(t *testing.T) {
	t.Parallel()
	l := New(kvstore.NewMemory())

	for id := 1; id <= CompareCap; id++ {
		added, err := l.ToggleCompare(product(id))
		require.NoError(t, err)
		require.True(t, added)
	}

	// fourth add is rejected, sheet unchanged
	_, err := l.ToggleCompare(product(4))
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Len(t, l.Compare(), CompareCap)

	// toggling an existing entry off still works at the cap
	added, err := l.ToggleCompare(product(1))
	require.NoError(t, err)
	require.False(t, added)
	require.Len(t, l.Compare(), CompareCap-1)
}

func TestLists_CompareSnapshotsFields(t *testing.T) {
	t.Parallel()
	l := New(kvstore.NewMemory())

	p := model.Product{ID: 5, Name: "Lamp", Price: 69.99, Rating: 4, Status: model.StatusInStock}
	_, err := l.ToggleCompare(p)
	require.NoError(t, err)

	entry := l.Compare()[0]
	require.Equal(t, 5, entry.ProductID)
	require.Equal(t, "Lamp", entry.Name)
	require.Equal(t, 69.99, entry.Price)
	require.Equal(t, 4, entry.Rating)
	require.Equal(t, model.StatusInStock, entry.Status)
}
