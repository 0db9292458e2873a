// Package shop keeps the cart, wishlist and compare lists. All three are
// ordered sequences scoped to the whole store, not per-user.
package shop

import (
	"time"

	"github.com/salesmatrix/sales-matrix/internal/errs"
	"github.com/salesmatrix/sales-matrix/internal/kvstore"
	"github.com/salesmatrix/sales-matrix/internal/model"
)

// CompareCap is the maximum number of compare entries.
const CompareCap = 3

// Lists wraps the stored shopping sequences.
type Lists struct {
	store kvstore.Store
	now   func() time.Time
}

// New constructs Lists over the given store.
func New(store kvstore.Store) *Lists {
	return &Lists{store: store, now: time.Now}
}

// Cart returns the cart contents in insertion order.
func (l *Lists) Cart() []model.CartItem {
	var cart []model.CartItem
	l.store.Get(kvstore.KeyCart, &cart)
	return cart
}

// AddToCart appends a snapshot of p. Out-of-stock products are rejected.
func (l *Lists) AddToCart(p model.Product) error {
	if !p.InStock() {
		return errs.ErrValidation
	}
	cart := l.Cart()
	cart = append(cart, model.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		AddedAt:   l.now().UnixMilli(),
	})
	return l.store.Set(kvstore.KeyCart, cart)
}

// RemoveFromCart drops every cart entry for productID.
func (l *Lists) RemoveFromCart(productID int) error {
	cart := l.Cart()
	out := cart[:0]
	for _, item := range cart {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return l.store.Set(kvstore.KeyCart, out)
}

// CartCount returns the number of cart entries.
func (l *Lists) CartCount() int { return len(l.Cart()) }

// Wishlist returns the wishlist contents.
func (l *Lists) Wishlist() []model.WishlistItem {
	var wl []model.WishlistItem
	l.store.Get(kvstore.KeyWishlist, &wl)
	return wl
}

// ToggleWishlist adds p to the wishlist or removes it if already present,
// reporting whether it is wishlisted afterwards.
func (l *Lists) ToggleWishlist(p model.Product) (bool, error) {
	wl := l.Wishlist()
	for i, item := range wl {
		if item.ProductID == p.ID {
			wl = append(wl[:i], wl[i+1:]...)
			return false, l.store.Set(kvstore.KeyWishlist, wl)
		}
	}
	wl = append(wl, model.WishlistItem{ProductID: p.ID, Name: p.Name, Price: p.Price})
	return true, l.store.Set(kvstore.KeyWishlist, wl)
}

// RemoveFromWishlist drops productID from the wishlist.
func (l *Lists) RemoveFromWishlist(productID int) error {
	wl := l.Wishlist()
	for i, item := range wl {
		if item.ProductID == productID {
			wl = append(wl[:i], wl[i+1:]...)
			break
		}
	}
	return l.store.Set(kvstore.KeyWishlist, wl)
}

// Compare returns the compare sheet contents.
func (l *Lists) Compare() []model.CompareEntry {
	var cmp []model.CompareEntry
	l.store.Get(kvstore.KeyCompareList, &cmp)
	return cmp
}

// ToggleCompare adds p to the compare sheet or removes it if present. Adding
// beyond CompareCap entries fails with ErrValidation.
func (l *Lists) ToggleCompare(p model.Product) (bool, error) {
	cmp := l.Compare()
	for i, entry := range cmp {
		if entry.ProductID == p.ID {
			cmp = append(cmp[:i], cmp[i+1:]...)
			return false, l.store.Set(kvstore.KeyCompareList, cmp)
		}
	}
	if len(cmp) >= CompareCap {
		return false, errs.ErrValidation
	}
	cmp = append(cmp, model.CompareEntry{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Rating:    p.Rating,
		Status:    p.Status,
	})
	return true, l.store.Set(kvstore.KeyCompareList, cmp)
}
