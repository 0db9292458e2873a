package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salesmatrix/sales-matrix/internal/model"
)

func sample() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Neon Keyboard", Description: "mechanical", Price: 90, Rating: 4},
		{ID: 2, Name: "Cyber Mouse", Description: "wireless gaming", Price: 50, Rating: 5},
		{ID: 3, Name: "LED Lamp", Description: "desk lighting", Price: 70, Rating: 3},
	}
}

func TestFilterByPrice(t *testing.T) {
	t.Parallel()
	got := FilterByPrice(sample(), 60, 95)
	require.Len(t, got, 2)
	require.Equal(t, 1, got[0].ID)
	require.Equal(t, 3, got[1].ID)

	// negative max means unbounded
	require.Len(t, FilterByPrice(sample(), 0, -1), 3)

	// bounds are inclusive
	require.Len(t, FilterByPrice(sample(), 50, 50), 1)
}

func TestFilterByRating(t *testing.T) {
	t.Parallel()
	got := FilterByRating(sample(), 4)
	require.Len(t, got, 2)
	for _, p := range got {
		require.GreaterOrEqual(t, p.Rating, 4)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()
	require.Len(t, Search(sample(), "NEON"), 1)

	// matches descriptions too
	got := Search(sample(), "gaming")
	require.Len(t, got, 1)
	require.Equal(t, 2, got[0].ID)

	// blank query passes everything through
	require.Len(t, Search(sample(), "  "), 3)
	require.Empty(t, Search(sample(), "zzz"))
}

func TestSortBy(t *testing.T) {
	t.Parallel()
	in := sample()

	asc := SortBy(in, SortPriceAsc)
	require.Equal(t, []int{2, 3, 1}, ids(asc))

	desc := SortBy(in, SortPriceDesc)
	require.Equal(t, []int{1, 3, 2}, ids(desc))

	rating := SortBy(in, SortRating)
	require.Equal(t, []int{2, 1, 3}, ids(rating))

	newest := SortBy(in, SortNewest)
	require.Equal(t, []int{3, 2, 1}, ids(newest))

	// unknown mode keeps order, input is never mutated
	require.Equal(t, []int{1, 2, 3}, ids(SortBy(in, "bogus")))
	require.Equal(t, []int{1, 2, 3}, ids(in))
}

func TestFindByID(t *testing.T) {
	t.Parallel()
	p, ok := FindByID(sample(), 2)
	require.True(t, ok)
	require.Equal(t, "Cyber Mouse", p.Name)

	_, ok = FindByID(sample(), 99)
	require.False(t, ok)
}

func ids(products []model.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
