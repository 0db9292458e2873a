// Package catalog resolves the product list: remote first, then cache, then
// synthetic generation.
package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/salesmatrix/sales-matrix/internal/kvstore"
	"github.com/salesmatrix/sales-matrix/internal/model"
	"github.com/salesmatrix/sales-matrix/internal/remote"
)

// TargetSize is the generated catalog size (baseline plus filler).
const TargetSize = 100

// Synthetic filler bounds: price in [MinPrice, MaxPrice), rating 1..5, and
// roughly nine in ten items in stock.
const (
	MinPrice       = 20.0
	MaxPrice       = 200.0
	inStockPortion = 0.9
)

// Provider loads products with explicit tier precedence. Each tier is tried
// only if the previous one is unavailable or empty, and every successful
// resolution rewrites the cache so later loads work offline.
type Provider struct {
	store  kvstore.Store
	mirror remote.Mirror
	log    *zap.Logger
}

// New constructs a Provider over the store and mirror.
func New(store kvstore.Store, mirror remote.Mirror, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{store: store, mirror: mirror, log: log}
}

// Load resolves the catalog: remote, then cached snapshot, then generation.
func (p *Provider) Load(ctx context.Context) []model.Product {
	if products, err := p.mirror.FetchProducts(ctx); err == nil && len(products) > 0 {
		if err := p.store.Set(kvstore.KeyProductsCache, products); err != nil {
			p.log.Warn("cache products", zap.Error(err))
		}
		return products
	} else if err != nil {
		p.log.Debug("remote catalog unavailable", zap.Error(err))
	}

	var cached []model.Product
	if p.store.Get(kvstore.KeyProductsCache, &cached) && len(cached) > 0 {
		return cached
	}

	products := Generate()
	if err := p.store.Set(kvstore.KeyProductsCache, products); err != nil {
		p.log.Warn("cache products", zap.Error(err))
	}
	return products
}

// Generate builds the fallback catalog: a fixed baseline topped up with
// synthetic filler entries until TargetSize.
func Generate() []model.Product {
	products := append([]model.Product(nil), baseline...)
	for i := len(products) + 1; i <= TargetSize; i++ {
		status := model.StatusInStock
		if rand.Float64() >= inStockPortion {
			status = model.StatusOutOfOrder
		}
		products = append(products, model.Product{
			ID:          i,
			Name:        fmt.Sprintf("Neon Product %d", i),
			Description: fmt.Sprintf("High-quality neon tech item #%d", i),
			Price:       MinPrice + rand.Float64()*(MaxPrice-MinPrice),
			Rating:      rand.IntN(5) + 1,
			Status:      status,
		})
	}
	return products
}

var baseline = []model.Product{
	{ID: 1, Name: "Neon Keyboard Pro", Description: "RGB mechanical keyboard", Price: 89.99, Rating: 4, Status: model.StatusInStock},
	{ID: 2, Name: "Cyber Mouse", Description: "Wireless gaming mouse", Price: 49.99, Rating: 5, Status: model.StatusInStock},
	{ID: 3, Name: "LED Headphones", Description: "Premium audio experience", Price: 129.99, Rating: 4, Status: model.StatusInStock},
	{ID: 4, Name: "Neon Monitor Stand", Description: "Ergonomic dual monitor mount", Price: 59.99, Rating: 3, Status: model.StatusInStock},
	{ID: 5, Name: "USB-C Hub Elite", Description: "7-in-1 connectivity solution", Price: 79.99, Rating: 5, Status: model.StatusInStock},
	{ID: 6, Name: "Glowing Desk Lamp", Description: "Smart LED desk lighting", Price: 69.99, Rating: 4, Status: model.StatusInStock},
	{ID: 7, Name: "Neon Cable Set", Description: "Premium braided cables (5-pack)", Price: 39.99, Rating: 4, Status: model.StatusInStock},
	{ID: 8, Name: "Wireless Charger", Description: "Fast charging pad", Price: 34.99, Rating: 5, Status: model.StatusInStock},
	{ID: 9, Name: "RGB Mousepad", Description: "Large gaming mousepad with lights", Price: 44.99, Rating: 4, Status: model.StatusInStock},
	{ID: 10, Name: "Mechanical Switch Set", Description: "100-pack switches", Price: 99.99, Rating: 5, Status: model.StatusInStock},
}
