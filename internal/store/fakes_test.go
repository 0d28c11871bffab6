package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/port"
	"github.com/shopspring/decimal"
)

var errUnreachable = errors.New("catalog unreachable")

type fakeCatalog struct {
	mu       sync.Mutex
	stock    map[int64]int
	products map[int64]domain.Product

	stockErr   error
	productErr error

	stockReads   int
	productReads int
}

var _ port.CatalogService = (*fakeCatalog)(nil)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		stock:    make(map[int64]int),
		products: make(map[int64]domain.Product),
	}
}

func (f *fakeCatalog) put(p domain.Product, stock int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.products[p.ID] = p
	f.stock[p.ID] = stock
}

func (f *fakeCatalog) setStock(id int64, amount int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stock[id] = amount
}

func (f *fakeCatalog) reads() (stock, product int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.stockReads, f.productReads
}

func (f *fakeCatalog) GetStock(_ context.Context, productID int64) (domain.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stockReads++
	if f.stockErr != nil {
		return domain.Stock{}, f.stockErr
	}
	amount, ok := f.stock[productID]
	if !ok {
		return domain.Stock{}, fmt.Errorf("stock[%d]: unknown product", productID)
	}
	return domain.Stock{ID: productID, Amount: amount}, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.productReads++
	if f.productErr != nil {
		return domain.Product{}, f.productErr
	}
	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("products[%d]: unknown product", productID)
	}
	return p, nil
}

// scriptedCache returns canned results and records writes.
type scriptedCache struct {
	mu       sync.Mutex
	readData []byte
	readErr  error
	writeErr error
	writes   [][]byte
}

func (c *scriptedCache) Read(context.Context, string) ([]byte, error) {
	return c.readData, c.readErr
}

func (c *scriptedCache) Write(_ context.Context, _ string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writes = append(c.writes, value)
	return c.writeErr
}

func (c *scriptedCache) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.writes)
}

func randomProduct(id int64) domain.Product {
	return domain.Product{
		ID:    id,
		Title: gofakeit.ProductName(),
		Price: decimal.NewFromFloat(gofakeit.Price(10, 500)).Round(2),
		Image: gofakeit.URL(),
	}
}
