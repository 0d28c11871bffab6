package port

import (
	"context"
	"errors"

	"github.com/nikolayk812/cartstore/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

type CatalogService interface {
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

// PersistentCache is a key/value byte store that survives process restarts.
// Read returns ErrCacheMiss when the key is absent.
type PersistentCache interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
}
