// internal/catalog/service.go
package catalog

import (
	"context"
	"errors"
)

var (
	ErrFetch       = errors.New("catalog fetch failed")
	ErrRateLimited = errors.New("catalog reload rate limit exceeded")
)

// Source is the remote read-only product provider.
type Source interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// Service defines the interface for the catalog store.
type Service interface {
	// Load fetches the catalog once and replaces the snapshot on success.
	Load(ctx context.Context) ([]Product, error)
	// Reload is Load behind the reload rate limiter.
	Reload(ctx context.Context) ([]Product, error)
	Products() []Product
	Product(id int) (Product, bool)
	Categories() []string
}
