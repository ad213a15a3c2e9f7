// internal/cart/service.go
package cart

import (
	"context"
	"errors"

	"storefront/internal/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidProduct = errors.New("product not in catalog")
)

// ProductLookup resolves product ids against the current catalog snapshot.
type ProductLookup interface {
	Product(id int) (catalog.Product, bool)
}

// Service defines the interface for the cart engine.
type Service interface {
	ID() uuid.UUID
	AddItem(ctx context.Context, productID int) (Line, error)
	RemoveOneUnit(ctx context.Context, productID int)
	Clear(ctx context.Context)
	Checkout(ctx context.Context) (*Receipt, error)
	Lines() []Line
	Snapshot() Snapshot
	TotalCount() int
	TotalPrice() decimal.Decimal
	IsEmpty() bool
}
