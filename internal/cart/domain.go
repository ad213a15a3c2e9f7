// internal/cart/domain.go
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product's aggregated quantity within the cart.
type Line struct {
	ProductID int             `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is the cart's lines and totals read under one lock.
type Snapshot struct {
	Lines      []Line
	TotalCount int
	TotalPrice decimal.Decimal
}

// Receipt is the result of a successful checkout.
type Receipt struct {
	OrderID      uuid.UUID       `json:"order_id"`
	CartID       uuid.UUID       `json:"cart_id"`
	Lines        []Line          `json:"lines"`
	TotalCount   int             `json:"total_count"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	CheckedOutAt time.Time       `json:"checked_out_at"`
}

// Journal event types recorded for a cart.
const (
	EventItemAdded   = "ItemAdded"
	EventUnitRemoved = "UnitRemoved"
	EventCartCleared = "CartCleared"
	EventCheckedOut  = "CheckedOut"
)

// ItemAddedEvent is recorded when one unit of a product is added.
type ItemAddedEvent struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// UnitRemovedEvent is recorded when one unit of a product is removed.
type UnitRemovedEvent struct {
	ProductID int  `json:"product_id"`
	Quantity  int  `json:"quantity"`
	LineGone  bool `json:"line_removed"`
}

// CartClearedEvent is recorded when the cart is emptied without checkout.
type CartClearedEvent struct {
	Lines int `json:"lines"`
}

// CheckedOutEvent is recorded on checkout.
type CheckedOutEvent struct {
	OrderID    uuid.UUID       `json:"order_id"`
	TotalCount int             `json:"total_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
