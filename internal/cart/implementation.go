// internal/cart/implementation.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"storefront/internal/journal"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const aggregateType = "cart"

// service implements the Service interface.
type service struct {
	mu       sync.Mutex
	id       uuid.UUID
	lines    []Line
	version  int
	products ProductLookup
	journal  *journal.Journal
	logger   *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewService creates an empty cart. The journal is optional.
func NewService(products ProductLookup, j *journal.Journal, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		id:       uuid.New(),
		products: products,
		journal:  j,
		logger:   logger,
		tracer:   otel.Tracer("storefront/cart"),
		now:      time.Now,
	}
}

func (s *service) ID() uuid.UUID {
	return s.id
}

// AddItem adds one unit of productID, appending a new line the first time.
func (s *service) AddItem(ctx context.Context, productID int) (Line, error) {
	ctx, span := s.tracer.Start(ctx, "cart.add_item",
		trace.WithAttributes(attribute.Int("product.id", productID)),
	)
	defer span.End()

	product, ok := s.products.Product(productID)
	if !ok {
		span.RecordError(ErrInvalidProduct)
		return Line{}, fmt.Errorf("add product %d: %w", productID, ErrInvalidProduct)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, Line{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Category:  product.Category,
			Image:     product.Image,
			Quantity:  1,
		})
		i = len(s.lines) - 1
	}
	line := s.lines[i]

	span.SetAttributes(attribute.Int("line.quantity", line.Quantity))
	s.record(ctx, EventItemAdded, ItemAddedEvent{ProductID: productID, Quantity: line.Quantity})
	return line, nil
}

// RemoveOneUnit takes one unit of productID out of the cart. Unknown ids are a no-op.
func (s *service) RemoveOneUnit(ctx context.Context, productID int) {
	ctx, span := s.tracer.Start(ctx, "cart.remove_one_unit",
		trace.WithAttributes(attribute.Int("product.id", productID)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}

	event := UnitRemovedEvent{ProductID: productID}
	if s.lines[i].Quantity > 1 {
		s.lines[i].Quantity--
		event.Quantity = s.lines[i].Quantity
	} else {
		s.lines = slices.Delete(s.lines, i, i+1)
		event.LineGone = true
	}
	s.record(ctx, EventUnitRemoved, event)
}

// Clear empties the cart unconditionally.
func (s *service) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.lines)
	s.lines = nil
	s.record(ctx, EventCartCleared, CartClearedEvent{Lines: n})
}

// Checkout empties a non-empty cart and returns its receipt.
func (s *service) Checkout(ctx context.Context) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "cart.checkout")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		span.RecordError(ErrEmptyCart)
		return nil, ErrEmptyCart
	}

	receipt := &Receipt{
		OrderID:      uuid.New(),
		CartID:       s.id,
		Lines:        slices.Clone(s.lines),
		TotalCount:   s.totalCount(),
		TotalPrice:   s.totalPrice(),
		CheckedOutAt: s.now().UTC(),
	}
	s.lines = nil

	span.SetAttributes(
		attribute.String("order.id", receipt.OrderID.String()),
		attribute.Int("order.total_count", receipt.TotalCount),
	)
	s.record(ctx, EventCheckedOut, CheckedOutEvent{
		OrderID:    receipt.OrderID,
		TotalCount: receipt.TotalCount,
		TotalPrice: receipt.TotalPrice,
	})
	s.logger.Info("checkout completed",
		zap.String("order_id", receipt.OrderID.String()),
		zap.Int("items", receipt.TotalCount),
		zap.String("total", receipt.TotalPrice.StringFixed(2)),
	)
	return receipt, nil
}

// Lines returns a copy of the cart lines in first-added order.
func (s *service) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

// Snapshot returns lines and totals taken together, so the count always
// equals the sum of the returned quantities.
func (s *service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Lines:      slices.Clone(s.lines),
		TotalCount: s.totalCount(),
		TotalPrice: s.totalPrice(),
	}
}

func (s *service) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCount()
}

// TotalPrice is the sum of line subtotals rounded to 2 decimal places.
func (s *service) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPrice()
}

func (s *service) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

func (s *service) indexOf(productID int) int {
	return slices.IndexFunc(s.lines, func(l Line) bool { return l.ProductID == productID })
}

func (s *service) totalCount() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *service) totalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}

// record appends a journal event. Cart state is authoritative, so a journal
// failure is logged and never undoes the mutation. Callers hold s.mu.
func (s *service) record(ctx context.Context, eventType string, payload interface{}) {
	if s.journal == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to marshal cart event", zap.String("event", eventType), zap.Error(err))
		return
	}
	event := journal.Event{EventType: eventType, EventData: data}
	if err := s.journal.AppendEvents(ctx, s.id, aggregateType, s.version, []journal.Event{event}); err != nil {
		s.logger.Error("failed to append cart event", zap.String("event", eventType), zap.Error(err))
		return
	}
	s.version++
}
