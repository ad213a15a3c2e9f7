package cart

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/journal"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog map[int]catalog.Product

func (s stubCatalog) Product(id int) (catalog.Product, bool) {
	p, ok := s[id]
	return p, ok
}

func testCatalog() stubCatalog {
	return stubCatalog{
		1: {ID: 1, Title: "Backpack", Price: decimal.RequireFromString("109.95"), Category: "men's clothing"},
		2: {ID: 2, Title: "T-Shirt", Price: decimal.RequireFromString("22.30"), Category: "men's clothing"},
		3: {ID: 3, Title: "Ring", Price: decimal.RequireFromString("0.10"), Category: "jewelery"},
	}
}

func TestCart_AddItemAggregatesQuantity(t *testing.T) {
	ctx := context.Background()
	c := NewService(testCatalog(), nil, nil)

	line, err := c.AddItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	_, err = c.AddItem(ctx, 2)
	require.NoError(t, err)

	line, err = c.AddItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].ProductID, "lines keep first-added order")
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 2, lines[1].ProductID)

	assert.Equal(t, 3, c.TotalCount())
	assert.True(t, decimal.RequireFromString("242.20").Equal(c.TotalPrice()), "got %s", c.TotalPrice())
	assert.False(t, c.IsEmpty())
}

func TestCart_AddUnknownProduct(t *testing.T) {
	c := NewService(testCatalog(), nil, nil)

	_, err := c.AddItem(context.Background(), 42)
	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.True(t, c.IsEmpty())
}

func TestCart_RemoveOneUnit(t *testing.T) {
	ctx := context.Background()
	c := NewService(testCatalog(), nil, nil)

	for _, id := range []int{1, 1, 2} {
		_, err := c.AddItem(ctx, id)
		require.NoError(t, err)
	}

	c.RemoveOneUnit(ctx, 1)
	require.Len(t, c.Lines(), 2)
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	c.RemoveOneUnit(ctx, 1)
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 2, c.Lines()[0].ProductID)

	// absent ids are ignored
	c.RemoveOneUnit(ctx, 1)
	c.RemoveOneUnit(ctx, 99)
	assert.Equal(t, 1, c.TotalCount())
}

func TestCart_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewService(testCatalog(), nil, nil)
	_, _ = c.AddItem(ctx, 1)

	c.Clear(ctx)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalCount())
	assert.True(t, c.TotalPrice().IsZero())

	c.Clear(ctx)
	assert.True(t, c.IsEmpty())
}

func TestCart_CheckoutEmpty(t *testing.T) {
	c := NewService(testCatalog(), nil, nil)

	receipt, err := c.Checkout(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, receipt)
}

func TestCart_Checkout(t *testing.T) {
	ctx := context.Background()
	c := NewService(testCatalog(), nil, nil)
	for _, id := range []int{3, 3, 3} {
		_, err := c.AddItem(ctx, id)
		require.NoError(t, err)
	}

	receipt, err := c.Checkout(ctx)
	require.NoError(t, err)

	assert.Equal(t, c.ID(), receipt.CartID)
	assert.NotEqual(t, receipt.CartID, receipt.OrderID)
	assert.Equal(t, 3, receipt.TotalCount)
	assert.Equal(t, "0.30", receipt.TotalPrice.StringFixed(2))
	require.Len(t, receipt.Lines, 1)
	assert.False(t, receipt.CheckedOutAt.IsZero())

	assert.True(t, c.IsEmpty())
	_, err = c.Checkout(ctx)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewService(testCatalog(), nil, nil)
	_, _ = c.AddItem(ctx, 1)

	lines := c.Lines()
	lines[0].Quantity = 100

	assert.Equal(t, 1, c.TotalCount())
}

func TestCart_RecordsJournalEvents(t *testing.T) {
	ctx := context.Background()
	j := journal.New()
	c := NewService(testCatalog(), j, nil)

	_, _ = c.AddItem(ctx, 1)
	_, _ = c.AddItem(ctx, 1)
	c.RemoveOneUnit(ctx, 1)
	_, err := c.Checkout(ctx)
	require.NoError(t, err)
	_, err = c.Checkout(ctx)
	require.ErrorIs(t, err, ErrEmptyCart)

	events, err := j.LoadEvents(ctx, c.ID(), 0, 0)
	require.NoError(t, err)

	var types []string
	for i, e := range events {
		types = append(types, e.EventType)
		assert.Equal(t, i+1, e.Version)
		assert.Equal(t, "cart", e.AggregateType)
	}
	assert.Equal(t, []string{EventItemAdded, EventItemAdded, EventUnitRemoved, EventCheckedOut}, types)

	var added ItemAddedEvent
	require.NoError(t, json.Unmarshal(events[1].EventData, &added))
	assert.Equal(t, ItemAddedEvent{ProductID: 1, Quantity: 2}, added)

	version, err := j.GetCurrentVersion(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, 4, version)
}

func TestCart_SnapshotIsConsistent(t *testing.T) {
	ctx := context.Background()
	c := NewService(testCatalog(), nil, nil)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := w%3 + 1
			for {
				select {
				case <-stop:
					return
				default:
				}
				_, _ = c.AddItem(ctx, id)
				c.RemoveOneUnit(ctx, id)
			}
		}()
	}

	for range 2000 {
		snap := c.Snapshot()
		count := 0
		total := decimal.Zero
		for _, l := range snap.Lines {
			count += l.Quantity
			total = total.Add(l.Subtotal())
		}
		if !assert.Equal(t, count, snap.TotalCount) || !assert.True(t, total.Round(2).Equal(snap.TotalPrice)) {
			break
		}
	}
	close(stop)
	wg.Wait()
}

func TestCart_SnapshotMatchesAccessors(t *testing.T) {
	ctx := context.Background()
	c := NewService(testCatalog(), nil, nil)
	for _, id := range []int{1, 2, 2} {
		_, err := c.AddItem(ctx, id)
		require.NoError(t, err)
	}

	snap := c.Snapshot()
	assert.Equal(t, c.Lines(), snap.Lines)
	assert.Equal(t, 3, snap.TotalCount)
	assert.Equal(t, "154.55", snap.TotalPrice.StringFixed(2))
}
