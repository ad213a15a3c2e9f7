package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/journal"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/cart", h.HandleGetCart)
	r.Post("/cart/items/{productId}", h.HandleAddItem)
	r.Delete("/cart/items/{productId}", h.HandleRemoveItem)
	r.Post("/cart/checkout", h.HandleCheckout)
	r.Get("/cart/events", h.HandleEvents)
	return r
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartView {
	t.Helper()
	var v cartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHandler_CartFlow(t *testing.T) {
	j := journal.New()
	svc := NewService(testCatalog(), j, nil)
	router := newTestRouter(NewHandler(svc, j))

	rec := do(t, router, http.MethodGet, "/cart")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeCart(t, rec)
	assert.Equal(t, svc.ID().String(), v.CartID)
	assert.Empty(t, v.Lines)
	assert.Equal(t, "0.00", v.TotalPrice)

	do(t, router, http.MethodPost, "/cart/items/1")
	rec = do(t, router, http.MethodPost, "/cart/items/2")
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeCart(t, rec)
	assert.Equal(t, 2, v.TotalCount)
	assert.Equal(t, "132.25", v.TotalPrice)
	require.Len(t, v.Lines, 2)
	assert.Equal(t, "22.30", v.Lines[1].Price)

	rec = do(t, router, http.MethodDelete, "/cart/items/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeCart(t, rec).TotalCount)

	rec = do(t, router, http.MethodPost, "/cart/checkout")
	require.Equal(t, http.StatusCreated, rec.Code)
	var receipt receiptView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&receipt))
	assert.Equal(t, 1, receipt.TotalCount)
	assert.Equal(t, "22.30", receipt.TotalPrice, "receipt prices keep two decimal places")
	assert.Equal(t, svc.ID().String(), receipt.CartID)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, "22.30", receipt.Lines[0].Price)
	assert.Equal(t, "22.30", receipt.Lines[0].Subtotal)

	rec = do(t, router, http.MethodGet, "/cart/events")
	require.Equal(t, http.StatusOK, rec.Code)
	var events []journal.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&events))
	assert.Len(t, events, 4)
}

func TestHandler_AddItemErrors(t *testing.T) {
	router := newTestRouter(NewHandler(NewService(testCatalog(), nil, nil), nil))

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/cart/items/42").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/cart/items/abc").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodDelete, "/cart/items/abc").Code)
}

func TestHandler_CheckoutEmpty(t *testing.T) {
	router := newTestRouter(NewHandler(NewService(testCatalog(), nil, nil), nil))

	rec := do(t, router, http.MethodPost, "/cart/checkout")
	require.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, emptyCartNotice, body["notice"])
}

func TestHandler_EventsWithoutJournal(t *testing.T) {
	router := newTestRouter(NewHandler(NewService(testCatalog(), nil, nil), nil))

	rec := do(t, router, http.MethodGet, "/cart/events")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
