// internal/cart/handler.go
package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/journal"

	"github.com/go-chi/chi/v5"
)

const emptyCartNotice = "Seu carrinho está vazio. Adicione alguns produtos antes de finalizar a compra."

type Handler struct {
	service Service
	journal *journal.Journal
}

func NewHandler(service Service, j *journal.Journal) *Handler {
	return &Handler{service: service, journal: j}
}

type lineView struct {
	ProductID int    `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type cartView struct {
	CartID     string     `json:"cart_id"`
	Lines      []lineView `json:"lines"`
	TotalCount int        `json:"total_count"`
	TotalPrice string     `json:"total_price"`
}

type receiptView struct {
	OrderID      string     `json:"order_id"`
	CartID       string     `json:"cart_id"`
	Lines        []lineView `json:"lines"`
	TotalCount   int        `json:"total_count"`
	TotalPrice   string     `json:"total_price"`
	CheckedOutAt time.Time  `json:"checked_out_at"`
}

func (h *Handler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.AddItem(r.Context(), id); err != nil {
		if errors.Is(err, ErrInvalidProduct) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, h.view())
}

func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	h.service.RemoveOneUnit(r.Context(), id)
	writeJSON(w, http.StatusOK, h.view())
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Checkout(r.Context())
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error(), "notice": emptyCartNotice})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, newReceiptView(receipt))
}

func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeJSON(w, http.StatusOK, []journal.Event{})
		return
	}

	events, err := h.journal.LoadEvents(r.Context(), h.service.ID(), 0, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []journal.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) view() cartView {
	snap := h.service.Snapshot()
	return cartView{
		CartID:     h.service.ID().String(),
		Lines:      lineViews(snap.Lines),
		TotalCount: snap.TotalCount,
		TotalPrice: snap.TotalPrice.StringFixed(2),
	}
}

func lineViews(lines []Line) []lineView {
	views := make([]lineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, lineView{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     l.Price.StringFixed(2),
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal().StringFixed(2),
		})
	}
	return views
}

func newReceiptView(r *Receipt) receiptView {
	return receiptView{
		OrderID:      r.OrderID.String(),
		CartID:       r.CartID.String(),
		Lines:        lineViews(r.Lines),
		TotalCount:   r.TotalCount,
		TotalPrice:   r.TotalPrice.StringFixed(2),
		CheckedOutAt: r.CheckedOutAt,
	}
}

func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
