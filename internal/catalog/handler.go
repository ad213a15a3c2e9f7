// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

type Handler struct {
	service Service
	offers  []Offer
	labels  map[string]string
}

func NewHandler(service Service, offers []Offer, labels map[string]string) *Handler {
	return &Handler{service: service, offers: offers, labels: labels}
}

// HandleProducts lists the catalog, optionally narrowed by exactly one of
// the category, q or offer query parameters.
func (h *Handler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category, term, offerParam := query.Get("category"), query.Get("q"), query.Get("offer")

	set := 0
	for _, v := range []string{category, term, offerParam} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		http.Error(w, "only one of category, q or offer may be given", http.StatusBadRequest)
		return
	}

	products := h.service.Products()
	switch {
	case category != "":
		products = ByCategory(products, category)
	case term != "":
		products = BySearchTerm(products, term)
	case offerParam != "":
		id, err := strconv.Atoi(offerParam)
		if err != nil {
			http.Error(w, "invalid offer ID", http.StatusBadRequest)
			return
		}
		offer, ok := FindOffer(h.offers, id)
		if !ok {
			http.Error(w, "offer not found", http.StatusNotFound)
			return
		}
		products = ByOfferTag(products, offer)
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LabelCategories(h.labels, h.service.Categories()))
}

func (h *Handler) HandleOffers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.offers)
}

func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Reload(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, ErrRateLimited):
			http.Error(w, err.Error(), http.StatusTooManyRequests)
		case errors.Is(err, ErrFetch):
			http.Error(w, err.Error(), http.StatusBadGateway)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"products": len(products)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
