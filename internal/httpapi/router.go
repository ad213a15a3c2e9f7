package httpapi

import (
	"net/http"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Deps are the handlers the router mounts.
type Deps struct {
	Logger  *zap.Logger
	Catalog *catalog.Handler
	Cart    *cart.Handler
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", d.Catalog.HandleProducts)
		r.Get("/categories", d.Catalog.HandleCategories)
		r.Get("/offers", d.Catalog.HandleOffers)
		r.Post("/catalog/reload", d.Catalog.HandleReload)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", d.Cart.HandleGetCart)
			r.Post("/items/{productId}", d.Cart.HandleAddItem)
			r.Delete("/items/{productId}", d.Cart.HandleRemoveItem)
			r.Post("/checkout", d.Cart.HandleCheckout)
			r.Get("/events", d.Cart.HandleEvents)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
