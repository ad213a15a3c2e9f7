// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// snapshot is one committed fetch result.
type snapshot struct {
	generation uint64
	products   []Product
}

// service implements the Service interface.
type service struct {
	source  Source
	limiter *rate.Limiter
	logger  *zap.Logger
	tracer  trace.Tracer

	group      singleflight.Group
	generation atomic.Uint64
	commitMu   sync.Mutex
	current    atomic.Pointer[snapshot]
}

// NewService creates a new catalog store reading from source. A nil limiter
// leaves reloads unlimited.
func NewService(source Source, limiter *rate.Limiter, logger *zap.Logger) Service {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		source:  source,
		limiter: limiter,
		logger:  logger,
		tracer:  otel.Tracer("storefront/catalog"),
	}
}

// Load fetches the catalog. Calls made while a fetch is in flight share its
// result instead of starting a second one. The shared fetch is detached from
// any single caller's cancellation and is bounded by the source's own timeout;
// each caller stops waiting when its ctx is done.
func (s *service) Load(ctx context.Context) ([]Product, error) {
	ch := s.group.DoChan("load", func() (interface{}, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("catalog load joined in-flight fetch")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]Product)), nil
	}
}

// Reload is a user-triggered Load subject to the reload limiter.
func (s *service) Reload(ctx context.Context) ([]Product, error) {
	if !s.limiter.Allow() {
		return nil, ErrRateLimited
	}
	return s.Load(ctx)
}

func (s *service) fetch(ctx context.Context) ([]Product, error) {
	gen := s.generation.Add(1)
	ctx, span := s.tracer.Start(ctx, "catalog.load",
		trace.WithAttributes(attribute.Int64("catalog.generation", int64(gen))),
	)
	defer span.End()

	products, err := s.source.FetchProducts(ctx)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("failed to fetch products", zap.Uint64("generation", gen), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if !s.commit(gen, products) {
		span.SetAttributes(attribute.Bool("catalog.stale", true))
		s.logger.Warn("discarding stale catalog fetch", zap.Uint64("generation", gen))
		return s.Products(), nil
	}

	span.SetAttributes(attribute.Int("catalog.products", len(products)))
	s.logger.Info("catalog loaded", zap.Uint64("generation", gen), zap.Int("products", len(products)))
	return products, nil
}

// commit installs products unless a newer generation is already visible.
func (s *service) commit(gen uint64, products []Product) bool {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if cur := s.current.Load(); cur != nil && cur.generation > gen {
		return false
	}
	s.current.Store(&snapshot{generation: gen, products: slices.Clone(products)})
	return true
}

// Products returns the current snapshot, empty before the first load.
func (s *service) Products() []Product {
	cur := s.current.Load()
	if cur == nil {
		return []Product{}
	}
	return slices.Clone(cur.products)
}

// Product looks a product up in the current snapshot.
func (s *service) Product(id int) (Product, bool) {
	cur := s.current.Load()
	if cur == nil {
		return Product{}, false
	}
	for _, p := range cur.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Categories returns the distinct categories of the current snapshot.
func (s *service) Categories() []string {
	cur := s.current.Load()
	if cur == nil {
		return []string{}
	}
	return DistinctCategories(cur.products)
}
