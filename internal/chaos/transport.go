// Package chaos injects latency and failures into outbound HTTP calls so the
// storefront's fetch-failure path can be exercised on demand.
package chaos

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrInjectedFailure = errors.New("chaos: injected failure")

// Experiment describes the faults applied to every request.
type Experiment struct {
	Name        string
	Latency     time.Duration
	FailureRate float64 // 0.0 to 1.0
}

// Enabled reports whether the experiment injects anything.
func (e Experiment) Enabled() bool {
	return e.Latency > 0 || e.FailureRate > 0
}

// Stats counts what the transport has done so far.
type Stats struct {
	Requests int
	Delayed  int
	Failures int
}

// Transport is an http.RoundTripper that applies an Experiment before
// delegating to the wrapped transport.
type Transport struct {
	base       http.RoundTripper
	experiment Experiment
	roll       func() float64
	tracer     trace.Tracer

	mu    sync.Mutex
	stats Stats
}

func NewTransport(base http.RoundTripper, exp Experiment) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:       base,
		experiment: exp,
		roll:       rand.Float64,
		tracer:     otel.Tracer("storefront/chaos"),
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(req.Context(), "chaos.round_trip",
		trace.WithAttributes(
			attribute.String("experiment.name", t.experiment.Name),
			attribute.String("http.url", req.URL.String()),
		),
	)
	defer span.End()

	t.mu.Lock()
	t.stats.Requests++
	t.mu.Unlock()

	if d := t.experiment.Latency; d > 0 {
		span.AddEvent("injecting_latency", trace.WithAttributes(attribute.Int64("latency.ms", d.Milliseconds())))
		if err := sleep(ctx, d); err != nil {
			return nil, err
		}
		t.mu.Lock()
		t.stats.Delayed++
		t.mu.Unlock()
	}

	if t.experiment.FailureRate > 0 && t.roll() < t.experiment.FailureRate {
		span.AddEvent("injecting_failure")
		span.RecordError(ErrInjectedFailure)
		t.mu.Lock()
		t.stats.Failures++
		t.mu.Unlock()
		return nil, ErrInjectedFailure
	}

	return t.base.RoundTrip(req)
}

func (t *Transport) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
