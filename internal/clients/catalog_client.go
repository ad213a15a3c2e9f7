// internal/clients/catalog_client.go
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/catalog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrMalformedPayload = errors.New("malformed product list")

// CatalogClient reads the product list from the remote Catalog Source.
type CatalogClient struct {
	url    string
	http   *http.Client
	tracer trace.Tracer
}

func NewCatalogClient(url string, httpClient *http.Client) *CatalogClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CatalogClient{
		url:    url,
		http:   httpClient,
		tracer: otel.Tracer("storefront/clients"),
	}
}

// FetchProducts performs a single GET against the source. There is no retry.
func (c *CatalogClient) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	ctx, span := c.tracer.Start(ctx, "catalog_client.fetch_products",
		trace.WithAttributes(attribute.String("http.url", c.url)),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	var products []catalog.Product
	if err := dec.Decode(&products); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if products == nil {
		return nil, ErrMalformedPayload
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after product list", ErrMalformedPayload)
	}

	seen := make(map[int]struct{}, len(products))
	for i, p := range products {
		if p.ID <= 0 || p.Title == "" {
			return nil, fmt.Errorf("%w: product at index %d has no id or title", ErrMalformedPayload, i)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %d: negative price %s", p.ID, p.Price)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("product at index %d: duplicate id %d", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	span.SetAttributes(attribute.Int("catalog.products", len(products)))
	return products, nil
}
