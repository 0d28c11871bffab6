package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/port"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrUnknownProduct = errors.New("unknown product")

const requestIDHeader = "X-Request-Id"

// Client reads stock levels and product metadata from the catalog REST API:
//
//	GET {base}/stock/{id}    -> {"id": 1, "amount": 3}
//	GET {base}/products/{id} -> {"id": 1, "title": "...", ...}
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     logrus.FieldLogger
	tracer  trace.Tracer
}

var _ port.CatalogService = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient builds a catalog client. A zero timeout means requests are bound
// only by their context.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("baseURL[%s] must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log:    logrus.StandardLogger(),
		tracer: otel.Tracer("github.com/nikolayk812/cartstore/internal/catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	var stock domain.Stock
	if err := c.get(ctx, "stock", productID, &stock); err != nil {
		return domain.Stock{}, err
	}
	return stock, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	var product domain.Product
	if err := c.get(ctx, "products", productID, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (c *Client) get(ctx context.Context, resource string, productID int64, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "catalog.get "+resource, trace.WithAttributes(
		attribute.String("catalog.resource", resource),
		attribute.Int64("product.id", productID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	requestID := uuid.NewString()
	log := c.log.WithFields(logrus.Fields{
		"resource":   resource,
		"product_id": productID,
		"request_id": requestID,
	})

	endpoint := c.baseURL.JoinPath(resource, strconv.FormatInt(productID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("catalog request failed")
		return fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	log.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"elapsed": time.Since(start),
	}).Debug("catalog response")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s[%d]: %w", resource, productID, ErrUnknownProduct)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s[%d]: unexpected status %d: %s", resource, productID, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}
