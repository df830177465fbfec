// Package tiendanube is the adapter that talks to the Tienda Nube REST API.
package tiendanube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/domain/entity"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/ports"
	"github.com/jcmexdev/tiendanube-liters/internal/pkg/reqctx"
)

// DefaultTimeout bounds every upstream call.
const DefaultTimeout = 10 * time.Second

// Config holds the API credentials. Tienda Nube rejects calls without a
// User-Agent identifying the app.
type Config struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
}

// Client implements ports.CommerceClient over resty.
type Client struct {
	rest *resty.Client
}

// Ensure Client implements the port at compile time.
var _ ports.CommerceClient = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("tiendanube: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rest := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authentication", "bearer "+cfg.Token).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Client{rest: rest}, nil
}

func (c *Client) FetchOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	body, err := c.do(ctx, ports.ResourceOrder, resty.MethodGet, "/orders/{id}", orderID, nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, &ports.StatusError{Resource: ports.ResourceOrder, StatusCode: 404}
	}

	var dto orderDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("tiendanube: decode order %s: %w", orderID, err)
	}

	order := &entity.Order{ID: string(dto.ID)}
	if order.ID == "" {
		order.ID = orderID
	}
	if dto.Customer != nil {
		order.CustomerID = string(dto.Customer.ID)
	}
	for _, p := range dto.Products {
		order.Products = append(order.Products, entity.Product{Quantity: int64(p.Quantity)})
	}
	return order, nil
}

func (c *Client) FetchCustomer(ctx context.Context, customerID string) (*entity.Customer, error) {
	body, err := c.do(ctx, ports.ResourceCustomer, resty.MethodGet, "/customers/{id}", customerID, nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, &ports.StatusError{Resource: ports.ResourceCustomer, StatusCode: 404}
	}

	var dto customerDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("tiendanube: decode customer %s: %w", customerID, err)
	}

	customer := &entity.Customer{ID: string(dto.ID)}
	if dto.Note != nil {
		customer.Liters = entity.ParseLiters(*dto.Note)
	}
	return customer, nil
}

// UpdateCustomerLiters stores liters in the customer note and returns the
// customer as confirmed by the platform.
func (c *Client) UpdateCustomerLiters(ctx context.Context, customerID string, liters entity.Liters) (*entity.Customer, error) {
	req := updateCustomerRequest{ID: customerID, Note: liters.Note()}
	body, err := c.do(ctx, ports.ResourceCustomer, resty.MethodPut, "/customers/{id}", customerID, req)
	if err != nil {
		return nil, err
	}

	customer := &entity.Customer{ID: customerID, Liters: liters}
	if body == nil {
		return customer, nil
	}

	var dto customerDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("tiendanube: decode updated customer %s: %w", customerID, err)
	}
	if dto.ID != "" {
		customer.ID = string(dto.ID)
	}
	if dto.Note != nil {
		customer.Liters = entity.ParseLiters(*dto.Note)
	}
	return customer, nil
}

// do issues one call and returns the response body, or nil when the platform
// answered with an empty or null document.
func (c *Client) do(ctx context.Context, resource, method, path, id string, payload any) ([]byte, error) {
	ctx, span := otel.Tracer("tiendanube").Start(ctx, "tiendanube."+method+" "+path)
	defer span.End()
	span.SetAttributes(
		attribute.String("tiendanube.resource", resource),
		attribute.String("tiendanube.id", id),
	)

	req := c.rest.R().
		SetContext(ctx).
		SetPathParam("id", id)
	if requestID := reqctx.RequestID(ctx); requestID != "" {
		req.SetHeader(reqctx.HeaderXRequestId, requestID)
	}
	if payload != nil {
		req.SetBody(payload)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		err = classify(resource, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	if resp.IsError() {
		err := &ports.StatusError{Resource: resource, StatusCode: resp.StatusCode()}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	return body, nil
}

// classify separates an unreachable platform from other transport failures.
func classify(resource string, err error) error {
	var dnsErr *net.DNSError
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &dnsErr) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("tiendanube: %s: %w: %w", resource, ports.ErrUnavailable, err)
	}
	return fmt.Errorf("tiendanube: %s: %w", resource, err)
}
