// Package api is the REST client for the storefront backend. The backend,
// its database and the payment webhook behind it are external collaborators;
// everything the session knows about them goes through this client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wleft/storefront/internal/domain"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewClient builds a client for the backend at baseURL. Pass a nil httpClient
// to get the default instrumented one.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "storefront-catalog",
			Timeout: 30 * time.Second,
		}),
	}
}

// FetchProducts retrieves the full product list. Repeated backend failures
// trip the breaker so a dead backend is not hammered by every poll tick.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, http.MethodGet, "/products", nil)
	})
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

type ProductInput struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
}

// AddProduct creates a product. Input is validated before any network call.
func (c *Client) AddProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Product{}, ErrInvalidProduct
	}
	if in.Price < 0 || in.Quantity < 0 {
		return domain.Product{}, ErrInvalidProduct
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return domain.Product{}, fmt.Errorf("marshal product: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/products/add", payload)
	if err != nil {
		return domain.Product{}, err
	}

	var created domain.Product
	if err := json.Unmarshal(body, &created); err != nil {
		return domain.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return created, nil
}

// Restock asks the backend to add its fixed restock increment to a product.
// The response body only signals success or failure.
func (c *Client) Restock(ctx context.Context, productID int64) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/products/%d/restock", productID), nil)
	return err
}

// CreateOrder opens a payment gateway order session for quantity units of a
// product. An error response body is opaque diagnostic text carried inside
// the returned StatusError, never parsed.
func (c *Client) CreateOrder(ctx context.Context, productID int64, quantity int) (domain.Order, error) {
	path := fmt.Sprintf("/payment/create-order/%d?quantity=%s",
		productID, url.QueryEscape(fmt.Sprint(quantity)))
	body, err := c.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return domain.Order{}, err
	}

	var order domain.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return domain.Order{}, fmt.Errorf("decode order: %w", err)
	}
	if order.ID == "" || order.Currency == "" {
		return domain.Order{}, fmt.Errorf("order response missing id or currency")
	}
	return order, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
