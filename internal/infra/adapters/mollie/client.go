package mollie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"spectux-billing/internal/domain"
	"spectux-billing/internal/domain/model"
	"spectux-billing/internal/domain/ports/adapter"
	"spectux-billing/internal/infra/metrics"
)

// Compile-time check
var _ adapter.BillingProvider = (*Client)(nil)

const defaultBaseURL = "https://api.mollie.com/v2"

// Client implements adapter.BillingProvider against the Mollie v2 REST API.
// Every mutating POST carries a fresh Idempotency-Key so a retried HTTP call
// cannot double-create a provider resource.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a Mollie API client. baseURL is overridable for tests;
// empty means the live API.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: mollie api key is empty", domain.ErrInvalidArgument)
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *Client) Name() string { return "mollie" }

// apiError is Mollie's problem-document error body.
type apiError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type checkoutLinks struct {
	Checkout struct {
		Href string `json:"href"`
	} `json:"checkout"`
}

type paymentResponse struct {
	model.PaymentRecord
	Links checkoutLinks `json:"_links"`
}

type subscriptionListResponse struct {
	Embedded struct {
		Subscriptions []model.SubscriptionRecord `json:"subscriptions"`
	} `json:"_embedded"`
}

func (c *Client) CreateCustomer(ctx context.Context, name, email string) (*model.Customer, error) {
	body := map[string]any{"name": name, "email": email}
	var out model.Customer
	if err := c.do(ctx, "create_customer", http.MethodPost, "/customers", body, &out); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("create customer: %w: response carries no customer id", domain.ErrUpstream)
	}
	return &out, nil
}

func (c *Client) GetPayment(ctx context.Context, id string) (*model.PaymentRecord, error) {
	var out paymentResponse
	if err := c.do(ctx, "get_payment", http.MethodGet, "/payments/"+id, nil, &out); err != nil {
		return nil, fmt.Errorf("get payment %s: %w", id, err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("get payment %s: %w: response carries no payment id", id, domain.ErrUpstream)
	}
	return &out.PaymentRecord, nil
}

func (c *Client) CreatePayment(ctx context.Context, p adapter.CreatePaymentParams) (string, string, error) {
	body := map[string]any{
		"amount":       p.Amount,
		"customerId":   p.CustomerID,
		"sequenceType": string(p.SequenceType),
		"description":  p.Description,
		"redirectUrl":  p.RedirectURL,
		"webhookUrl":   p.WebhookURL,
		"metadata":     p.Metadata,
	}
	var out paymentResponse
	if err := c.do(ctx, "create_payment", http.MethodPost, "/payments", body, &out); err != nil {
		return "", "", fmt.Errorf("create payment: %w", err)
	}
	if out.ID == "" {
		return "", "", fmt.Errorf("create payment: %w: response carries no payment id", domain.ErrUpstream)
	}
	if out.Links.Checkout.Href == "" {
		return "", "", fmt.Errorf("create payment: %w: response carries no checkout link", domain.ErrUpstream)
	}
	return out.ID, out.Links.Checkout.Href, nil
}

func (c *Client) ListSubscriptions(ctx context.Context, customerID string) ([]model.SubscriptionRecord, error) {
	var out subscriptionListResponse
	if err := c.do(ctx, "list_subscriptions", http.MethodGet, "/customers/"+customerID+"/subscriptions", nil, &out); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return out.Embedded.Subscriptions, nil
}

func (c *Client) CreateSubscription(ctx context.Context, p adapter.CreateSubscriptionParams) (*model.SubscriptionRecord, error) {
	body := map[string]any{
		"amount":      p.Amount,
		"interval":    p.Interval,
		"description": p.Description,
		"startDate":   p.StartDate.Format("2006-01-02"),
	}
	var out model.SubscriptionRecord
	if err := c.do(ctx, "create_subscription", http.MethodPost, "/customers/"+p.CustomerID+"/subscriptions", body, &out); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("create subscription: %w: response carries no subscription id", domain.ErrUpstream)
	}
	return &out, nil
}

// do performs one authenticated API call and decodes the response into out.
// Any transport failure, non-2xx status, or undecodable body wraps
// domain.ErrUpstream; missing fields are checked by the callers, never
// defaulted here. op is the fixed metric label for the call (no ids).
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		metrics.ObserveProviderCall(op, latency, false)
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	metrics.ObserveProviderCall(op, latency, resp.StatusCode < 300)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Title != "" {
			return fmt.Errorf("%w: status %d: %s: %s", domain.ErrUpstream, resp.StatusCode, apiErr.Title, apiErr.Detail)
		}
		return fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: unmarshal response: %v", domain.ErrUpstream, err)
		}
	}
	return nil
}
