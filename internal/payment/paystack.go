package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/akuaasantewaa/fitta/store"
)

const defaultTimeout = 20 * time.Second

// Client talks to the Paystack transaction API.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient creates a Paystack client.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: defaultTimeout},
	}
}

// InitializeRequest carries a checkout-initialization call.
type InitializeRequest struct {
	Email          string `json:"email"`
	AmountSubunits int64  `json:"amount"`
	Currency       string `json:"currency"`
	Reference      string `json:"reference"`
	Metadata       any    `json:"metadata,omitempty"`
	CallbackURL    string `json:"callback_url,omitempty"`
}

// InitializeResult is the provider's handle onto the hosted checkout.
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyResult is the outcome of a verification call. When the provider
// cannot be reached the Status is explicitly unknown; it is never
// coerced to success.
type VerifyResult struct {
	Status      store.PaymentStatus `json:"status"`
	Reference   string              `json:"reference"`
	ProviderRef string              `json:"providerRef,omitempty"`
	Verified    bool                `json:"verified"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize opens a hosted checkout for the request.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	envelope, err := c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if !envelope.Status {
		return nil, fmt.Errorf("provider rejected initialization: %s", envelope.Message)
	}

	var result InitializeResult
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode initialize response: %w", err)
	}
	return &result, nil
}

// Verify asks the provider for the final state of a reference. A
// transport or decode failure returns an unknown-status result together
// with the error so callers can record the uncertainty.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	unknown := &VerifyResult{Status: store.PaymentStatusUnknown, Reference: reference}

	envelope, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return unknown, err
	}
	if !envelope.Status {
		return unknown, fmt.Errorf("provider rejected verification: %s", envelope.Message)
	}

	var data struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		ID        int64  `json:"id"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return unknown, fmt.Errorf("failed to decode verify response: %w", err)
	}

	result := &VerifyResult{
		Reference:   reference,
		ProviderRef: fmt.Sprintf("%d", data.ID),
	}
	switch data.Status {
	case "success":
		result.Status = store.PaymentStatusSuccess
		result.Verified = true
	case "abandoned":
		result.Status = store.PaymentStatusCancelled
		result.Verified = true
	case "failed":
		result.Status = store.PaymentStatusFailed
		result.Verified = true
	default:
		result.Status = store.PaymentStatusPending
		result.Verified = true
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*apiEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, raw)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &envelope, nil
}
