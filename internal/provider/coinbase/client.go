package coinbase

import (
	"context"
	"fmt"
	"time"

	"chargesync/internal/config"
	"chargesync/internal/provider/base"

	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL = "https://api.commerce.coinbase.com"
	apiVersion     = "2018-03-22"
)

// Client talks to the Coinbase Commerce API
type Client struct {
	httpClient *base.HTTPClient
	apiKey     string
}

// NewClient creates a Commerce API client from deployment config
func NewClient(cfg config.ProviderCfg) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	httpClient := base.NewHTTPClient("coinbase", timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient.SetBaseURL(baseURL)

	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"X-CC-Api-Key": c.apiKey,
		"X-CC-Version": apiVersion,
	}
}

// RetrieveCharge fetches the authoritative charge state by external id
func (c *Client) RetrieveCharge(ctx context.Context, externalID string) (*Charge, error) {
	resp, err := c.httpClient.Get(ctx, "/charges/"+externalID, c.headers())
	if err != nil {
		return nil, err
	}

	var env chargeEnvelope
	if err := resp.UnmarshalJSON(&env); err != nil {
		return nil, fmt.Errorf("failed to parse charge response: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, apiFailure(resp.StatusCode, env.Err)
	}

	return env.Data.toCharge(), nil
}

// CreateCharge creates a fixed-price one-time charge and returns its id and
// hosted checkout URL.
func (c *Client) CreateCharge(ctx context.Context, req CreateChargeReq) (*Charge, error) {
	payload := map[string]any{
		"name":        req.Name,
		"description": req.Description,
		"local_price": map[string]string{
			"amount":   req.Amount,
			"currency": req.Currency,
		},
		"pricing_type": "fixed_price",
		"redirect_url": req.RedirectURL,
		"cancel_url":   req.CancelURL,
	}

	resp, err := c.httpClient.PostJSON(ctx, "/charges", payload, c.headers())
	if err != nil {
		return nil, err
	}

	var env chargeEnvelope
	if err := resp.UnmarshalJSON(&env); err != nil {
		return nil, fmt.Errorf("failed to parse charge response: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, apiFailure(resp.StatusCode, env.Err)
	}

	log.Info().
		Str("charge_id", env.Data.ID).
		Str("amount", req.Amount).
		Str("currency", req.Currency).
		Msg("charge created")

	return env.Data.toCharge(), nil
}

func apiFailure(statusCode int, apiErr *apiError) error {
	if apiErr != nil && apiErr.Message != "" {
		return fmt.Errorf("commerce API error (%d): %s", statusCode, apiErr.Message)
	}
	return fmt.Errorf("commerce API error (%d)", statusCode)
}
