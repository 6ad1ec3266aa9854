package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Config holds the gateway endpoint and merchant credentials
type Config struct {
	BaseURL    string
	MerchantID string
	PublicKey  string
	PrivateKey string
	Timeout    time.Duration
}

// Client is an HTTP implementation of Gateway against the gateway's
// JSON API
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a gateway client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type clientTokenResponse struct {
	ClientToken string `json:"clientToken"`
}

// ClientToken requests a one-time client token for the buyer's browser
func (c *Client) ClientToken(ctx context.Context) (string, error) {
	body, err := c.post(ctx, "/client_token", map[string]string{
		"merchantId": c.cfg.MerchantID,
	})
	if err != nil {
		return "", err
	}

	var resp clientTokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode client token response: %w", err)
	}
	if resp.ClientToken == "" {
		return "", fmt.Errorf("gateway returned empty client token")
	}

	return resp.ClientToken, nil
}

// Sale submits a sale transaction. A non-nil error means the call
// itself failed; a result with Success=false means the gateway
// declined the payment.
func (c *Client) Sale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	payload := map[string]interface{}{
		"merchantId":         c.cfg.MerchantID,
		"amount":             req.Amount,
		"paymentMethodNonce": req.PaymentMethodNonce,
		"options": map[string]bool{
			"submitForSettlement": true,
		},
	}

	body, err := c.post(ctx, "/transactions", payload)
	if err != nil {
		return nil, err
	}

	result := &SaleResult{Raw: body}
	if err := json.Unmarshal(body, result); err != nil {
		return nil, fmt.Errorf("failed to decode sale response: %w", err)
	}

	c.logger.Debug("Gateway sale completed",
		zap.Bool("success", result.Success),
		zap.String("amount", req.Amount),
	)

	return result, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.PublicKey, c.cfg.PrivateKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return body, nil
}
