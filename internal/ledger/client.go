package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Config holds ledger service connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client credits rewards against an external ledger service over HTTP.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

type creditRequest struct {
	KidID       string `json:"kid_id"`
	AmountCents int64  `json:"amount_cents"`
	Label       string `json:"label"`
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreditReward posts a single credit to the ledger service.
func (c *Client) CreditReward(ctx context.Context, kidID string, amountCents int64, label string) error {
	body, err := json.Marshal(creditRequest{KidID: kidID, AmountCents: amountCents, Label: label})
	if err != nil {
		return fmt.Errorf("marshal credit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/credits", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build credit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post credit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ledger returned status %d", resp.StatusCode)
	}
	return nil
}
