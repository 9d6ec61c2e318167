// Package pushclient forwards notification events to the external push
// gateway. Delivery is best effort; the notifications table remains the
// source of truth for what a student has been told.
package pushclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Push is one delivery request to the gateway.
type Push struct {
	RecipientID string `json:"recipientId"`
	EntryID     string `json:"entryId"`
	Status      string `json:"status"`
	Event       string `json:"event"`
}

// Client calls the push gateway.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client. With skip set, Send is a no-op success so the worker
// can run without a gateway in dev.
func New(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Health checks gateway reachability.
func (c *Client) Health(ctx context.Context) error {
	if c.Skip {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway unhealthy: %d", resp.StatusCode)
	}
	return nil
}

// Send delivers one push to the gateway.
func (c *Client) Send(ctx context.Context, p Push) error {
	if c.Skip {
		return nil
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/push", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
