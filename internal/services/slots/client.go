package slots

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/jobs/tasks"
)

// Client talks to the placement service that owns exclusive listing slots.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	retrier retry.Retry[struct{}]
}

type Config struct {
	BaseURL      string
	Token        string
	MaxAttempts  int
	InitialDelay time.Duration
}

type releaseRequest struct {
	ListingID string `json:"listing_id"`
	Reason    string `json:"reason"`
}

func NewClient(httpClient *http.Client, cfg Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}

	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:   strings.TrimSpace(cfg.Token),
		http:    httpClient,
		retrier: retry.New[struct{}](retry.Config{
			MaxAttempts:        cfg.MaxAttempts,
			InitialDelay:       cfg.InitialDelay,
			BackoffPolicy:      retry.BackoffExponential,
			Multiplier:         2.0,
			NonRetryableErrors: []error{tasks.ErrPermanent},
		}),
	}
}

// Release frees whatever placement the listing holds. A listing without a
// slot is not an error.
func (c *Client) Release(ctx context.Context, listingID uuid.UUID) error {
	if c.baseURL == "" {
		return fmt.Errorf("slots base url is empty: %w", tasks.ErrPermanent)
	}

	body, err := json.Marshal(releaseRequest{ListingID: listingID.String(), Reason: "moderation"})
	if err != nil {
		return fmt.Errorf("marshal release request: %w", err)
	}

	var last error
	_, err = c.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
		last = c.post(ctx, "/v1/slots/release", body)
		return struct{}{}, last
	})
	if err != nil && last != nil {
		return last
	}
	return err
}

func (c *Client) post(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slots request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call slots service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusConflict:
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return fmt.Errorf("slots service rejected request with %d: %w", resp.StatusCode, tasks.ErrPermanent)
	default:
		return errors.New("slots service unavailable: " + resp.Status)
	}
}
