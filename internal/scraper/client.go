package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/config"
	"github.com/bco89/product-builder-pro-sub000/internal/domain"
)

// Client calls the third-party extraction API that turns a reference URL
// into structured product data
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a scraper HTTP client
func NewClient(cfg config.ScraperConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// Configured reports whether the client has credentials to operate
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type extractRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type extractResponse struct {
	Success bool                   `json:"success"`
	Data    *domain.ProductExtract `json:"data"`
	Error   string                 `json:"error"`
}

// Extract fetches structured product data for a reference URL
func (c *Client) Extract(ctx context.Context, pageURL string) (*domain.ProductExtract, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("scraper client not configured: base URL and API key required")
	}

	body, err := json.Marshal(extractRequest{URL: pageURL, Formats: []string{"extract"}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Scrape request failed", zap.Error(err), zap.String("url", pageURL))
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper returned %d: %s", resp.StatusCode, string(raw))
	}

	var out extractResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if !out.Success || out.Data == nil {
		return nil, fmt.Errorf("scraper extraction failed: %s", out.Error)
	}

	out.Data.SourceURL = pageURL
	return out.Data, nil
}
