// Package market fetches read-only NEPSE market data from public endpoints:
// open offerings and the home-page snapshot from ShareHub, live indices from
// NepseAlpha, the market summary page from ShareSansar, top movers from
// MeroLagani, and the depository participant list from CDSC.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/skoirala/nepse-agent/internal/logger"
)

// DefaultTimeout bounds each market-data request.
const DefaultTimeout = 10 * time.Second

const userAgent = "Mozilla/5.0 (compatible; NepseAgent/1.0)"

// Error reports a failed fetch with the URL it was against.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("market fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("market fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client calls the public market-data endpoints. The URL fields exist so
// tests can point at local servers; zero values hit the live services.
type Client struct {
	HTTP *http.Client
	Log  logger.Logger

	ShareHubDataURL string
	ShareHubLiveURL string
	NepseAlphaURL   string
	ShareSansarURL  string
	MeroLaganiURL   string
	CDSCURL         string
}

// NewClient builds a Client with the live endpoints and the given timeout.
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		HTTP:            &http.Client{Timeout: timeout},
		Log:             log,
		ShareHubDataURL: "https://sharehubnepal.com/data",
		ShareHubLiveURL: "https://sharehubnepal.com/live",
		NepseAlphaURL:   "https://nepsealpha.com",
		ShareSansarURL:  "https://www.sharesansar.com",
		MeroLaganiURL:   "https://merolagani.com",
		CDSCURL:         "https://webbackend.cdsc.com.np",
	}
}

// get fetches url and returns the body for a 200 response.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Message: "building request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)

	c.Log.Debug("market fetch", map[string]interface{}{"url": url})
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: url, Message: "reading response", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{URL: url, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return body, nil
}

// getJSON fetches url and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{URL: url, Message: "decoding JSON", Cause: err}
	}
	return nil
}

// getDocument fetches url and parses the body as HTML.
func (c *Client) getDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, &Error{URL: url, Message: "parsing HTML", Cause: err}
	}
	return doc, nil
}
