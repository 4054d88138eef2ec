// Package transport implements the HTTP client for the campus shuttle
// platform: departure listings and the booking endpoint.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kheireddine-anas/busbot/core/booking"
	"github.com/kheireddine-anas/busbot/core/departure"
	"github.com/kheireddine-anas/busbot/core/logger"
)

// Config holds connection settings for the platform.
type Config struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	UserAgent      string `json:"user_agent"`
	Referer        string `json:"referer"`
	CookieName     string `json:"cookie_name"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0"
	}
	if c.CookieName == "" {
		c.CookieName = "le_token"
	}
	if c.Referer == "" && c.BaseURL != "" {
		c.Referer = strings.TrimSuffix(c.BaseURL, "/") + "/home"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	return nil
}

// Client talks to the platform's departure and booking endpoints. It
// implements booking.Booker.
type Client struct {
	cfg  Config
	http *http.Client
	log  logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  log,
	}
}

// CurrentDepartures fetches the listing of departures bookable now.
func (c *Client) CurrentDepartures(ctx context.Context, token string) ([]departure.Record, error) {
	return c.listDepartures(ctx, "/api/departure/current", token)
}

// UpcomingDepartures fetches departures visible but not yet bookable.
func (c *Client) UpcomingDepartures(ctx context.Context, token string) ([]departure.Record, error) {
	return c.listDepartures(ctx, "/api/departure/upcoming", token)
}

func (c *Client) listDepartures(ctx context.Context, path, token string) ([]departure.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, token)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("departure listing: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusUnauthorized {
		return nil, booking.ErrUnauthorized
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("departure listing: unexpected status %s", res.Status)
	}
	var records []departure.Record
	if err := json.NewDecoder(res.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("departure listing: decode: %w", err)
	}
	return records, nil
}

type bookRequest struct {
	DepartureID int  `json:"departure_id"`
	ToCampus    bool `json:"to_campus"`
}

// Book sends one seat reservation request and returns the raw response
// body. No retry, no prior validation of the departure id.
func (c *Client) Book(ctx context.Context, token string, departureID int, toCampus bool) (string, error) {
	payload, err := json.Marshal(bookRequest{DepartureID: departureID, ToCampus: toCampus})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/tickets/book", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	c.setHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("book departure %d: %w", departureID, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("book departure %d: read body: %w", departureID, err)
	}
	if res.StatusCode == http.StatusUnauthorized {
		return "", booking.ErrUnauthorized
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("book departure %d: unexpected status %s: %s", departureID, res.Status, body)
	}
	c.log.Debugf("booking response: %s", body)
	return string(body), nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if c.cfg.Referer != "" {
		req.Header.Set("Referer", c.cfg.Referer)
	}
	req.AddCookie(&http.Cookie{Name: c.cfg.CookieName, Value: token})
}
