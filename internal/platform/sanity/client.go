// Package sanity fetches content from the Sanity CMS over its HTTP query
// API. Read-only; all queries are GROQ strings from queries.go.
package sanity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/akdamba/portal-backend/internal/pkg/envutil"
	"github.com/akdamba/portal-backend/internal/pkg/httpx"
	"github.com/akdamba/portal-backend/internal/pkg/logger"
)

type Client interface {
	// Query runs a GROQ query and decodes the result into out. Params are
	// exposed to the query as $name.
	Query(ctx context.Context, groq string, params map[string]interface{}, out interface{}) error
}

type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	UseCDN     bool
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv() Config {
	return Config{
		ProjectID:  strings.TrimSpace(os.Getenv("SANITY_PROJECT_ID")),
		Dataset:    envutil.String("SANITY_DATASET", "production"),
		APIVersion: envutil.String("SANITY_API_VERSION", "2024-01-01"),
		UseCDN:     envutil.Bool("SANITY_USE_CDN", true),
		Timeout:    time.Duration(envutil.Int("SANITY_TIMEOUT_SECONDS", 15)) * time.Second,
		MaxRetries: envutil.Int("SANITY_MAX_RETRIES", 3),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("missing SANITY_PROJECT_ID")
	}
	if strings.TrimSpace(cfg.Dataset) == "" {
		cfg.Dataset = "production"
	}
	if strings.TrimSpace(cfg.APIVersion) == "" {
		cfg.APIVersion = "2024-01-01"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	host := "api.sanity.io"
	if cfg.UseCDN {
		host = "apicdn.sanity.io"
	}
	base := fmt.Sprintf("https://%s.%s/v%s/data/query/%s", cfg.ProjectID, host, cfg.APIVersion, cfg.Dataset)

	return &client{
		log:        log.With("client", "SanityClient"),
		cfg:        cfg,
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// BaseURLOverride is for tests only.
func BaseURLOverride(c Client, base string) {
	if cc, ok := c.(*client); ok {
		cc.baseURL = strings.TrimRight(base, "/")
	}
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "sanity: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 2000 {
		msg = msg[:2000] + "..."
	}
	return fmt.Sprintf("sanity http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) Query(ctx context.Context, groq string, params map[string]interface{}, out interface{}) error {
	values := url.Values{}
	values.Set("query", groq)
	for name, val := range params {
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("sanity: encode param %q: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}
	reqURL := c.baseURL + "?" + values.Encode()

	raw, err := c.get(ctx, reqURL)
	if err != nil {
		return err
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("sanity: decode envelope: %w", err)
	}
	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("sanity: decode result: %w", err)
	}
	return nil
}

func (c *client) get(ctx context.Context, reqURL string) ([]byte, error) {
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		raw, resp, err := c.getOnce(ctx, reqURL)
		if err == nil {
			return raw, nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.cfg.MaxRetries {
			return nil, err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 5*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Sanity query retrying",
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return nil, errors.New("unreachable retry loop")
}

func (c *client) getOnce(ctx context.Context, reqURL string) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, resp, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, resp, nil
}
