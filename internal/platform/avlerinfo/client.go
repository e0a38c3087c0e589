// Package avlerinfo is the client for the legacy Avlerinfo identity API
// (a Loopback 3 service). Tokens are opaque: they are carried back and
// forth but never interpreted here.
package avlerinfo

import (
	"bytes"
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
	"github.com/akdamba/portal-backend/internal/pkg/logger"
)

// ErrInvalidResponse marks a 2xx upstream reply whose body could not be
// used (not JSON, or missing the token). Callers treat it like an upstream
// fault, not like bad credentials.
var ErrInvalidResponse = errors.New("avlerinfo: invalid response")

type Client interface {
	// Login exchanges a credential pair for an opaque token and the member
	// identifier.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Farmer validates a token by fetching the member profile it belongs to.
	Farmer(ctx context.Context, userID, token string) (map[string]interface{}, error)
	// Logout invalidates the token upstream. Best effort.
	Logout(ctx context.Context, token string) error
	// Probe checks connectivity by issuing a throwaway login. The returned
	// status is the upstream status; a 401 means the API is reachable.
	Probe(ctx context.Context) (int, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	timeoutSec := envutil.Int("ASB_API_TIMEOUT_SECONDS", 5)
	return Config{
		BaseURL: strings.TrimSpace(os.Getenv("ASB_API_URL")),
		Timeout: time.Duration(timeoutSec) * time.Second,
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("missing ASB_API_URL")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &client{
		log:        log.With("client", "AvlerinfoClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type LoginResult struct {
	Token  string
	UserID string
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "avlerinfo: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 2000 {
		msg = msg[:2000] + "..."
	}
	return fmt.Sprintf("avlerinfo http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	payload := map[string]string{"username": username, "password": password}
	raw, err := c.do(ctx, http.MethodPost, "/api/farmers/login", payload)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode login body: %v", ErrInvalidResponse, err)
	}

	// Loopback 3 login replies { id: <token>, userId: <id>, ... }.
	token, _ := data["id"].(string)
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: no token in login body", ErrInvalidResponse)
	}
	return &LoginResult{Token: token, UserID: stringify(data["userId"])}, nil
}

func (c *client) Farmer(ctx context.Context, userID, token string) (map[string]interface{}, error) {
	path := "/api/farmers/" + url.PathEscape(userID) + "?access_token=" + url.QueryEscape(token)
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var farmer map[string]interface{}
	if err := json.Unmarshal(raw, &farmer); err != nil {
		return nil, fmt.Errorf("%w: decode farmer body: %v", ErrInvalidResponse, err)
	}
	return farmer, nil
}

func (c *client) Logout(ctx context.Context, token string) error {
	path := "/api/farmers/logout?access_token=" + url.QueryEscape(token)
	_, err := c.do(ctx, http.MethodPost, path, nil)
	return err
}

func (c *client) Probe(ctx context.Context) (int, error) {
	payload := map[string]string{"username": "test", "password": "test"}
	_, err := c.do(ctx, http.MethodPost, "/api/farmers/login", payload)
	if err == nil {
		return http.StatusOK, nil
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode, nil
	}
	return 0, err
}

// do performs a single request. Validation traffic is on the request path,
// so there is no retry loop here: a failure is terminal and the member
// re-authenticates.
func (c *client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
