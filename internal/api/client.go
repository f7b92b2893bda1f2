// Package api is the client for the PulseESG backend. Every call attaches
// the session's bearer token, classifies failures into user-facing
// messages and, when the backend rejects the session, clears it and
// notifies the registered hook.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulseesg/pulse/internal/config"
	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/logging"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// HeaderRequestID carries the per-request id that also appears in log lines.
const HeaderRequestID = "X-Request-ID"

// SessionStore is the part of the session the client reads and mutates.
type SessionStore interface {
	Token() string
	SetLogin(token, role string) error
	Clear() error
}

// Options configures a Client.
type Options struct {
	// BaseURL is prefixed to every endpoint path, e.g. https://host/api.
	BaseURL string
	// AnalyzePath is the analysis endpoint (default /esg/analyze).
	AnalyzePath string
	// Timeout bounds each request when HTTPClient is nil.
	Timeout time.Duration
	// HTTPClient overrides the default transport.
	HTTPClient *http.Client
	// Session provides the token and is cleared on 401/403.
	Session SessionStore
	// Logger defaults to the global logger.
	Logger *logging.Logger
	// OnSessionExpired is called after a 401/403 cleared the session.
	OnSessionExpired func(status int)
}

// OptionsFromConfig builds Options from the api section of cfg.
func OptionsFromConfig(cfg *config.Config, store SessionStore) Options {
	return Options{
		BaseURL:     cfg.API.BaseURL,
		AnalyzePath: cfg.API.AnalyzePath,
		Timeout:     cfg.API.Timeout,
		Session:     store,
	}
}

// Client calls the backend REST API.
type Client struct {
	baseURL     string
	host        string
	analyzePath string
	http        *http.Client
	session     SessionStore
	logger      *logging.Logger

	mu        sync.RWMutex
	onExpired func(status int)
}

// New creates a Client from opts.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultBaseURL
	}
	if opts.AnalyzePath == "" {
		opts.AnalyzePath = config.DefaultAnalyzePath
	}
	if opts.Timeout == 0 {
		opts.Timeout = config.DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = NewHTTPClient(opts.Timeout)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Global()
	}

	base := strings.TrimRight(opts.BaseURL, "/")
	host := ""
	if u, err := url.Parse(base); err == nil {
		host = u.Host
	}

	return &Client{
		baseURL:     base,
		host:        host,
		analyzePath: "/" + strings.TrimLeft(opts.AnalyzePath, "/"),
		http:        opts.HTTPClient,
		session:     opts.Session,
		logger:      opts.Logger.With("component", "api"),
		onExpired:   opts.OnSessionExpired,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnSessionExpired replaces the hook called after a 401/403 cleared the session.
func (c *Client) OnSessionExpired(fn func(status int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = fn
}

func (c *Client) token() string {
	if c.session == nil {
		return ""
	}
	return c.session.Token()
}

// do sends one request and decodes a 2xx JSON body into out (if non-nil).
// There is no retry: every failure is classified and returned.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := logging.RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logging.WithRequestID(ctx, requestID)
	}
	log := c.logger.WithContext(ctx).With("method", method, "path", path)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	log.Debug("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		perr := transportError(err, c.host).WithDetails("method", method).WithDetails("path", path)
		log.Warn("api request failed", "error", err, "elapsed", time.Since(start))
		return perr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Warn("api response read failed", "status", resp.StatusCode, "error", err)
		return transportError(err, c.host)
	}

	log.Debug("api response", "status", resp.StatusCode, "bytes", len(data), "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		perr := statusError(resp.StatusCode, data).WithDetails("method", method).WithDetails("path", path)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			c.expireSession(resp.StatusCode, log)
		}
		log.Info("api error response", "status", resp.StatusCode, "message", perr.Message)
		return perr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Warn("api response decode failed", "status", resp.StatusCode, "error", err)
		return errors.Wrap(err, errors.ErrUpstream, errors.MsgUnexpected).WithDetails("path", path)
	}
	return nil
}

// expireSession clears the stored credentials and notifies the hook.
func (c *Client) expireSession(status int, log *logging.Logger) {
	if c.session != nil {
		if err := c.session.Clear(); err != nil {
			log.Error("failed to clear session", "error", err)
		}
	}
	c.mu.RLock()
	hook := c.onExpired
	c.mu.RUnlock()

	log.Info("session expired", "status", status)
	if hook != nil {
		hook(status)
	}
}
