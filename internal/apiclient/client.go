package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/example/resama/internal/logging"
)

const (
	// DefaultTimeout bounds every request end to end.
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 64 << 10
)

// TokenProvider returns the bearer token to attach, or "" when there is none.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// TokenProviderFunc adapts a function to TokenProvider.
type TokenProviderFunc func(ctx context.Context) (string, error)

func (f TokenProviderFunc) AccessToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenProvider
	// OnUnauthorized runs for every 401 response before the error is returned.
	OnUnauthorized func(ctx context.Context)
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

// Client issues JSON requests against the RESAMA backend.
type Client struct {
	baseURL        *url.URL
	http           *http.Client
	tokens         TokenProvider
	onUnauthorized func(ctx context.Context)
	logger         *slog.Logger
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, errors.Wrap(err, "apiclient: parse base url")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Errorf("apiclient: base url %q must be http or https", cfg.BaseURL)
	}
	base.Path = strings.TrimRight(base.Path, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		copied := *httpClient
		copied.Timeout = timeout
		httpClient = &copied
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:        base,
		http:           httpClient,
		tokens:         cfg.Tokens,
		onUnauthorized: cfg.OnUnauthorized,
		logger:         logger,
	}, nil
}

// SetUnauthorizedHandler replaces the 401 hook. It must be called before the client is shared.
func (c *Client) SetUnauthorizedHandler(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

// SetTokenProvider replaces the bearer token source. It must be called before the client is shared.
func (c *Client) SetTokenProvider(tokens TokenProvider) {
	c.tokens = tokens
}

// BaseURL returns the configured backend URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// RequestOption adjusts a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	skipAuth bool
}

// WithoutAuth sends the request without a bearer token and without running
// the unauthorized hook on a 401.
func WithoutAuth() RequestOption {
	return func(o *requestOptions) {
		o.skipAuth = true
	}
}

// Get decodes the response of GET path?query into out. out may be nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, opts)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, opts)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, opts)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out, opts)
}

func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out, opts)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, opts []RequestOption) (err error) {
	var options requestOptions
	for _, opt := range opts {
		opt(&options)
	}

	logger := c.requestLogger(ctx, method, path)
	started := time.Now()
	status := 0
	defer func() {
		attrs := []any{"status", status, "duration_ms", time.Since(started).Milliseconds()}
		if err != nil {
			logger.DebugContext(ctx, "backend request failed", append(attrs, "error", err)...)
			return
		}
		logger.DebugContext(ctx, "backend request completed", attrs...)
	}()

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	if !options.skipAuth && c.tokens != nil {
		token, tokenErr := c.tokens.AccessToken(ctx)
		if tokenErr != nil {
			return errors.Wrap(tokenErr, "apiclient: read bearer token")
		}
		if token != "" {
			(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return errors.Wrapf(ErrTimeout, "%s %s: %v", method, path, err)
		}
		return errors.Wrapf(err, "apiclient: %s %s", method, path)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := readRequestError(resp, method, path)
		if reqErr.IsUnauthorized() && !options.skipAuth && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return reqErr
	}

	return decodeBody(resp.Body, out, method, path)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := *c.baseURL
	target.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "apiclient: encode %s %s body", method, path)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, errors.Wrapf(err, "apiclient: build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) requestLogger(ctx context.Context, method, path string) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = c.logger
	}
	return logger.With("component", "apiclient", "method", method, "path", path)
}

func decodeBody(body io.Reader, out any, method, path string) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, body)
		return nil
	}
	payload, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrapf(err, "apiclient: read %s %s response", method, path)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.Wrapf(err, "apiclient: decode %s %s response", method, path)
	}
	return nil
}

type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func readRequestError(resp *http.Response, method, path string) *RequestError {
	reqErr := &RequestError{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
		Method:  method,
		Path:    path,
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return reqErr
	}

	var payload errorPayload
	if json.Unmarshal(raw, &payload) == nil {
		switch {
		case payload.Message != "":
			reqErr.Message = payload.Message
		case payload.Error != "":
			reqErr.Message = payload.Error
		}
		reqErr.Code = payload.Code
	}
	return reqErr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
