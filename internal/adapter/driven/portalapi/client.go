// Package portalapi implements the school backend ports over HTTP. Protected
// endpoints go through a transport chain that attaches the stored access
// token and recovers from expired tokens with a single refresh and retry.
package portalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.PortalAuth = (*Client)(nil)
	_ driven.AdminAPI   = (*Client)(nil)
	_ driven.PublicAPI  = (*Client)(nil)
)

// Client talks to the school backend. It holds three HTTP clients:
//  1. admin: request ID, Recover, Authenticate, base transport
//  2. public: httpcache (ETag and Cache-Control aware) over the base transport
//  3. auth: plain client for login and token refresh
type Client struct {
	baseURL string
	admin   *http.Client
	public  *http.Client
	auth    *http.Client
	logger  *slog.Logger
}

type clientOptions struct {
	transport  http.RoundTripper
	timeout    time.Duration
	loginRoute string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithTransport sets the base transport under every client. Tests use it to
// route requests to an httptest server.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// WithTimeout bounds each request, retries included.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithLoginRoute sets the route handed to the LoginRedirector when the
// session expires.
func WithLoginRoute(route string) Option {
	return func(o *clientOptions) {
		o.loginRoute = route
	}
}

// WithLogger sets the logger used by the client and its middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// NewClient creates a Client for the backend at baseURL, for example
// "http://127.0.0.1:8000/api". Tokens are read from and written to store;
// redirector is notified when the session cannot be recovered.
func NewClient(baseURL string, store driven.CredentialStore, redirector driven.LoginRedirector, opts ...Option) *Client {
	o := clientOptions{
		transport:  http.DefaultTransport,
		timeout:    20 * time.Second,
		loginRoute: "/admin-login",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	auth := &http.Client{
		Transport: Chain(o.transport, RequestID()),
		Timeout:   o.timeout,
	}
	refresher := NewRefresher(store, auth, baseURL, o.logger)

	admin := &http.Client{
		Transport: Chain(o.transport,
			RequestID(),
			Recover(RecoverConfig{
				Refresher:  refresher,
				Store:      store,
				Redirector: redirector,
				LoginRoute: o.loginRoute,
				Logger:     o.logger,
			}),
			Authenticate(store),
		),
		Timeout: o.timeout,
	}

	cache := httpcache.NewTransport(httpcache.NewMemoryCache())
	cache.Transport = Chain(o.transport, RequestID())
	cache.MarkCachedResponses = true
	public := &http.Client{
		Transport: cache,
		Timeout:   o.timeout,
	}

	return &Client{
		baseURL: baseURL,
		admin:   admin,
		public:  public,
		auth:    auth,
		logger:  o.logger,
	}
}

// RequestID sets an X-Request-ID header on requests that lack one. A retried
// request keeps the ID of the original.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(requestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			tagged := req.Clone(req.Context())
			tagged.Header.Set(requestIDHeader, uuid.NewString())
			return next.RoundTrip(tagged)
		})
	}
}

// do sends a JSON request and decodes a JSON response into out. in and out
// may be nil. Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp)
		c.logger.Debug("portal api error", "method", method, "path", path, "status", apiErr.StatusCode, "message", apiErr.Message)
		return fmt.Errorf("%s %s: %w", method, path, apiErr)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	// httpcache stores a response only once its body has been read to EOF.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Login exchanges administrator credentials for an access and refresh token
// pair. It does not touch the credential store.
func (c *Client) Login(ctx context.Context, username, password string) (model.Session, error) {
	var resp loginResponse
	if err := c.do(ctx, c.auth, http.MethodPost, pathLogin, nil, loginRequest{Username: username, Password: password}, &resp); err != nil {
		return model.Session{}, err
	}
	if resp.Access == "" || resp.Refresh == "" {
		return model.Session{}, fmt.Errorf("login response for %s is missing tokens", username)
	}
	return model.Session{AccessToken: resp.Access, RefreshToken: resp.Refresh}, nil
}
