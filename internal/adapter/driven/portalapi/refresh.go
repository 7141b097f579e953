package portalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ TokenRefresher = (*Refresher)(nil)

// Refresher exchanges the stored refresh token for a new access token.
// Concurrent calls holding the same refresh token share one backend request.
type Refresher struct {
	store    driven.CredentialStore
	client   *http.Client
	endpoint string
	logger   *slog.Logger
	group    singleflight.Group
}

// NewRefresher creates a Refresher that posts to <baseURL>/token/refresh/.
// client must not route through the Recover middleware.
func NewRefresher(store driven.CredentialStore, client *http.Client, baseURL string, logger *slog.Logger) *Refresher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		store:    store,
		client:   client,
		endpoint: baseURL + "/token/refresh/",
		logger:   logger,
	}
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// Refresh reads the refresh token, obtains a new access token and stores it.
// It returns ErrNoRefreshToken when no refresh token is stored and an error
// wrapping ErrRefreshRejected when the backend does not issue a token. On
// failure the store is not written.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	session, err := r.store.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	if !session.HasRefreshToken() {
		return "", ErrNoRefreshToken
	}

	// The shared call must outlive any single waiter's cancellation; the
	// client timeout bounds it.
	ch := r.group.DoChan(session.RefreshToken, func() (any, error) {
		return r.exchange(context.WithoutCancel(ctx), session.RefreshToken)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (r *Refresher) exchange(ctx context.Context, refreshToken string) (string, error) {
	body, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", fmt.Errorf("marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRefreshRejected, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %w", ErrRefreshRejected, newAPIError(resp))
	}

	var payload refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrRefreshRejected, err)
	}
	if payload.Access == "" {
		return "", fmt.Errorf("%w: response carried no access token", ErrRefreshRejected)
	}

	if err := r.store.SetAccessToken(ctx, payload.Access); err != nil {
		return "", fmt.Errorf("store refreshed access token: %w", err)
	}

	r.logger.Info("access token refreshed")
	return payload.Access, nil
}
