package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// SessionStatus describes the stored session without exposing its tokens.
type SessionStatus struct {
	LoggedIn bool
	// ExpiresAt is the access token's expiry; zero when it is unknown.
	ExpiresAt time.Time
}

// SessionService signs the administrator in and out.
type SessionService struct {
	auth   driven.PortalAuth
	admin  driven.AdminAPI
	public driven.PublicAPI
	store  driven.CredentialStore
	logger *slog.Logger
}

// NewSessionService creates a new SessionService with the required dependencies.
func NewSessionService(
	auth driven.PortalAuth,
	admin driven.AdminAPI,
	public driven.PublicAPI,
	store driven.CredentialStore,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		auth:   auth,
		admin:  admin,
		public: public,
		store:  store,
		logger: logger,
	}
}

// Login exchanges credentials for tokens and stores them, replacing any
// previous session. On failure the stored session is left as it was.
func (s *SessionService) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	session, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn("login failed", "username", username, "error", err)
		return fmt.Errorf("login %s: %w", username, err)
	}

	if err := s.store.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("administrator signed in", "username", username)
	return nil
}

// Logout removes the stored session.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info("administrator signed out")
	return nil
}

// Status reports whether a session is stored and when its access token
// expires. A session with only a refresh token still counts as logged in:
// the next protected call refreshes it.
func (s *SessionService) Status(ctx context.Context) (SessionStatus, error) {
	session, err := s.store.Read(ctx)
	if err != nil {
		return SessionStatus{}, fmt.Errorf("read session: %w", err)
	}

	status := SessionStatus{LoggedIn: session.HasRefreshToken() || session.HasAccessToken()}
	if exp, ok := session.AccessTokenExpiry(); ok {
		status.ExpiresAt = exp
	}
	return status, nil
}

// Profile returns the signed-in administrator as reported by the backend.
func (s *SessionService) Profile(ctx context.Context) (model.AdminProfile, error) {
	return s.admin.AdminDashboard(ctx)
}

// minPasswordLength is enforced before a reset reaches the backend.
const minPasswordLength = 8

// RequestPasswordReset asks the backend to email a one-time code to the
// administrator with the given address.
func (s *SessionService) RequestPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := s.public.SendOTP(ctx, email); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	return nil
}

// VerifyResetCode checks the one-time code sent by RequestPasswordReset.
func (s *SessionService) VerifyResetCode(ctx context.Context, email, code string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if err := s.public.VerifyOTP(ctx, email, code); err != nil {
		return fmt.Errorf("verify reset code: %w", err)
	}
	return nil
}

// ResetPassword sets a new password after the code has been verified.
func (s *SessionService) ResetPassword(ctx context.Context, email, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if err := s.admin.ResetPassword(ctx, email, password); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.logger.Info("administrator password reset", "email", email)
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email address %q", ErrInvalidInput, email)
	}
	return email, nil
}
