// Package identity defines the port for the external hosted identity
// platform. The service never implements authentication itself: every durable
// identity operation is delegated to a Provider implementation.
package identity

import (
	"context"
	"net/http"

	"github.com/jelajahid/jelajah/pkg/errx"
	"github.com/jelajahid/jelajah/pkg/kernel"
)

// Account is the provider-managed identity record.
type Account struct {
	UID           kernel.UserID          `json:"uid"`
	Email         string                 `json:"email"`
	DisplayName   string                 `json:"display_name"`
	EmailVerified bool                   `json:"email_verified"`
	Claims        map[string]interface{} `json:"claims,omitempty"`
}

// Session is a freshly minted credential plus the account it belongs to.
type Session struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

// Token is a decoded, verified bearer credential.
type Token struct {
	UID           kernel.UserID          `json:"uid"`
	Email         string                 `json:"email"`
	Name          string                 `json:"name"`
	EmailVerified bool                   `json:"email_verified"`
	Claims        map[string]interface{} `json:"claims,omitempty"`
}

// Provider is the capability set this service needs from the identity
// platform. One production implementation talks to the hosted service;
// an in-memory implementation backs tests and local development.
type Provider interface {
	// CreateAccount registers a new account and returns a fresh session for it.
	CreateAccount(ctx context.Context, email, password string) (*Session, error)

	// Authenticate verifies an email/password pair and mints a session.
	Authenticate(ctx context.Context, email, password string) (*Session, error)

	// VerifyToken cryptographically verifies a bearer credential.
	VerifyToken(ctx context.Context, token string) (*Token, error)

	// SignOut revokes the account's sessions provider-side.
	SignOut(ctx context.Context, uid kernel.UserID) error

	// SendVerification dispatches a verification email for the session's account.
	SendVerification(ctx context.Context, sessionToken string) error

	// SendPasswordReset dispatches a password-reset email.
	SendPasswordReset(ctx context.Context, email string) error

	// UpdateDisplayName sets the account's display name.
	UpdateDisplayName(ctx context.Context, uid kernel.UserID, name string) error

	// SetClaims replaces the account's custom claims.
	SetClaims(ctx context.Context, uid kernel.UserID, claims map[string]interface{}) error

	// GetAccount fetches the account record, claims included, server-side.
	GetAccount(ctx context.Context, uid kernel.UserID) (*Account, error)
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("IDENTITY")

var (
	CodeAccountExists      = ErrRegistry.Register("ACCOUNT_EXISTS", errx.TypeConflict, http.StatusConflict, "An account with this email already exists")
	CodeAccountNotFound    = ErrRegistry.Register("ACCOUNT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Account not found")
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeExternal, http.StatusInternalServerError, "INVALID_LOGIN_CREDENTIALS")
	CodeInvalidToken       = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeTokenRevoked       = ErrRegistry.Register("TOKEN_REVOKED", errx.TypeAuthorization, http.StatusUnauthorized, "Token has been revoked")
	CodeProviderFailure    = ErrRegistry.Register("PROVIDER_FAILURE", errx.TypeExternal, http.StatusInternalServerError, "Identity provider call failed")
)

func ErrAccountExists() *errx.Error      { return ErrRegistry.New(CodeAccountExists) }
func ErrAccountNotFound() *errx.Error    { return ErrRegistry.New(CodeAccountNotFound) }
func ErrInvalidCredentials() *errx.Error { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrInvalidToken() *errx.Error       { return ErrRegistry.New(CodeInvalidToken) }
func ErrTokenRevoked() *errx.Error       { return ErrRegistry.New(CodeTokenRevoked) }
func ErrProviderFailure() *errx.Error    { return ErrRegistry.New(CodeProviderFailure) }

// IsInvalidToken reports whether err is a token verification failure.
func IsInvalidToken(err error) bool {
	var e *errx.Error
	if !errx.As(err, &e) {
		return false
	}
	return e.Code == CodeInvalidToken.Code || e.Code == CodeTokenRevoked.Code
}
