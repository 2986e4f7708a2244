// Package identityfb implements the identity.Provider port against Firebase.
//
// The split mirrors the platform's own: administrative operations (token
// verification, custom claims, account reads and updates, revocation) go
// through the Admin SDK; the password sign-in/sign-up flow and out-of-band
// email dispatch use the Identity Toolkit REST surface with the client API
// key, because the Admin SDK deliberately does not expose them.
package identityfb

import (
	"context"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/jelajahid/jelajah/pkg/config"
	"github.com/jelajahid/jelajah/pkg/errx"
	"github.com/jelajahid/jelajah/pkg/identity"
	"github.com/jelajahid/jelajah/pkg/kernel"
	"google.golang.org/api/option"
)

// FirebaseProvider is the production identity.Provider.
type FirebaseProvider struct {
	auth *fbauth.Client
	rest *restClient
}

// New initializes the Admin SDK from service-account credentials and the
// REST client from the API key. Callers treat a returned error as fatal.
func New(ctx context.Context, cfg config.FirebaseConfig) (*FirebaseProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errx.Wrap(err, "firebase configuration invalid", errx.TypeInternal)
	}

	creds, err := cfg.ServiceAccountJSON()
	if err != nil {
		return nil, errx.Wrap(err, "failed to assemble service account credentials", errx.TypeInternal)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, errx.Wrap(err, "failed to initialize Firebase Admin SDK", errx.TypeExternal)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "failed to initialize Firebase Auth client", errx.TypeExternal)
	}

	return &FirebaseProvider{
		auth: authClient,
		rest: newRESTClient(cfg.APIKey, &http.Client{Timeout: 30 * time.Second}),
	}, nil
}

// CreateAccount registers a new account via accounts:signUp and returns the
// fresh session the endpoint mints.
func (p *FirebaseProvider) CreateAccount(ctx context.Context, email, password string) (*identity.Session, error) {
	var resp signInResponse
	err := p.rest.post(ctx, "signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &identity.Session{
		Token: resp.IDToken,
		Account: identity.Account{
			UID:   kernel.NewUserID(resp.LocalID),
			Email: resp.Email,
		},
	}, nil
}

// Authenticate signs in via accounts:signInWithPassword, then reads the
// account server-side so the verification flag and claims are authoritative.
func (p *FirebaseProvider) Authenticate(ctx context.Context, email, password string) (*identity.Session, error) {
	var resp signInResponse
	err := p.rest.post(ctx, "signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	account, err := p.GetAccount(ctx, kernel.NewUserID(resp.LocalID))
	if err != nil {
		return nil, err
	}

	return &identity.Session{Token: resp.IDToken, Account: *account}, nil
}

// VerifyToken verifies the credential and checks provider-side revocation.
func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (*identity.Token, error) {
	decoded, err := p.auth.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		if fbauth.IsIDTokenRevoked(err) {
			return nil, identity.ErrRegistry.NewWithCause(identity.CodeTokenRevoked, err)
		}
		return nil, identity.ErrRegistry.NewWithCause(identity.CodeInvalidToken, err)
	}

	return tokenFromClaims(decoded.UID, decoded.Claims), nil
}

// SignOut revokes the account's refresh tokens. Already-issued ID tokens
// stay valid until expiry; revocation is caught by VerifyToken's check.
func (p *FirebaseProvider) SignOut(ctx context.Context, uid kernel.UserID) error {
	if err := p.auth.RevokeRefreshTokens(ctx, uid.String()); err != nil {
		return identity.ErrRegistry.NewWithCause(identity.CodeProviderFailure, err)
	}
	return nil
}

// SendVerification asks the platform to dispatch a verification email for
// the session's account.
func (p *FirebaseProvider) SendVerification(ctx context.Context, sessionToken string) error {
	return p.rest.post(ctx, "sendOobCode", map[string]interface{}{
		"requestType": "VERIFY_EMAIL",
		"idToken":     sessionToken,
	}, nil)
}

// SendPasswordReset asks the platform to dispatch a reset email.
func (p *FirebaseProvider) SendPasswordReset(ctx context.Context, email string) error {
	return p.rest.post(ctx, "sendOobCode", map[string]interface{}{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

// UpdateDisplayName sets the account's display name.
func (p *FirebaseProvider) UpdateDisplayName(ctx context.Context, uid kernel.UserID, name string) error {
	update := (&fbauth.UserToUpdate{}).DisplayName(name)
	if _, err := p.auth.UpdateUser(ctx, uid.String(), update); err != nil {
		return identity.ErrRegistry.NewWithCause(identity.CodeProviderFailure, err)
	}
	return nil
}

// SetClaims replaces the account's custom claims wholesale, which is how the
// platform's claims API behaves.
func (p *FirebaseProvider) SetClaims(ctx context.Context, uid kernel.UserID, claims map[string]interface{}) error {
	if err := p.auth.SetCustomUserClaims(ctx, uid.String(), claims); err != nil {
		return identity.ErrRegistry.NewWithCause(identity.CodeProviderFailure, err)
	}
	return nil
}

// GetAccount fetches the account record server-side.
func (p *FirebaseProvider) GetAccount(ctx context.Context, uid kernel.UserID) (*identity.Account, error) {
	user, err := p.auth.GetUser(ctx, uid.String())
	if err != nil {
		if fbauth.IsUserNotFound(err) {
			return nil, identity.ErrRegistry.NewWithCause(identity.CodeAccountNotFound, err)
		}
		return nil, identity.ErrRegistry.NewWithCause(identity.CodeProviderFailure, err)
	}

	return &identity.Account{
		UID:           kernel.NewUserID(user.UID),
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		EmailVerified: user.EmailVerified,
		Claims:        user.CustomClaims,
	}, nil
}

func tokenFromClaims(uid string, claims map[string]interface{}) *identity.Token {
	t := &identity.Token{
		UID:    kernel.NewUserID(uid),
		Claims: claims,
	}
	if email, ok := claims["email"].(string); ok {
		t.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		t.Name = name
	}
	if verified, ok := claims["email_verified"].(bool); ok {
		t.EmailVerified = verified
	}
	return t
}
