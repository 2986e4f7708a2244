// Package identitymem is the in-memory identity.Provider used by tests and
// by local development (IDENTITY_PROVIDER=memory). It reproduces the hosted
// platform's observable behavior: bcrypt-checked passwords, signed session
// tokens, provider-side revocation, and outbound verification/reset email —
// dispatched through notifx so dev mode shows the same side effects.
package identitymem

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jelajahid/jelajah/pkg/identity"
	"github.com/jelajahid/jelajah/pkg/kernel"
	"github.com/jelajahid/jelajah/pkg/notifx"
	"golang.org/x/crypto/bcrypt"
)

const (
	verifyTemplate = "verify_email"
	resetTemplate  = "reset_password"
)

type record struct {
	account      identity.Account
	passwordHash []byte
	// epoch invalidates tokens minted before the last SignOut.
	epoch int64
}

// MemoryProvider implements identity.Provider entirely in process.
type MemoryProvider struct {
	mu       sync.RWMutex
	byUID    map[kernel.UserID]*record
	byEmail  map[string]kernel.UserID
	secret   []byte
	tokenTTL time.Duration
	issuer   string
	notifier *notifx.Client
	from     string
}

// Option configures the provider.
type Option func(*MemoryProvider)

// WithNotifier routes verification and reset emails through a notifx client.
func WithNotifier(client *notifx.Client, fromAddress string) Option {
	return func(p *MemoryProvider) {
		p.notifier = client
		p.from = fromAddress
	}
}

// WithTokenTTL overrides the session token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(p *MemoryProvider) {
		p.tokenTTL = ttl
	}
}

// New creates an in-memory provider. secret signs session tokens.
func New(secret string, opts ...Option) *MemoryProvider {
	p := &MemoryProvider{
		byUID:    make(map[kernel.UserID]*record),
		byEmail:  make(map[string]kernel.UserID),
		secret:   []byte(secret),
		tokenTTL: time.Hour,
		issuer:   "jelajah-dev",
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.notifier != nil {
		// Registration failures here would be programmer error; templates
		// are compile-time constants.
		_ = p.notifier.RegisterTemplate(verifyTemplate,
			`<p>Hi {{.Name}},</p><p>Verify your email: <a href="{{.Link}}">{{.Link}}</a></p>`)
		_ = p.notifier.RegisterTemplate(resetTemplate,
			`<p>Hi,</p><p>Reset your password: <a href="{{.Link}}">{{.Link}}</a></p>`)
	}
	return p
}

// CreateAccount registers an account and mints a session for it.
func (p *MemoryProvider) CreateAccount(_ context.Context, email, password string) (*identity.Session, error) {
	email = strings.ToLower(email)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[email]; exists {
		return nil, identity.ErrRegistry.NewWithMessage(identity.CodeAccountExists, "EMAIL_EXISTS")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, identity.ErrRegistry.NewWithCause(identity.CodeProviderFailure, err)
	}

	uid := kernel.NewUserID(uuid.NewString())
	rec := &record{
		account: identity.Account{
			UID:   uid,
			Email: email,
		},
		passwordHash: hash,
	}
	p.byUID[uid] = rec
	p.byEmail[email] = uid

	token, err := p.mint(rec)
	if err != nil {
		return nil, err
	}
	return &identity.Session{Token: token, Account: rec.account}, nil
}

// Authenticate checks the password and mints a session.
func (p *MemoryProvider) Authenticate(_ context.Context, email, password string) (*identity.Session, error) {
	email = strings.ToLower(email)

	p.mu.RLock()
	defer p.mu.RUnlock()

	uid, ok := p.byEmail[email]
	if !ok {
		return nil, identity.ErrRegistry.NewWithMessage(identity.CodeInvalidCredentials, "INVALID_LOGIN_CREDENTIALS")
	}
	rec := p.byUID[uid]

	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return nil, identity.ErrRegistry.NewWithMessage(identity.CodeInvalidCredentials, "INVALID_LOGIN_CREDENTIALS")
	}

	token, err := p.mint(rec)
	if err != nil {
		return nil, err
	}
	return &identity.Session{Token: token, Account: rec.account}, nil
}

// VerifyToken validates signature, expiry, and the revocation epoch.
func (p *MemoryProvider) VerifyToken(_ context.Context, tokenString string) (*identity.Token, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, identity.ErrRegistry.NewWithCause(identity.CodeInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, identity.ErrInvalidToken()
	}
	sub, _ := claims["sub"].(string)
	uid := kernel.NewUserID(sub)

	p.mu.RLock()
	defer p.mu.RUnlock()

	rec, exists := p.byUID[uid]
	if !exists {
		return nil, identity.ErrInvalidToken()
	}

	epoch, _ := claims["epoch"].(float64)
	if int64(epoch) != rec.epoch {
		return nil, identity.ErrTokenRevoked()
	}

	return &identity.Token{
		UID:           uid,
		Email:         rec.account.Email,
		Name:          rec.account.DisplayName,
		EmailVerified: rec.account.EmailVerified,
		Claims:        copyClaims(rec.account.Claims),
	}, nil
}

// SignOut bumps the revocation epoch; outstanding tokens become invalid.
func (p *MemoryProvider) SignOut(_ context.Context, uid kernel.UserID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if rec, ok := p.byUID[uid]; ok {
		rec.epoch++
	}
	return nil
}

// SendVerification dispatches a verification email for the session's account.
func (p *MemoryProvider) SendVerification(ctx context.Context, sessionToken string) error {
	token, err := p.VerifyToken(ctx, sessionToken)
	if err != nil {
		return err
	}

	if p.notifier == nil {
		return nil
	}
	return p.notifier.SendTemplatedEmail(ctx, verifyTemplate, map[string]string{
		"Name": token.Name,
		"Link": fmt.Sprintf("https://dev.jelajah.local/verify?uid=%s", token.UID),
	}, notifx.EmailMessage{
		From:    p.from,
		To:      []string{token.Email},
		Subject: "Verify your email address",
	})
}

// SendPasswordReset dispatches a reset email. Unknown addresses succeed
// silently so the endpoint cannot be used to probe for accounts.
func (p *MemoryProvider) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(email)

	p.mu.RLock()
	_, known := p.byEmail[email]
	p.mu.RUnlock()

	if !known || p.notifier == nil {
		return nil
	}
	return p.notifier.SendTemplatedEmail(ctx, resetTemplate, map[string]string{
		"Link": fmt.Sprintf("https://dev.jelajah.local/reset?email=%s", email),
	}, notifx.EmailMessage{
		From:    p.from,
		To:      []string{email},
		Subject: "Reset your password",
	})
}

// UpdateDisplayName sets the display name.
func (p *MemoryProvider) UpdateDisplayName(_ context.Context, uid kernel.UserID, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.byUID[uid]
	if !ok {
		return identity.ErrAccountNotFound()
	}
	rec.account.DisplayName = name
	return nil
}

// SetClaims replaces the custom claims wholesale, like the platform does.
func (p *MemoryProvider) SetClaims(_ context.Context, uid kernel.UserID, claims map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.byUID[uid]
	if !ok {
		return identity.ErrAccountNotFound()
	}
	rec.account.Claims = copyClaims(claims)
	return nil
}

// GetAccount returns a copy of the account record.
func (p *MemoryProvider) GetAccount(_ context.Context, uid kernel.UserID) (*identity.Account, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rec, ok := p.byUID[uid]
	if !ok {
		return nil, identity.ErrAccountNotFound()
	}
	account := rec.account
	account.Claims = copyClaims(rec.account.Claims)
	return &account, nil
}

// MarkVerified flips the email-verified flag, standing in for the user
// clicking the verification link. Dev and test use only.
func (p *MemoryProvider) MarkVerified(email string) error {
	email = strings.ToLower(email)

	p.mu.Lock()
	defer p.mu.Unlock()

	uid, ok := p.byEmail[email]
	if !ok {
		return identity.ErrAccountNotFound()
	}
	p.byUID[uid].account.EmailVerified = true
	return nil
}

// mint signs a session token carrying the account's revocation epoch.
// Adapted from the HS256 access-token flow used elsewhere in the stack.
func (p *MemoryProvider) mint(rec *record) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   p.issuer,
		"sub":   rec.account.UID.String(),
		"email": rec.account.Email,
		"epoch": rec.epoch,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(p.tokenTTL)),
	}
	if rec.account.DisplayName != "" {
		claims["name"] = rec.account.DisplayName
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", identity.ErrRegistry.NewWithCause(identity.CodeProviderFailure, err)
	}
	return signed, nil
}

func copyClaims(claims map[string]interface{}) map[string]interface{} {
	if claims == nil {
		return nil
	}
	out := make(map[string]interface{}, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	return out
}
