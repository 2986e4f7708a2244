package auth

import (
	"context"

	"github.com/jelajahid/jelajah/pkg/errx"
	"github.com/jelajahid/jelajah/pkg/iam"
	"github.com/jelajahid/jelajah/pkg/identity"
	"github.com/jelajahid/jelajah/pkg/kernel"
	"github.com/jelajahid/jelajah/pkg/logx"
)

// Service sequences identity-provider calls for the auth surface and
// translates provider failures into client-facing errors. It owns no state:
// every durable effect happens on the platform side.
type Service struct {
	provider identity.Provider
}

// NewService creates the auth orchestrator.
func NewService(provider identity.Provider) *Service {
	return &Service{provider: provider}
}

// Register creates the account, sets the display name, and dispatches the
// verification email — in that fixed order. A failure after account creation
// leaves the earlier steps applied; there is no rollback, and each step is
// safe to rerun.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if err := req.Validate(); err != nil {
		return nil, ValidationError(err)
	}
	if !CheckPasswordPolicy(req.Password) {
		return nil, ErrRegistry.New(CodeValidationFailed).WithDetail("password", PasswordPolicyMessage)
	}

	session, err := s.provider.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.upstream(CodeRegistrationFailed, err)
	}

	uid := session.Account.UID
	if err := s.provider.UpdateDisplayName(ctx, uid, req.Name); err != nil {
		logx.WithError(err).Errorf("auth: display name update failed for %s after account creation", uid)
		return nil, s.upstream(CodeRegistrationFailed, err)
	}

	if err := s.provider.SendVerification(ctx, session.Token); err != nil {
		logx.WithError(err).Errorf("auth: verification email dispatch failed for %s", uid)
		return nil, s.upstream(CodeRegistrationFailed, err)
	}

	return &RegisterResult{Name: req.Name, Email: session.Account.Email}, nil
}

// Login authenticates the credentials and mints a session. Accounts with an
// unverified email fail closed with 403 and never receive a session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, ValidationError(err)
	}

	session, err := s.provider.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.upstream(CodeLoginFailed, err)
	}

	if !session.Account.EmailVerified {
		return nil, ErrRegistry.New(CodeEmailNotVerified)
	}

	return &LoginResult{
		Token:             session.Token,
		ProfileIncomplete: session.Account.DisplayName == "",
	}, nil
}

// CompleteProfile updates the display name and persists the extended fields
// as custom claims — the provider has no free-form profile storage.
func (s *Service) CompleteProfile(ctx context.Context, authCtx *kernel.AuthContext, req CompleteProfileRequest) error {
	if !authCtx.IsValid() {
		return iam.ErrUnauthorized()
	}
	if err := req.Validate(); err != nil {
		return ValidationError(err)
	}

	if err := s.provider.UpdateDisplayName(ctx, authCtx.UserID, req.Name); err != nil {
		return ErrRegistry.NewWithCause(CodeProfileUpdateFailed, err)
	}

	claims := map[string]interface{}{}
	if req.Gender != "" {
		claims["gender"] = req.Gender
	}
	if req.City != "" {
		claims["city"] = req.City
	}
	if req.Age != 0 {
		claims["age"] = req.Age
	}
	if req.Bio != "" {
		claims["bio"] = req.Bio
	}
	if err := s.provider.SetClaims(ctx, authCtx.UserID, claims); err != nil {
		return ErrRegistry.NewWithCause(CodeProfileUpdateFailed, err)
	}

	return nil
}

// Logout revokes the session provider-side when a verifiable credential is
// presented. An absent or stale credential still logs out successfully; only
// a transport failure surfaces as an error.
func (s *Service) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	token, err := s.provider.VerifyToken(ctx, sessionToken)
	if err != nil {
		// Nothing to revoke for an invalid credential.
		return nil
	}

	if err := s.provider.SignOut(ctx, token.UID); err != nil {
		return s.upstream(CodeLogoutFailed, err)
	}
	return nil
}

// ResetPassword asks the platform to dispatch a reset email. The response is
// uniform regardless of whether the address has an account, so the endpoint
// cannot be used to probe for registered emails.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return ValidationError(err)
	}

	if err := s.provider.SendPasswordReset(ctx, req.Email); err != nil {
		var e *errx.Error
		if errx.As(err, &e) && e.Code == identity.CodeInvalidCredentials.Code {
			// Provider reported an unknown address; swallow it.
			return nil
		}
		return s.upstream(CodeResetFailed, err)
	}
	return nil
}

// Profile reads the account server-side. Claims always come from the
// provider, never from the client's session.
func (s *Service) Profile(ctx context.Context, authCtx *kernel.AuthContext) (*ProfileResult, error) {
	if !authCtx.IsValid() {
		return nil, iam.ErrUnauthorized()
	}

	account, err := s.provider.GetAccount(ctx, authCtx.UserID)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeProfileFetchFailed, err)
	}

	return &ProfileResult{
		DisplayName:   account.DisplayName,
		Email:         account.Email,
		EmailVerified: account.EmailVerified,
		CustomClaims:  account.Claims,
	}, nil
}

// upstream wraps a provider error, passing its message through so clients
// see what the platform reported.
func (s *Service) upstream(code *errx.ErrorCode, err error) *errx.Error {
	var e *errx.Error
	if errx.As(err, &e) {
		out := ErrRegistry.NewWithMessage(code, e.Message)
		out.Err = err
		return out
	}
	return ErrRegistry.NewWithCause(code, err)
}
