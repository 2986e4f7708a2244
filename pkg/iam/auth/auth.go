package auth

import (
	"net/http"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/jelajahid/jelajah/pkg/errx"
)

// ============================================================================
// Request Payloads
// ============================================================================

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate checks field presence. Password strength is checked separately so
// a missing password reports "required", not "too weak".
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Email is required")),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
		validation.Field(&r.Name, validation.Required.Error("Name is required")),
	)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Email is required")),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
}

// CompleteProfileRequest carries the display name plus the four extended
// profile fields persisted as custom claims.
type CompleteProfileRequest struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	City   string `json:"city"`
	Age    int    `json:"age"`
	Bio    string `json:"bio"`
}

func (r CompleteProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("Name is required")),
	)
}

// ResetPasswordRequest is the password-reset payload.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Email is required")),
	)
}

// ============================================================================
// Password Policy
// ============================================================================

// PasswordPolicyMessage is returned whenever a password fails the policy.
const PasswordPolicyMessage = "Password must be at least 8 characters long and include at least one number and one uppercase letter"

// CheckPasswordPolicy enforces: at least 8 characters, at least one
// uppercase letter, at least one digit.
func CheckPasswordPolicy(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}

// ============================================================================
// Results
// ============================================================================

// RegisterResult is what a successful registration returns to the client.
type RegisterResult struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResult carries the minted session and the profile-completeness flag.
type LoginResult struct {
	Token             string
	ProfileIncomplete bool
}

// ProfileResult is the server-side view of the account.
type ProfileResult struct {
	DisplayName   string                 `json:"displayName"`
	Email         string                 `json:"email"`
	EmailVerified bool                   `json:"emailVerified"`
	CustomClaims  map[string]interface{} `json:"customClaims"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeValidationFailed     = ErrRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusUnprocessableEntity, "Invalid request payload")
	CodeRegistrationFailed   = ErrRegistry.Register("REGISTRATION_FAILED", errx.TypeExternal, http.StatusInternalServerError, "An error occurred while registering user")
	CodeLoginFailed          = ErrRegistry.Register("LOGIN_FAILED", errx.TypeExternal, http.StatusInternalServerError, "An error occurred while logging in")
	CodeEmailNotVerified     = ErrRegistry.Register("EMAIL_NOT_VERIFIED", errx.TypeAuthorization, http.StatusForbidden, "Email not verified. Please verify your email before logging in.")
	CodeLogoutFailed         = ErrRegistry.Register("LOGOUT_FAILED", errx.TypeExternal, http.StatusInternalServerError, "An error occurred while logging out")
	CodeResetFailed          = ErrRegistry.Register("RESET_FAILED", errx.TypeExternal, http.StatusInternalServerError, "An error occurred while sending password reset email")
	CodeProfileUpdateFailed  = ErrRegistry.Register("PROFILE_UPDATE_FAILED", errx.TypeExternal, http.StatusInternalServerError, "Error updating profile")
	CodeProfileFetchFailed   = ErrRegistry.Register("PROFILE_FETCH_FAILED", errx.TypeExternal, http.StatusInternalServerError, "Error fetching user profile")
)

// ValidationError converts an ozzo validation result into a 422 error whose
// details enumerate every failing field by name.
func ValidationError(err error) *errx.Error {
	e := ErrRegistry.New(CodeValidationFailed)
	if fieldErrs, ok := err.(validation.Errors); ok {
		for field, fieldErr := range fieldErrs {
			e.WithDetail(field, fieldErr.Error())
		}
	} else if err != nil {
		e.WithDetail("error", err.Error())
	}
	return e
}
