package kernel

// AuthContext is the authenticated identity attached to a request after the
// token middleware admits it. It mirrors the decoded session credential; the
// server never trusts it for claims reads (those go back to the provider).
type AuthContext struct {
	UserID        UserID                 `json:"user_id"`
	Email         string                 `json:"email"`
	Name          string                 `json:"name"`
	EmailVerified bool                   `json:"email_verified"`
	Claims        map[string]interface{} `json:"claims,omitempty"`

	// SessionToken is the raw bearer credential the request presented.
	// Kept so orchestrators can forward it to provider calls that need it.
	SessionToken string `json:"-"`
}

// IsValid reports whether the context identifies an account.
func (ac *AuthContext) IsValid() bool {
	return ac != nil && !ac.UserID.IsEmpty()
}

// Claim returns a single custom claim value, if present.
func (ac *AuthContext) Claim(key string) (interface{}, bool) {
	if ac == nil || ac.Claims == nil {
		return nil, false
	}
	v, ok := ac.Claims[key]
	return v, ok
}

// ContextKey is the type for values stored on a request context.
type ContextKey string

const (
	// AuthContextKey stores the AuthContext on the request.
	AuthContextKey ContextKey = "auth_context"

	// RequestIDKey stores the request ID.
	RequestIDKey ContextKey = "request_id"
)
