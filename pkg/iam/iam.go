package iam

import (
	"net/http"

	"github.com/jelajahid/jelajah/pkg/errx"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("IAM")

var (
	CodeUnauthorized = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusUnauthorized, "User is not authenticated")
	CodeInvalidToken = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeAccessDenied = ErrRegistry.Register("ACCESS_DENIED", errx.TypeAuthorization, http.StatusForbidden, "Access denied")
)

func ErrUnauthorized() *errx.Error { return ErrRegistry.New(CodeUnauthorized) }
func ErrInvalidToken() *errx.Error { return ErrRegistry.New(CodeInvalidToken) }
func ErrAccessDenied() *errx.Error { return ErrRegistry.New(CodeAccessDenied) }
