// Package travel holds the destination and post resources: thin records
// stored as-is in the external document store.
package travel

import (
	"net/http"

	"github.com/jelajahid/jelajah/pkg/errx"
)

// Collection names in the document store.
const (
	DestinationCollection = "destinations"
	PostCollection        = "posts"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("TRAVEL")

var (
	CodeValidationFailed    = ErrRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusUnprocessableEntity, "Validation failed")
	CodeDestinationNotFound = ErrRegistry.Register("DESTINATION_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Destination not found")
	CodeCreateFailed        = ErrRegistry.Register("CREATE_FAILED", errx.TypeExternal, http.StatusInternalServerError, "An error occurred while creating the destination")
	CodeFetchFailed         = ErrRegistry.Register("FETCH_FAILED", errx.TypeExternal, http.StatusInternalServerError, "An error occurred while fetching the destination")
	CodeListFailed          = ErrRegistry.Register("LIST_FAILED", errx.TypeExternal, http.StatusInternalServerError, "An error occurred while fetching the destinations")
	CodeUpdateFailed        = ErrRegistry.Register("UPDATE_FAILED", errx.TypeExternal, http.StatusInternalServerError, "An error occurred while updating the destination")
	CodeDeleteFailed        = ErrRegistry.Register("DELETE_FAILED", errx.TypeExternal, http.StatusInternalServerError, "An error occurred while deleting the destination")
	CodePostListFailed      = ErrRegistry.Register("POST_LIST_FAILED", errx.TypeExternal, http.StatusInternalServerError, "An error occurred while fetching the posts")
)

func ErrDestinationNotFound() *errx.Error { return ErrRegistry.New(CodeDestinationNotFound) }
