// Package docstore defines the port for the external hosted document
// database. Records are schema-less; collections are named by callers.
package docstore

import (
	"context"
	"net/http"

	"github.com/jelajahid/jelajah/pkg/errx"
)

// Document is a schema-less record body.
type Document map[string]interface{}

// Record pairs a stored document with its store-assigned identifier.
type Record struct {
	ID   string   `json:"id"`
	Data Document `json:"data"`
}

// Store is the capability set this service needs from the document platform.
type Store interface {
	// Add appends a new document and returns its generated identifier.
	Add(ctx context.Context, collection string, doc Document) (string, error)

	// Get fetches one document. Unresolvable identifiers yield a NOT_FOUND error.
	Get(ctx context.Context, collection, id string) (Document, error)

	// List returns every record in the collection. Ordering follows whatever
	// the store returns; no contract beyond that.
	List(ctx context.Context, collection string) ([]Record, error)

	// Update applies the given fields to an existing document. Fields absent
	// from the map are left untouched.
	Update(ctx context.Context, collection, id string, fields Document) error

	// Delete removes a document unconditionally; deleting an identifier that
	// does not exist is not an error.
	Delete(ctx context.Context, collection, id string) error
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("DOCSTORE")

var (
	CodeNotFound     = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Document not found")
	CodeStoreFailure = ErrRegistry.Register("STORE_FAILURE", errx.TypeExternal, http.StatusInternalServerError, "Document store call failed")
)

func ErrNotFound() *errx.Error     { return ErrRegistry.New(CodeNotFound) }
func ErrStoreFailure() *errx.Error { return ErrRegistry.New(CodeStoreFailure) }

// IsNotFound reports whether err is an unresolvable-identifier error.
func IsNotFound(err error) bool {
	var e *errx.Error
	if !errx.As(err, &e) {
		return false
	}
	return e.Code == CodeNotFound.Code
}
