// Package travelsrv implements the destination and post operations over the
// document store port.
package travelsrv

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/jelajahid/jelajah/pkg/docstore"
	"github.com/jelajahid/jelajah/pkg/errx"
	"github.com/jelajahid/jelajah/pkg/logx"
	"github.com/jelajahid/jelajah/pkg/travel"
)

// DestinationService runs CRUD for destination records. All state lives in
// the document store; the service only stamps, validates, and translates
// errors.
type DestinationService struct {
	store docstore.Store
	now   func() time.Time
}

// NewDestinationService creates the destination service.
func NewDestinationService(store docstore.Store) *DestinationService {
	return &DestinationService{store: store, now: time.Now}
}

// Create validates the destination and appends it to the store with a
// creation timestamp. The store-generated identifier is returned.
func (s *DestinationService) Create(ctx context.Context, dest travel.Destination) (string, error) {
	if err := dest.Validate(); err != nil {
		return "", validationError(err)
	}

	doc := dest.Document()
	doc["createdAt"] = s.now().UTC().Format(time.RFC3339)

	id, err := s.store.Add(ctx, travel.DestinationCollection, doc)
	if err != nil {
		logx.WithError(err).Error("travel: destination create failed")
		return "", travel.ErrRegistry.NewWithCause(travel.CodeCreateFailed, err)
	}
	return id, nil
}

// Get fetches one destination. An unresolvable identifier yields the 404
// destination error; any other store failure surfaces as a fetch failure.
func (s *DestinationService) Get(ctx context.Context, id string) (docstore.Document, error) {
	doc, err := s.store.Get(ctx, travel.DestinationCollection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, travel.ErrDestinationNotFound()
		}
		logx.WithError(err).Errorf("travel: destination fetch failed for %s", id)
		return nil, travel.ErrRegistry.NewWithCause(travel.CodeFetchFailed, err)
	}
	return doc, nil
}

// List returns every destination with its identifier merged into the record
// body under "id".
func (s *DestinationService) List(ctx context.Context) ([]docstore.Document, error) {
	records, err := s.store.List(ctx, travel.DestinationCollection)
	if err != nil {
		logx.WithError(err).Error("travel: destination list failed")
		return nil, travel.ErrRegistry.NewWithCause(travel.CodeListFailed, err)
	}
	return mergeIDs(records), nil
}

// Update applies the non-zero fields of dest to an existing record. Fields
// left at their zero value are not touched, so a rating cannot be reset to 0
// through this operation.
func (s *DestinationService) Update(ctx context.Context, id string, dest travel.Destination) error {
	patch := dest.Patch()
	if err := s.store.Update(ctx, travel.DestinationCollection, id, patch); err != nil {
		logx.WithError(err).Errorf("travel: destination update failed for %s", id)
		return travel.ErrRegistry.NewWithCause(travel.CodeUpdateFailed, err)
	}
	return nil
}

// Delete removes a destination. Deleting an identifier that never existed
// succeeds the same way; the store call is unconditional.
func (s *DestinationService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, travel.DestinationCollection, id); err != nil {
		logx.WithError(err).Errorf("travel: destination delete failed for %s", id)
		return travel.ErrRegistry.NewWithCause(travel.CodeDeleteFailed, err)
	}
	return nil
}

// PostService exposes read-only access to the posts collection.
type PostService struct {
	store docstore.Store
}

// NewPostService creates the post service.
func NewPostService(store docstore.Store) *PostService {
	return &PostService{store: store}
}

// List returns every post with its identifier merged into the record body.
func (s *PostService) List(ctx context.Context) ([]docstore.Document, error) {
	records, err := s.store.List(ctx, travel.PostCollection)
	if err != nil {
		logx.WithError(err).Error("travel: post list failed")
		return nil, travel.ErrRegistry.NewWithCause(travel.CodePostListFailed, err)
	}
	return mergeIDs(records), nil
}

func mergeIDs(records []docstore.Record) []docstore.Document {
	out := make([]docstore.Document, 0, len(records))
	for _, rec := range records {
		doc := docstore.Document{"id": rec.ID}
		for k, v := range rec.Data {
			doc[k] = v
		}
		out = append(out, doc)
	}
	return out
}

func validationError(err error) *errx.Error {
	e := travel.ErrRegistry.New(travel.CodeValidationFailed)
	if fieldErrs, ok := err.(validation.Errors); ok {
		for field, fieldErr := range fieldErrs {
			e.WithDetail(field, fieldErr.Error())
		}
	} else if err != nil {
		e.WithDetail("error", err.Error())
	}
	return e
}
