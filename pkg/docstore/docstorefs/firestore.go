// Package docstorefs implements the docstore.Store port on Cloud Firestore.
package docstorefs

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/jelajahid/jelajah/pkg/config"
	"github.com/jelajahid/jelajah/pkg/docstore"
	"github.com/jelajahid/jelajah/pkg/errx"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the production docstore.Store.
type FirestoreStore struct {
	client *firestore.Client
}

// New connects a Firestore client from the same service-account credentials
// the identity provider uses.
func New(ctx context.Context, cfg config.FirebaseConfig) (*FirestoreStore, error) {
	creds, err := cfg.ServiceAccountJSON()
	if err != nil {
		return nil, errx.Wrap(err, "failed to assemble service account credentials", errx.TypeInternal)
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, errx.Wrap(err, "failed to initialize Firestore client", errx.TypeExternal)
	}

	return &FirestoreStore{client: client}, nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// Add appends a document with a store-generated identifier.
func (s *FirestoreStore) Add(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, map[string]interface{}(doc))
	if err != nil {
		return "", docstore.ErrRegistry.NewWithCause(docstore.CodeStoreFailure, err)
	}
	return ref.ID, nil
}

// Get fetches one document.
func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, docstore.ErrRegistry.NewWithCause(docstore.CodeNotFound, err)
		}
		return nil, docstore.ErrRegistry.NewWithCause(docstore.CodeStoreFailure, err)
	}
	return docstore.Document(snap.Data()), nil
}

// List returns every record in the collection in iterator order.
func (s *FirestoreStore) List(ctx context.Context, collection string) ([]docstore.Record, error) {
	iter := s.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	records := []docstore.Record{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, docstore.ErrRegistry.NewWithCause(docstore.CodeStoreFailure, err)
		}
		records = append(records, docstore.Record{
			ID:   snap.Ref.ID,
			Data: docstore.Document(snap.Data()),
		})
	}
	return records, nil
}

// Update applies the given fields to an existing document. Firestore rejects
// updates against missing documents; that surfaces as a store failure, which
// the HTTP layer reports as a 500 — there is deliberately no 404 path here.
func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields docstore.Document) error {
	if len(fields) == 0 {
		return nil
	}

	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return docstore.ErrRegistry.NewWithCause(docstore.CodeNotFound, err)
		}
		return docstore.ErrRegistry.NewWithCause(docstore.CodeStoreFailure, err)
	}
	return nil
}

// Delete removes a document. Firestore deletes are idempotent: deleting a
// missing identifier succeeds.
func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return docstore.ErrRegistry.NewWithCause(docstore.CodeStoreFailure, err)
	}
	return nil
}
