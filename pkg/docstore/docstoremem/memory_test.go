package docstoremem_test

import (
	"context"
	"testing"

	"github.com/jelajahid/jelajah/pkg/docstore"
	"github.com/jelajahid/jelajah/pkg/docstore/docstoremem"
)

func TestAddAndGet(t *testing.T) {
	s := docstoremem.New()
	ctx := context.Background()

	id, err := s.Add(ctx, "destinations", docstore.Document{"City": "Bandung"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated identifier")
	}

	doc, err := s.Get(ctx, "destinations", id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc["City"] != "Bandung" {
		t.Fatalf("expected City=Bandung, got %+v", doc)
	}
}

func TestGet_Missing(t *testing.T) {
	s := docstoremem.New()

	_, err := s.Get(context.Background(), "destinations", "nope")
	if !docstore.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestList_InsertionOrder(t *testing.T) {
	s := docstoremem.New()
	ctx := context.Background()

	first, _ := s.Add(ctx, "destinations", docstore.Document{"n": 1})
	second, _ := s.Add(ctx, "destinations", docstore.Document{"n": 2})

	records, err := s.List(ctx, "destinations")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != first || records[1].ID != second {
		t.Fatal("expected insertion order")
	}
}

func TestUpdate_MergesFields(t *testing.T) {
	s := docstoremem.New()
	ctx := context.Background()

	id, _ := s.Add(ctx, "destinations", docstore.Document{"City": "Bandung", "Rating": 4.5})

	if err := s.Update(ctx, "destinations", id, docstore.Document{"City": "Jakarta"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	doc, _ := s.Get(ctx, "destinations", id)
	if doc["City"] != "Jakarta" {
		t.Fatalf("expected City=Jakarta, got %v", doc["City"])
	}
	if doc["Rating"] != 4.5 {
		t.Fatal("expected untouched fields to survive the update")
	}
}

func TestUpdate_Missing(t *testing.T) {
	s := docstoremem.New()

	err := s.Update(context.Background(), "destinations", "nope", docstore.Document{"City": "X"})
	if !docstore.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	s := docstoremem.New()
	ctx := context.Background()

	id, _ := s.Add(ctx, "destinations", docstore.Document{"City": "Bandung"})

	if err := s.Delete(ctx, "destinations", id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "destinations", id); err != nil {
		t.Fatalf("second Delete should succeed, got %v", err)
	}
	if err := s.Delete(ctx, "destinations", "never-existed"); err != nil {
		t.Fatalf("deleting an unknown id should succeed, got %v", err)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := docstoremem.New()
	ctx := context.Background()

	id, _ := s.Add(ctx, "destinations", docstore.Document{"City": "Bandung"})

	doc, _ := s.Get(ctx, "destinations", id)
	doc["City"] = "mutated"

	again, _ := s.Get(ctx, "destinations", id)
	if again["City"] != "Bandung" {
		t.Fatal("Get did not return a defensive copy")
	}
}
