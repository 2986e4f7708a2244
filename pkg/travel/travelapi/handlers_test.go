package travelapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jelajahid/jelajah/pkg/docstore/docstoremem"
	"github.com/jelajahid/jelajah/pkg/errx/errxfiber"
	"github.com/jelajahid/jelajah/pkg/iam/auth"
	"github.com/jelajahid/jelajah/pkg/identity/identitymem"
	"github.com/jelajahid/jelajah/pkg/travel/travelapi"
	"github.com/jelajahid/jelajah/pkg/travel/travelsrv"
)

type testEnv struct {
	app   *fiber.App
	store *docstoremem.MemoryStore
	token string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: errxfiber.ErrorHandler(errxfiber.Options{}),
	})

	provider := identitymem.New("test-secret")
	store := docstoremem.New()

	handlers := travelapi.NewHandlers(
		travelsrv.NewDestinationService(store),
		travelsrv.NewPostService(store),
	)
	handlers.RegisterRoutes(app, auth.NewTokenMiddleware(provider))

	session, err := provider.CreateAccount(context.Background(), "user@example.com", "Password1")
	if err != nil {
		t.Fatalf("creating test account: %v", err)
	}

	return &testEnv{app: app, store: store, token: session.Token}
}

func (e *testEnv) do(t *testing.T, method, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+e.token)

	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	raw, _ := io.ReadAll(resp.Body)
	decoded := map[string]interface{}{}
	_ = json.Unmarshal(raw, &decoded)
	return resp.StatusCode, decoded
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"Description": "Volcanic crater with a turquoise lake",
		"Category":    "Cagar Alam",
		"Place_Id":    "place-1",
		"Place_Name":  "Kawah Putih",
		"Coordinate":  "{'lat': -7.1662, 'lng': 107.4022}",
		"Rating":      4.5,
		"Long":        107.4022,
		"City":        "Bandung",
		"Lat":         -7.1662,
	}
}

func TestDestinations_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest("GET", "/api/destinasi/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without a token, got %d", resp.StatusCode)
	}
}

func TestCreateDestination(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, "POST", "/api/destinasi/", validPayload())
	if status != 201 {
		t.Fatalf("expected 201, got %d: %+v", status, body)
	}
	if body["message"] != "Destination created successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if body["id"] == nil || body["id"] == "" {
		t.Fatalf("expected an id, got %+v", body)
	}
}

func TestCreateDestination_Invalid(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, "POST", "/api/destinasi/", map[string]interface{}{
		"Description": "only this",
	})
	if status != 422 {
		t.Fatalf("expected 422, got %d: %+v", status, body)
	}

	details, ok := body["details"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected field details, got %+v", body)
	}
	if details["City"] != "City is required" {
		t.Fatalf("unexpected details: %+v", details)
	}
}

func TestGetDestination(t *testing.T) {
	env := newTestEnv(t)

	_, created := env.do(t, "POST", "/api/destinasi/", validPayload())
	id := created["id"].(string)

	status, body := env.do(t, "GET", "/api/destinasi/"+id, nil)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["Place_Name"] != "Kawah Putih" {
		t.Fatalf("unexpected document: %+v", body)
	}
	if body["createdAt"] == nil {
		t.Fatalf("expected createdAt in stored record, got %+v", body)
	}
}

func TestGetDestination_Unknown(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, "GET", "/api/destinasi/missing", nil)
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
	if body["error"] != "Destination not found" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestListDestinations(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/destinasi/", validPayload())
	env.do(t, "POST", "/api/destinasi/", validPayload())

	req := httptest.NewRequest("GET", "/api/destinasi/", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var docs []map[string]interface{}
	if err := json.Unmarshal(raw, &docs); err != nil {
		t.Fatalf("expected an array response, got %q", raw)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 destinations, got %d", len(docs))
	}
	if docs[0]["id"] == nil {
		t.Fatalf("expected ids merged into the records, got %+v", docs[0])
	}
}

func TestUpdateDestination_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)

	_, created := env.do(t, "POST", "/api/destinasi/", validPayload())
	id := created["id"].(string)

	status, body := env.do(t, "PUT", "/api/destinasi/"+id, map[string]interface{}{
		"City":   "Jakarta",
		"Rating": 0,
	})
	if status != 200 {
		t.Fatalf("expected 200, got %d: %+v", status, body)
	}
	if body["message"] != "Destination updated successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}

	_, doc := env.do(t, "GET", "/api/destinasi/"+id, nil)
	if doc["City"] != "Jakarta" {
		t.Fatalf("expected City updated, got %v", doc["City"])
	}
	if doc["Rating"] != 4.5 {
		t.Fatalf("a zero rating must not overwrite the stored value, got %v", doc["Rating"])
	}
}

func TestDeleteDestination_Idempotent(t *testing.T) {
	env := newTestEnv(t)

	_, created := env.do(t, "POST", "/api/destinasi/", validPayload())
	id := created["id"].(string)

	status, body := env.do(t, "DELETE", "/api/destinasi/"+id, nil)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["message"] != "Destination deleted successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}

	status, _ = env.do(t, "DELETE", "/api/destinasi/"+id, nil)
	if status != 200 {
		t.Fatalf("repeated delete should return 200, got %d", status)
	}
}

func TestListPosts(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.store.Add(context.Background(), "posts", map[string]interface{}{"title": "Trip report"}); err != nil {
		t.Fatalf("seeding post: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var docs []map[string]interface{}
	if err := json.Unmarshal(raw, &docs); err != nil {
		t.Fatalf("expected an array response, got %q", raw)
	}
	if len(docs) != 1 || docs[0]["title"] != "Trip report" {
		t.Fatalf("unexpected posts: %+v", docs)
	}
}
