package auth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jelajahid/jelajah/pkg/errx/errxfiber"
	"github.com/jelajahid/jelajah/pkg/iam/auth"
	"github.com/jelajahid/jelajah/pkg/identity/identitymem"
)

func newTestApp() (*fiber.App, *identitymem.MemoryProvider) {
	app := fiber.New(fiber.Config{
		ErrorHandler: errxfiber.ErrorHandler(errxfiber.Options{}),
	})

	provider := identitymem.New("test-secret")
	handlers := auth.NewHandlers(auth.NewService(provider))
	handlers.RegisterRoutes(app, auth.NewTokenMiddleware(provider))

	return app, provider
}

func jsonRequest(method, path string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decoding response %q: %v", raw, err)
	}
	return out
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.SessionCookie {
			return cookie
		}
	}
	return nil
}

// --- /api/register ---

func TestRegisterEndpoint_Success(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(jsonRequest("POST", "/api/register", map[string]string{
		"email": "user@example.com", "password": "Password1", "name": "User",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["message"] != "Verification email sent! User created successfully!" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestRegisterEndpoint_ValidationDetails(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(jsonRequest("POST", "/api/register", map[string]string{
		"email": "user@example.com",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	details, ok := body["details"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected field details, got %+v", body)
	}
	if details["password"] != "Password is required" || details["name"] != "Name is required" {
		t.Fatalf("unexpected details: %+v", details)
	}
	if _, present := details["email"]; present {
		t.Fatal("email was provided; it must not appear in details")
	}
}

// --- /api/login ---

func TestLoginEndpoint_UnverifiedGetsNoCookie(t *testing.T) {
	app, _ := newTestApp()

	mustRegisterHTTP(t, app, "user@example.com")

	resp, err := app.Test(jsonRequest("POST", "/api/login", map[string]string{
		"email": "user@example.com", "password": "Password1",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if sessionCookie(resp) != nil {
		t.Fatal("unverified login must not set a session cookie")
	}
}

func TestLoginEndpoint_VerifiedFlow(t *testing.T) {
	app, provider := newTestApp()

	mustRegisterHTTP(t, app, "user@example.com")
	if err := provider.MarkVerified("user@example.com"); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(jsonRequest("POST", "/api/login", map[string]string{
		"email": "user@example.com", "password": "Password1",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cookie := sessionCookie(resp)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected a session cookie")
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be http-only")
	}

	body := decodeBody(t, resp)
	if body["profileIncomplete"] != false {
		t.Fatalf("display name was set at registration: %+v", body)
	}
	if body["message"] != "User logged in successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(jsonRequest("POST", "/api/login", map[string]string{
		"email": "nobody@example.com", "password": "Password1",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["error"] != "INVALID_LOGIN_CREDENTIALS" {
		t.Fatalf("expected provider message passthrough, got %v", body["error"])
	}
}

// --- token middleware ---

func TestProtectedRoute_NoToken(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/profile", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["error"] != "No token provided" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}

func TestProtectedRoute_TamperedToken(t *testing.T) {
	app, _ := newTestApp()

	req := httptest.NewRequest("GET", "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestProtectedRoute_CookieFallback(t *testing.T) {
	app, provider := newTestApp()

	token := mustLoginHTTP(t, app, provider, "user@example.com")

	req := httptest.NewRequest("GET", "/api/profile", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 via cookie, got %d", resp.StatusCode)
	}
}

// --- /api/complete-profile and /api/profile ---

func TestCompleteProfileAndProfileRoundTrip(t *testing.T) {
	app, provider := newTestApp()

	token := mustLoginHTTP(t, app, provider, "user@example.com")

	req := jsonRequest("POST", "/api/complete-profile", map[string]interface{}{
		"name": "Renamed", "gender": "female", "city": "Bandung", "age": 27,
	})
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := decodeBody(t, resp)
	if body["displayName"] != "Renamed" {
		t.Fatalf("unexpected profile: %+v", body)
	}
	claims, ok := body["customClaims"].(map[string]interface{})
	if !ok || claims["city"] != "Bandung" {
		t.Fatalf("expected city claim, got %+v", body)
	}
}

// --- /api/logout ---

func TestLogoutEndpoint_RevokesAndClearsCookie(t *testing.T) {
	app, provider := newTestApp()

	token := mustLoginHTTP(t, app, provider, "user@example.com")

	req := httptest.NewRequest("POST", "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cookie := sessionCookie(resp)
	if cookie == nil || cookie.Value != "" {
		t.Fatal("expected the session cookie to be cleared")
	}

	// The revoked token no longer opens protected routes.
	req = httptest.NewRequest("GET", "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestLogoutEndpoint_NoSession(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(httptest.NewRequest("POST", "/api/logout", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("logout without a session should still succeed, got %d", resp.StatusCode)
	}
}

// --- /api/reset-password ---

func TestResetPasswordEndpoint(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(jsonRequest("POST", "/api/reset-password", map[string]string{
		"email": "nobody@example.com",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected uniform 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["message"] != "Password reset email sent" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

// --- helpers ---

func mustRegisterHTTP(t *testing.T, app *fiber.App, email string) {
	t.Helper()
	resp, err := app.Test(jsonRequest("POST", "/api/register", map[string]string{
		"email": email, "password": "Password1", "name": "User",
	}))
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("register returned %d", resp.StatusCode)
	}
}

func mustLoginHTTP(t *testing.T, app *fiber.App, provider *identitymem.MemoryProvider, email string) string {
	t.Helper()
	mustRegisterHTTP(t, app, email)
	if err := provider.MarkVerified(email); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(jsonRequest("POST", "/api/login", map[string]string{
		"email": email, "password": "Password1",
	}))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("login returned %d", resp.StatusCode)
	}

	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("login set no session cookie")
	}
	return cookie.Value
}
