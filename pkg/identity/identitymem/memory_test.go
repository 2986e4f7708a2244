package identitymem_test

import (
	"context"
	"testing"

	"github.com/jelajahid/jelajah/pkg/errx"
	"github.com/jelajahid/jelajah/pkg/identity"
	"github.com/jelajahid/jelajah/pkg/identity/identitymem"
)

const testSecret = "test-secret"

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	p := identitymem.New(testSecret)
	ctx := context.Background()

	if _, err := p.CreateAccount(ctx, "user@example.com", "Password1"); err != nil {
		t.Fatalf("first CreateAccount failed: %v", err)
	}

	_, err := p.CreateAccount(ctx, "USER@example.com", "Password1")
	if err == nil {
		t.Fatal("expected duplicate email to fail")
	}
}

func TestAuthenticate(t *testing.T) {
	p := identitymem.New(testSecret)
	ctx := context.Background()

	if _, err := p.CreateAccount(ctx, "user@example.com", "Password1"); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	session, err := p.Authenticate(ctx, "user@example.com", "Password1")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a session token")
	}

	if _, err := p.Authenticate(ctx, "user@example.com", "wrong"); err == nil {
		t.Fatal("expected wrong password to fail")
	}
	if _, err := p.Authenticate(ctx, "nobody@example.com", "Password1"); err == nil {
		t.Fatal("expected unknown email to fail")
	}
}

func TestVerifyToken_RoundTrip(t *testing.T) {
	p := identitymem.New(testSecret)
	ctx := context.Background()

	session, err := p.CreateAccount(ctx, "user@example.com", "Password1")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	token, err := p.VerifyToken(ctx, session.Token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if token.UID != session.Account.UID {
		t.Fatalf("expected UID %s, got %s", session.Account.UID, token.UID)
	}
	if token.Email != "user@example.com" {
		t.Fatalf("expected email user@example.com, got %s", token.Email)
	}
}

func TestVerifyToken_Tampered(t *testing.T) {
	p := identitymem.New(testSecret)
	ctx := context.Background()

	session, _ := p.CreateAccount(ctx, "user@example.com", "Password1")

	if _, err := p.VerifyToken(ctx, session.Token+"x"); err == nil {
		t.Fatal("expected tampered token to fail verification")
	}

	other := identitymem.New("other-secret")
	otherSession, _ := other.CreateAccount(ctx, "user@example.com", "Password1")
	if _, err := p.VerifyToken(ctx, otherSession.Token); err == nil {
		t.Fatal("expected token signed with another secret to fail")
	}
}

func TestSignOut_RevokesOutstandingTokens(t *testing.T) {
	p := identitymem.New(testSecret)
	ctx := context.Background()

	session, _ := p.CreateAccount(ctx, "user@example.com", "Password1")

	if err := p.SignOut(ctx, session.Account.UID); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	_, err := p.VerifyToken(ctx, session.Token)
	if err == nil {
		t.Fatal("expected token minted before sign-out to be rejected")
	}

	// A fresh login mints a token under the new epoch.
	fresh, err := p.Authenticate(ctx, "user@example.com", "Password1")
	if err != nil {
		t.Fatalf("Authenticate after sign-out failed: %v", err)
	}
	if _, err := p.VerifyToken(ctx, fresh.Token); err != nil {
		t.Fatalf("fresh token should verify: %v", err)
	}
}

func TestMarkVerified(t *testing.T) {
	p := identitymem.New(testSecret)
	ctx := context.Background()

	session, _ := p.CreateAccount(ctx, "user@example.com", "Password1")
	if session.Account.EmailVerified {
		t.Fatal("new accounts must start unverified")
	}

	if err := p.MarkVerified("user@example.com"); err != nil {
		t.Fatalf("MarkVerified failed: %v", err)
	}

	account, err := p.GetAccount(ctx, session.Account.UID)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if !account.EmailVerified {
		t.Fatal("expected account to be verified")
	}
}

func TestSetClaims_ReplacesWholesale(t *testing.T) {
	p := identitymem.New(testSecret)
	ctx := context.Background()

	session, _ := p.CreateAccount(ctx, "user@example.com", "Password1")
	uid := session.Account.UID

	if err := p.SetClaims(ctx, uid, map[string]interface{}{"city": "Bandung", "age": 30}); err != nil {
		t.Fatalf("SetClaims failed: %v", err)
	}
	if err := p.SetClaims(ctx, uid, map[string]interface{}{"bio": "traveler"}); err != nil {
		t.Fatalf("second SetClaims failed: %v", err)
	}

	account, _ := p.GetAccount(ctx, uid)
	if _, ok := account.Claims["city"]; ok {
		t.Fatal("expected earlier claims to be replaced, not merged")
	}
	if account.Claims["bio"] != "traveler" {
		t.Fatalf("expected bio claim, got %+v", account.Claims)
	}
}

func TestSendPasswordReset_UnknownEmailSucceeds(t *testing.T) {
	p := identitymem.New(testSecret)

	if err := p.SendPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("expected silent success for unknown email, got %v", err)
	}
}

func TestUpdateDisplayName_UnknownAccount(t *testing.T) {
	p := identitymem.New(testSecret)

	err := p.UpdateDisplayName(context.Background(), "missing-uid", "Name")
	var e *errx.Error
	if !errx.As(err, &e) || e.Code != identity.CodeAccountNotFound.Code {
		t.Fatalf("expected account-not-found, got %v", err)
	}
}
