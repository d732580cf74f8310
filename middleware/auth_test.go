package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"otledger/auth"
	"otledger/models"
)

func testIdentity() auth.Identity {
	return auth.Identity{
		UserID:   7,
		Username: "john",
		Role:     models.UserTypeCommon,
		GroupID:  3,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("middleware-test-secret")

	token, err := GenerateToken(testIdentity(), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "john" || claims.Role != models.UserTypeCommon || claims.GroupID != 3 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthenticatorMissingToken(t *testing.T) {
	SetJWTSecret("middleware-test-secret")

	handler := Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/overtime", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticatorBearerToken(t *testing.T) {
	SetJWTSecret("middleware-test-secret")

	token, err := GenerateToken(testIdentity(), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var seen auth.Identity
	handler := Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("identity missing from context")
		}
		seen = identity
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/overtime", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen != testIdentity() {
		t.Fatalf("unexpected identity: %+v", seen)
	}
}

func TestAuthenticatorRejectsTamperedToken(t *testing.T) {
	SetJWTSecret("middleware-test-secret")

	token, err := GenerateToken(testIdentity(), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	handler := Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a tampered token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/overtime", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token + "x"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	SetJWTSecret("middleware-test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticator(RequireAdmin(next))

	commonToken, err := GenerateToken(testIdentity(), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	adminToken, err := GenerateToken(auth.Identity{UserID: 1, Username: "admin", Role: models.UserTypeAdmin, GroupID: 1}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/summary", nil)
	req.Header.Set("Authorization", "Bearer "+commonToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for common user, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/summary", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}
