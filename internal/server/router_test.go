package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/auth"
	"github.com/nassimdv/workload-app/internal/config"
	"github.com/nassimdv/workload-app/internal/db"
	"github.com/nassimdv/workload-app/internal/email"
	"github.com/nassimdv/workload-app/internal/identity"
)

// tokenVerifier maps opaque test tokens to principals.
type tokenVerifier map[string]*auth.Claims

func (v tokenVerifier) Verify(token string) (*auth.Claims, error) {
	c, ok := v[token]
	if !ok {
		return nil, fmt.Errorf("unknown token %q", token)
	}
	return c, nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	for _, m := range db.Models() {
		if err := conn.AutoMigrate(m); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}

	managerClaims := &auth.Claims{Email: "manager@example.com", Role: auth.RoleManager}
	userClaims := &auth.Claims{Email: "user@example.com", Role: auth.RoleUser}
	verifier := tokenVerifier{
		"manager-token": managerClaims,
		"user-token":    userClaims,
	}

	return New(Deps{
		DB:       conn,
		Verifier: verifier,
		Provider: identity.NewDevProvider(nil),
		Email:    &email.Recorder{},
		Config:   config.Config{SuperAdminEmail: "root@example.com"},
		Logger:   nil,
	})
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpointsAreOpen(t *testing.T) {
	srv := newTestServer(t)
	if w := do(t, srv, http.MethodGet, "/health", "", ""); w.Code != http.StatusOK {
		t.Fatalf("/health expected 200 got %d", w.Code)
	}
	if w := do(t, srv, http.MethodGet, "/healthz", "", ""); w.Code != http.StatusOK {
		t.Fatalf("/healthz expected 200 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRoutesRequireAuthentication(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/devis", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous /devis expected 401 got %d", w.Code)
	}
}

func TestInvalidTokenIsRejected(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/devis", "forged", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid_token") {
		t.Fatalf("expected invalid_token body=%s", w.Body.String())
	}
}

func TestManagerOnlyRoutes(t *testing.T) {
	srv := newTestServer(t)

	// Plain users cannot create devis.
	w := do(t, srv, http.MethodPost, "/devis", "user-token", `{"numero_dac":"DAC-1"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("user POST /devis expected 403 got %d body=%s", w.Code, w.Body.String())
	}

	// Managers can.
	w2 := do(t, srv, http.MethodPost, "/devis", "manager-token", `{"numero_dac":"DAC-1"}`)
	if w2.Code != http.StatusCreated {
		t.Fatalf("manager POST /devis expected 201 got %d body=%s", w2.Code, w2.Body.String())
	}

	// And both roles can read the list.
	w3 := do(t, srv, http.MethodGet, "/devis", "user-token", "")
	if w3.Code != http.StatusOK {
		t.Fatalf("user GET /devis expected 200 got %d", w3.Code)
	}
}

func TestMethodPatternRouting(t *testing.T) {
	srv := newTestServer(t)

	// PUT on the collection path is not a route.
	w := do(t, srv, http.MethodPut, "/devis", "manager-token", "{}")
	if w.Code == http.StatusOK {
		t.Fatalf("PUT /devis must not match a route")
	}

	// Unknown id on a valid route still reaches the handler.
	w2 := do(t, srv, http.MethodGet, "/devis/unknown", "manager-token", "")
	if w2.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w2.Code, w2.Body.String())
	}
	if !strings.Contains(w2.Body.String(), "devis_not_found") {
		t.Fatalf("expected devis_not_found body=%s", w2.Body.String())
	}
}
