package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/database"
	"github.com/campushub/campushub/internal/store"
)

func setupAuthenticator(t *testing.T) (*Authenticator, *store.SessionStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := store.NewUserStore(db)
	ps := store.NewProfileStore(db)
	ss := store.NewSessionStore(db)
	tm := auth.NewTokenManager("test-secret")

	user, err := us.Create("mw@test.local", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewAuthenticator(ss, us, ps, tm), ss, user.ID
}

func TestRequireAuthRejectsAPIRequests(t *testing.T) {
	a, _, _ := setupAuthenticator(t)
	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthRedirectsPagesWithNext(t *testing.T) {
	a, _, _ := setupAuthenticator(t)
	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	req := httptest.NewRequest("GET", "/workspace?tab=budget", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Path != "/login" {
		t.Errorf("redirect path = %q, want /login", loc.Path)
	}
	if next := loc.Query().Get("next"); next != "/workspace?tab=budget" {
		t.Errorf("next = %q, want original destination", next)
	}
}

func TestRequireAuthAcceptsSessionCookie(t *testing.T) {
	a, ss, uid := setupAuthenticator(t)

	sess, err := ss.Create(uid)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var gotUserID int64
	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.UserID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	req.AddCookie(&http.Cookie{Name: "campushub_session", Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != uid {
		t.Errorf("user id = %d, want %d", gotUserID, uid)
	}
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	a, _, uid := setupAuthenticator(t)

	tm := auth.NewTokenManager("test-secret")
	token, err := tm.Issue(uid, "mw@test.local")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	var gotUserID int64
	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.UserID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != uid {
		t.Errorf("user id = %d, want %d", gotUserID, uid)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/admin/dashboard", nil)
	req = req.WithContext(auth.WithAuth(req.Context(), auth.AuthContext{UserID: 1, IsAdmin: false}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/admin/dashboard", nil)
	req = req.WithContext(auth.WithAuth(req.Context(), auth.AuthContext{UserID: 1, IsAdmin: true}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
}
