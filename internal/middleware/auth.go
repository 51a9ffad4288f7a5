package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/store"
)

const sessionCookieName = "campushub_session"

// Authenticator resolves a request's credentials (session cookie or
// bearer token) into an AuthContext.
type Authenticator struct {
	sessions *store.SessionStore
	users    *store.UserStore
	profiles *store.ProfileStore
	tokens   *auth.TokenManager
}

func NewAuthenticator(ss *store.SessionStore, us *store.UserStore, ps *store.ProfileStore, tm *auth.TokenManager) *Authenticator {
	return &Authenticator{sessions: ss, users: us, profiles: ps, tokens: tm}
}

// resolve returns the AuthContext for the request's credentials, or
// false if the request is unauthenticated.
func (a *Authenticator) resolve(r *http.Request) (auth.AuthContext, bool) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		sess, err := a.sessions.GetByToken(cookie.Value)
		if err == nil && sess != nil {
			return a.buildContext(sess.UserID, sess.ID), true
		}
	}

	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		userID, err := a.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err == nil {
			return a.buildContext(userID, 0), true
		}
	}

	return auth.AuthContext{}, false
}

func (a *Authenticator) buildContext(userID, sessionID int64) auth.AuthContext {
	ac := auth.AuthContext{UserID: userID, SessionID: sessionID}
	if user, err := a.users.GetByID(userID); err == nil && user != nil {
		ac.Email = user.Email
	}
	// Admin evaluation never fails a request; errors degrade to non-admin.
	if isAdmin, err := a.profiles.IsAdmin(userID); err == nil {
		ac.IsAdmin = isAdmin
	}
	return ac
}

// RequireAuth rejects unauthenticated API requests with 401. Page
// navigations are redirected to the login page with the original
// destination preserved in the next parameter, so a successful login can
// resume where the user was headed.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, ok := a.resolve(r)
		if !ok {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"authentication required"}`))
				return
			}
			dest := r.URL.Path
			if r.URL.RawQuery != "" {
				dest += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, "/login?next="+url.QueryEscape(dest), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
	})
}

// OptionalAuth populates the AuthContext when credentials are present
// but never rejects. Used on public routes whose behavior varies by
// caller (feedback attribution, listing reads).
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ac, ok := a.resolve(r); ok {
			r = r.WithContext(auth.WithAuth(r.Context(), ac))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin checks the cached admin flag on an already-authenticated
// request.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
