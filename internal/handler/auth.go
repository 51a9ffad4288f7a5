package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/store"
	"github.com/campushub/campushub/internal/websocket"

	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookieName = "campushub_session"
	minPasswordLength = 8
)

type AuthHandler struct {
	userStore    *store.UserStore
	profileStore *store.ProfileStore
	sessionStore *store.SessionStore
	tokens       *auth.TokenManager
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ps *store.ProfileStore, ss *store.SessionStore, tm *auth.TokenManager, hub *websocket.Hub, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userStore:    us,
		profileStore: ps,
		sessionStore: ss,
		tokens:       tm,
		hub:          hub,
		logger:       logger,
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User        any    `json:"user"`
	AccessToken string `json:"access_token"`
	IsAdmin     bool   `json:"is_admin"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	existing, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("signup lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "an account with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	user, err := h.userStore.Create(req.Email, string(hash))
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	// Profile metadata is best-effort; the account exists either way.
	if req.Name != "" || req.Phone != "" {
		if _, err := h.profileStore.Upsert(user.ID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone)); err != nil {
			h.logger.Error("create profile", "error", err)
		}
	}

	h.establishSession(w, r, user.ID, user.Email, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	userID, hash, err := h.userStore.GetPasswordHash(req.Email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}

	h.establishSession(w, r, userID, req.Email, http.StatusOK)
}

func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, userID int64, email string, status int) {
	sess, err := h.sessionStore.Create(userID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	accessToken, err := h.tokens.Issue(userID, email)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   90 * 24 * 60 * 60, // 90 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	isAdmin, err := h.profileStore.IsAdmin(userID)
	if err != nil {
		// Degrade to non-admin rather than failing the sign-in.
		isAdmin = false
	}

	h.hub.Broadcast(websocket.AuthStateMessage("signed_in", userID))

	writeJSON(w, status, authResponse{
		User:        map[string]any{"id": userID, "email": email},
		AccessToken: accessToken,
		IsAdmin:     isAdmin,
	})
}

// Logout clears cached auth state eagerly: the session row and cookie
// are gone and the sign-out broadcast fired before the response, so no
// listener timing can leave stale state behind.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var userID int64
	if ac, ok := auth.FromContext(r.Context()); ok {
		userID = ac.UserID
		if ac.SessionID != 0 {
			if err := h.sessionStore.Delete(ac.SessionID); err != nil {
				h.logger.Error("delete session", "error", err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	h.hub.Broadcast(websocket.AuthStateMessage("signed_out", userID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Session restores the cached user for a page load, mirroring a client
// calling getSession on startup.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":     map[string]any{"id": ac.UserID, "email": ac.Email},
		"is_admin": ac.IsAdmin,
	})
}
