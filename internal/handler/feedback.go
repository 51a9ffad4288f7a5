package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/email"
	"github.com/campushub/campushub/internal/store"
)

type FeedbackHandler struct {
	store  *store.FeedbackStore
	email  *email.Client
	logger *slog.Logger
}

func NewFeedbackHandler(s *store.FeedbackStore, mailer *email.Client, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{store: s, email: mailer, logger: logger}
}

type feedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Create accepts feedback from signed-in and anonymous visitors alike.
// A signed-in caller's user id is attached; name and email stay optional
// either way.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	var userID *int64
	if ac, ok := auth.FromContext(r.Context()); ok {
		userID = &ac.UserID
	}

	entry, err := h.store.Create(strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), req.Message, userID)
	if err != nil {
		h.logger.Error("create feedback", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to submit feedback")
		return
	}

	// Notify operators out of band; delivery failure never fails the request.
	if h.email.Configured() {
		go func() {
			if err := h.email.SendFeedbackNotification(entry.Name, entry.Email, entry.Message); err != nil {
				h.logger.Error("send feedback notification", "error", err)
			}
		}()
	}

	writeJSON(w, http.StatusCreated, entry)
}

// List is admin-only.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List()
	if err != nil {
		h.logger.Error("list feedback", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load feedback")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
