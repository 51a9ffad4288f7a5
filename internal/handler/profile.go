package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/store"
)

type ProfileHandler struct {
	store  *store.ProfileStore
	logger *slog.Logger
}

func NewProfileHandler(s *store.ProfileStore, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{store: s, logger: logger}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	profile, err := h.store.GetByUserID(userID)
	if err != nil {
		h.logger.Error("get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		// A user without a saved profile still has one, it is just empty.
		profile = &model.Profile{UserID: userID}
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	profile, err := h.store.Upsert(auth.UserID(r.Context()), strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone))
	if err != nil {
		h.logger.Error("update profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
