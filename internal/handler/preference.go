package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/store"
)

type PreferenceHandler struct {
	store  *store.PreferenceStore
	logger *slog.Logger
}

func NewPreferenceHandler(s *store.PreferenceStore, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{store: s, logger: logger}
}

func (h *PreferenceHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.GetTheme(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get theme", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load theme")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (h *PreferenceHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.store.SetTheme(auth.UserID(r.Context()), req.Theme); err != nil {
		writeError(w, http.StatusBadRequest, "theme must be light or dark")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

// GetSaved returns the caller's saved-item ids for every category.
func (h *PreferenceHandler) GetSaved(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	saved := make(map[string][]string, len(store.SavedCategories))
	for _, category := range store.SavedCategories {
		set, err := h.store.GetSavedSet(userID, category)
		if err != nil {
			h.logger.Error("get saved set", "category", category, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load saved items")
			return
		}
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		saved[category] = ids
	}
	writeJSON(w, http.StatusOK, saved)
}

// ToggleSaved flips one item in a category's saved set and reports the
// resulting state. Toggling the same item twice is a no-op overall.
func (h *PreferenceHandler) ToggleSaved(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if !slices.Contains(store.SavedCategories, category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	saved, err := h.store.ToggleSaved(auth.UserID(r.Context()), category, id)
	if err != nil {
		h.logger.Error("toggle saved", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update saved items")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "saved": saved})
}

func (h *PreferenceHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.store.GetReminders(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get reminders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load reminders")
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

func (h *PreferenceHandler) GetReminder(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	note, ok, err := h.store.GetReminder(auth.UserID(r.Context()), date)
	if err != nil {
		h.logger.Error("get reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load reminder")
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"date": date, "note": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "note": note})
}

// SetReminder stores a free-text note for the date; an empty note clears it.
func (h *PreferenceHandler) SetReminder(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.store.SetReminder(auth.UserID(r.Context()), date, req.Note); err != nil {
		h.logger.Error("set reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save reminder")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"date": date, "note": req.Note})
}

// TodayReminder backs the reminder bell: it returns the note stored for
// today's date, if any.
func (h *PreferenceHandler) TodayReminder(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format("2006-01-02")
	note, ok, err := h.store.GetReminder(auth.UserID(r.Context()), today)
	if err != nil {
		h.logger.Error("get today reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load reminder")
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"date": today, "note": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": today, "note": note})
}
