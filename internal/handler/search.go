package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campushub/campushub/internal/assistant"
)

type SearchHandler struct {
	assistant *assistant.Client
	logger    *slog.Logger
}

func NewSearchHandler(client *assistant.Client, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{assistant: client, logger: logger}
}

// GlobalSearch relays a free-text question to the assistant and returns
// its reply. Upstream failures are relayed with their status so clients
// can tell quota errors from outages.
func (h *SearchHandler) GlobalSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var message string
	if err := json.Unmarshal(req.Message, &message); err != nil || strings.TrimSpace(message) == "" {
		writeError(w, http.StatusBadRequest, "message must be a non-empty string")
		return
	}

	reply, err := h.assistant.Chat(r.Context(), message)
	if err != nil {
		if errors.Is(err, assistant.ErrNotConfigured) {
			h.logger.Error("global search", "error", err)
			writeError(w, http.StatusInternalServerError, "assistant is not configured")
			return
		}
		var ue *assistant.UpstreamError
		if errors.As(err, &ue) {
			h.logger.Error("global search upstream", "status", ue.Status)
			writeJSON(w, ue.Status, map[string]string{
				"error":   "assistant request failed",
				"details": ue.Details,
			})
			return
		}
		h.logger.Error("global search", "error", err)
		writeError(w, http.StatusBadGateway, "assistant request failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": reply})
}
