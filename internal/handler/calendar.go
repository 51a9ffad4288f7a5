package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/campushub/campushub/internal/calendar"
	"github.com/campushub/campushub/internal/store"
)

type CalendarHandler struct {
	events *store.EventStore
	logger *slog.Logger
}

func NewCalendarHandler(events *store.EventStore, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{events: events, logger: logger}
}

// Month renders the month grid for ?year=&month= (month 0-based),
// defaulting to the current month. Out-of-range months are normalized by
// repeated boundary wrapping, matching prev/next navigation semantics.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month()) - 1

	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = parsed
	}
	for month < 0 {
		month += 12
		year--
	}
	for month > 11 {
		month -= 12
		year++
	}

	events, err := h.events.List(false)
	if err != nil {
		h.logger.Error("list events for calendar", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load calendar")
		return
	}

	writeJSON(w, http.StatusOK, calendar.BuildMonth(year, month, events))
}
