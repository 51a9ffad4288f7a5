package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/campushub/campushub/internal/chart"
	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/store"
)

type AdminHandler struct {
	events *store.EventStore
	jobs   *store.JobStore
	market *store.MarketStore
	logger *slog.Logger
}

func NewAdminHandler(events *store.EventStore, jobs *store.JobStore, market *store.MarketStore, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		events: events,
		jobs:   jobs,
		market: market,
		logger: logger,
	}
}

type dashboardResponse struct {
	Counts map[string]int     `json:"counts"`
	Chart  []chart.Slice      `json:"chart"`
	Events []model.Event      `json:"events"`
	Jobs   []model.Job        `json:"jobs"`
	Market []model.MarketItem `json:"market"`
}

// Dashboard returns the three management tables plus per-category counts
// and the pie geometry for the distribution chart. The three lists load
// concurrently; any failure fails the whole dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var (
		wg                        sync.WaitGroup
		events                    []model.Event
		jobs                      []model.Job
		items                     []model.MarketItem
		eventErr, jobErr, itemErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		events, eventErr = h.events.List(false)
	}()
	go func() {
		defer wg.Done()
		jobs, jobErr = h.jobs.List(store.JobFilters{})
	}()
	go func() {
		defer wg.Done()
		items, itemErr = h.market.ListActive()
	}()
	wg.Wait()

	for _, err := range []error{eventErr, jobErr, itemErr} {
		if err != nil {
			h.logger.Error("load dashboard", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load dashboard")
			return
		}
	}

	if events == nil {
		events = []model.Event{}
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	if items == nil {
		items = []model.MarketItem{}
	}

	labels := []string{"events", "jobs", "market"}
	values := []float64{float64(len(events)), float64(len(jobs)), float64(len(items))}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Counts: map[string]int{
			"events": len(events),
			"jobs":   len(jobs),
			"market": len(items),
		},
		Chart:  chart.Pie(labels, values),
		Events: events,
		Jobs:   jobs,
		Market: items,
	})
}
