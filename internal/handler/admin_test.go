package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campushub/campushub/internal/chart"
	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/store"
)

func TestDashboardIncludesTablesAndCounts(t *testing.T) {
	db := openTestDB(t)
	logger := testLogger()

	if _, err := db.Exec(`INSERT INTO users (email, password_hash) VALUES ('admin@x', 'h')`); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	es := store.NewEventStore(db)
	js := store.NewJobStore(db)
	ms := store.NewMarketStore(db)

	when := time.Now().AddDate(0, 0, 7)
	if _, err := es.Create("Career Fair", "", "CS Dept", when, "Hall A", 1); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	if _, err := es.Create("Club Night", "", "SGA", when, "Quad", 1); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	if _, err := js.Create("TA", "Math Dept", "part-time", "Campus", "calculus", 1); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	if _, err := ms.Create("Mini Fridge", "", 40, "pw", 1); err != nil {
		t.Fatalf("seed market item: %v", err)
	}
	closed, err := ms.Create("Scooter", "", 90, "pw", 1)
	if err != nil {
		t.Fatalf("seed market item: %v", err)
	}
	if _, err := db.Exec(`UPDATE market_items SET status = ? WHERE id = ?`, model.MarketStatusClosed, closed.ID); err != nil {
		t.Fatalf("close item: %v", err)
	}

	h := NewAdminHandler(es, js, ms, logger)
	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest("GET", "/api/admin/dashboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Counts map[string]int     `json:"counts"`
		Chart  []chart.Slice      `json:"chart"`
		Events []model.Event      `json:"events"`
		Jobs   []model.Job        `json:"jobs"`
		Market []model.MarketItem `json:"market"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Closed listings are excluded from both the table and its count.
	want := map[string]int{"events": 2, "jobs": 1, "market": 1}
	for category, n := range want {
		if resp.Counts[category] != n {
			t.Errorf("counts[%s] = %d, want %d", category, resp.Counts[category], n)
		}
	}
	if len(resp.Events) != 2 || len(resp.Jobs) != 1 || len(resp.Market) != 1 {
		t.Errorf("table sizes = %d/%d/%d, want 2/1/1",
			len(resp.Events), len(resp.Jobs), len(resp.Market))
	}
	if len(resp.Chart) != 3 {
		t.Errorf("got %d chart slices, want 3", len(resp.Chart))
	}
}

func TestDashboardEmptyDatabase(t *testing.T) {
	db := openTestDB(t)
	logger := testLogger()

	h := NewAdminHandler(store.NewEventStore(db), store.NewJobStore(db), store.NewMarketStore(db), logger)
	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest("GET", "/api/admin/dashboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp dashboardResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Events == nil || resp.Jobs == nil || resp.Market == nil {
		t.Error("empty tables should serialize as [], not null")
	}
}
