package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/store"
	"github.com/campushub/campushub/internal/websocket"
)

func placeBid(t *testing.T, h *MarketHandler, itemID string, body string, ac auth.AuthContext) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/market/"+itemID+"/bids", strings.NewReader(body))
	req.SetPathValue("id", itemID)
	req = req.WithContext(auth.WithAuth(req.Context(), ac))
	rec := httptest.NewRecorder()
	h.PlaceBid(rec, req)
	return rec
}

func TestPlaceBidPasswordGate(t *testing.T) {
	db := openTestDB(t)
	logger := testLogger()
	ms := store.NewMarketStore(db)
	h := NewMarketHandler(ms, websocket.NewHub(logger), logger)

	if _, err := db.Exec(`INSERT INTO users (email, password_hash) VALUES ('s@x', 'h'), ('b@x', 'h')`); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	item, err := ms.Create("Couch", "", 80, "roompw", 1)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	id := strconv.FormatInt(item.ID, 10)

	bidder := auth.AuthContext{UserID: 2}

	// Wrong password is rejected with the distinguishable message and
	// leaves no bid behind.
	rec := placeBid(t, h, id, `{"amount": 70, "password": "nope"}`, bidder)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	var errResp map[string]string
	json.NewDecoder(rec.Body).Decode(&errResp)
	if errResp["error"] != "Incorrect password" {
		t.Errorf("error = %q, want Incorrect password", errResp["error"])
	}
	bids, err := ms.ListBids(item.ID)
	if err != nil {
		t.Fatalf("list bids: %v", err)
	}
	if len(bids) != 0 {
		t.Fatalf("got %d bids after rejected attempt, want 0", len(bids))
	}

	// Correct password records exactly one bid.
	rec = placeBid(t, h, id, `{"amount": 70, "password": "roompw"}`, bidder)
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	bids, err = ms.ListBids(item.ID)
	if err != nil {
		t.Fatalf("list bids: %v", err)
	}
	if len(bids) != 1 {
		t.Errorf("got %d bids after accepted attempt, want 1", len(bids))
	}
}

func TestPlaceBidAdminBypass(t *testing.T) {
	db := openTestDB(t)
	logger := testLogger()
	ms := store.NewMarketStore(db)
	h := NewMarketHandler(ms, websocket.NewHub(logger), logger)

	db.Exec(`INSERT INTO users (email, password_hash) VALUES ('s@x', 'h'), ('a@x', 'h')`)
	if _, err := ms.Create("Desk", "", 50, "roompw", 1); err != nil {
		t.Fatalf("create item: %v", err)
	}

	admin := auth.AuthContext{UserID: 2, IsAdmin: true}
	rec := placeBid(t, h, "1", `{"amount": 45}`, admin)
	if rec.Code != http.StatusCreated {
		t.Errorf("admin bid status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestPlaceBidMissingItem(t *testing.T) {
	db := openTestDB(t)
	logger := testLogger()
	h := NewMarketHandler(store.NewMarketStore(db), websocket.NewHub(logger), logger)

	db.Exec(`INSERT INTO users (email, password_hash) VALUES ('b@x', 'h')`)
	rec := placeBid(t, h, "42", `{"amount": 10, "password": "pw"}`, auth.AuthContext{UserID: 1})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPlaceBidRejectsNonPositiveAmount(t *testing.T) {
	db := openTestDB(t)
	logger := testLogger()
	h := NewMarketHandler(store.NewMarketStore(db), websocket.NewHub(logger), logger)

	rec := placeBid(t, h, "1", `{"amount": 0, "password": "pw"}`, auth.AuthContext{UserID: 1})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
