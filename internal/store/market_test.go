package store

import (
	"testing"

	"github.com/campushub/campushub/internal/model"
)

func TestMarketCreateDefaultsActive(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "seller@test.local")
	ms := NewMarketStore(db)

	item, err := ms.Create("Bike", "barely used", 120, "secret", uid)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.Status != model.MarketStatusActive {
		t.Errorf("status = %q, want %q", item.Status, model.MarketStatusActive)
	}
}

func TestMarketListActiveOnly(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "seller2@test.local")
	ms := NewMarketStore(db)

	active, _ := ms.Create("Lamp", "", 15, "pw", uid)
	closed, _ := ms.Create("Desk", "", 60, "pw", uid)
	if _, err := db.Exec(`UPDATE market_items SET status = ? WHERE id = ?`, model.MarketStatusClosed, closed.ID); err != nil {
		t.Fatalf("close item: %v", err)
	}

	items, err := ms.ListActive()
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(items) != 1 || items[0].ID != active.ID {
		t.Errorf("got %d items, want only the active one", len(items))
	}
}

func TestMarketRoomPassword(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "seller3@test.local")
	ms := NewMarketStore(db)

	item, _ := ms.Create("Textbook", "", 30, "hunter2", uid)

	pw, found, err := ms.GetRoomPassword(item.ID)
	if err != nil {
		t.Fatalf("get room password: %v", err)
	}
	if !found || pw != "hunter2" {
		t.Errorf("got (%q, %v), want (hunter2, true)", pw, found)
	}

	_, found, err = ms.GetRoomPassword(99999)
	if err != nil {
		t.Fatalf("get missing room password: %v", err)
	}
	if found {
		t.Error("missing item should report not found")
	}
}

func TestMarketBidsAppendOnly(t *testing.T) {
	db := openTestDB(t)
	seller := createTestUser(t, db, "seller4@test.local")
	bidder := createTestUser(t, db, "bidder@test.local")
	ms := NewMarketStore(db)

	item, _ := ms.Create("Chair", "", 25, "pw", seller)

	b1, err := ms.CreateBid(item.ID, bidder, 20)
	if err != nil {
		t.Fatalf("create bid: %v", err)
	}
	b2, err := ms.CreateBid(item.ID, bidder, 22)
	if err != nil {
		t.Fatalf("create second bid: %v", err)
	}
	if b1.ID == b2.ID {
		t.Error("bids should be distinct rows")
	}

	bids, err := ms.ListBids(item.ID)
	if err != nil {
		t.Fatalf("list bids: %v", err)
	}
	if len(bids) != 2 {
		t.Errorf("got %d bids, want 2", len(bids))
	}
}

