package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/store"
	"github.com/campushub/campushub/internal/websocket"
)

type MarketHandler struct {
	store  *store.MarketStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewMarketHandler(s *store.MarketStore, hub *websocket.Hub, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{store: s, hub: hub, logger: logger}
}

type marketItemRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	RoomPassword string  `json:"room_password"`
}

type bidRequest struct {
	Amount   float64 `json:"amount"`
	Password string  `json:"password"`
}

func (h *MarketHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListActive()
	if err != nil {
		h.logger.Error("list market items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load listings")
		return
	}
	if items == nil {
		items = []model.MarketItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MarketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req marketItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "price cannot be negative")
		return
	}

	item, err := h.store.Create(req.Title, req.Description, req.Price, req.RoomPassword, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create market item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create listing")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("market_item", "created", item.ID, nil))
	writeJSON(w, http.StatusCreated, item)
}

func (h *MarketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing ID")
		return
	}

	deleted, err := h.store.Delete(id, auth.UserID(r.Context()), auth.IsAdmin(r.Context()))
	if err != nil {
		h.logger.Error("delete market item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete listing")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "listing not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("market_item", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *MarketHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing ID")
		return
	}
	bids, err := h.store.ListBids(id)
	if err != nil {
		h.logger.Error("list bids", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load bids")
		return
	}
	if bids == nil {
		bids = []model.Bid{}
	}
	writeJSON(w, http.StatusOK, bids)
}

// PlaceBid records a bid after checking the listing's bidding password.
// Admins may bid without the password; everyone else gets a
// distinguishable rejection on a mismatch so clients can prompt again.
func (h *MarketHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing ID")
		return
	}
	var req bidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "bid amount must be positive")
		return
	}

	password, found, err := h.store.GetRoomPassword(id)
	if err != nil {
		h.logger.Error("get room password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to place bid")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "listing not found")
		return
	}
	if !auth.IsAdmin(r.Context()) && req.Password != password {
		writeError(w, http.StatusForbidden, "Incorrect password")
		return
	}

	bid, err := h.store.CreateBid(id, auth.UserID(r.Context()), req.Amount)
	if err != nil {
		h.logger.Error("create bid", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to place bid")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("bid", "created", bid.ID, map[string]any{"item_id": id}))
	writeJSON(w, http.StatusCreated, bid)
}
