package store

import (
	"database/sql"
	"fmt"

	"github.com/campushub/campushub/internal/model"
)

type MarketStore struct {
	db *sql.DB
}

func NewMarketStore(db *sql.DB) *MarketStore {
	return &MarketStore{db: db}
}

func scanMarketItem(scanner interface{ Scan(...any) error }) (*model.MarketItem, error) {
	var m model.MarketItem
	err := scanner.Scan(&m.ID, &m.Title, &m.Description, &m.Price, &m.Status, &m.UserID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// room_password is deliberately excluded; it is read only through
// GetRoomPassword and never serialized to clients.
const marketCols = `id, title, description, price, status, user_id, created_at`

func (s *MarketStore) Create(title, description string, price float64, roomPassword string, userID int64) (*model.MarketItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO market_items (title, description, price, room_password, status, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		title, description, price, roomPassword, model.MarketStatusActive, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert market item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MarketStore) GetByID(id int64) (*model.MarketItem, error) {
	row := s.db.QueryRow(`SELECT `+marketCols+` FROM market_items WHERE id = ?`, id)
	m, err := scanMarketItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get market item: %w", err)
	}
	return m, nil
}

// ListActive returns active listings only, newest first.
func (s *MarketStore) ListActive() ([]model.MarketItem, error) {
	rows, err := s.db.Query(
		`SELECT `+marketCols+` FROM market_items WHERE status = ? ORDER BY created_at DESC, id DESC`,
		model.MarketStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("query market items: %w", err)
	}
	defer rows.Close()

	var items []model.MarketItem
	for rows.Next() {
		m, err := scanMarketItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan market item: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// GetRoomPassword returns the stored bidding password for an item. The
// second return is false when the item does not exist.
func (s *MarketStore) GetRoomPassword(id int64) (string, bool, error) {
	var pw string
	err := s.db.QueryRow(`SELECT room_password FROM market_items WHERE id = ?`, id).Scan(&pw)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get room password: %w", err)
	}
	return pw, true, nil
}

func (s *MarketStore) Delete(id, userID int64, asAdmin bool) (bool, error) {
	query := `DELETE FROM market_items WHERE id = ?`
	args := []any{id}
	if !asAdmin {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("delete market item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// CreateBid appends a bid. Bids carry no update or delete path.
func (s *MarketStore) CreateBid(itemID, userID int64, amount float64) (*model.Bid, error) {
	result, err := s.db.Exec(
		`INSERT INTO bids (item_id, user_id, amount) VALUES (?, ?, ?)`,
		itemID, userID, amount,
	)
	if err != nil {
		return nil, fmt.Errorf("insert bid: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	var b model.Bid
	err = s.db.QueryRow(
		`SELECT id, item_id, user_id, amount, created_at FROM bids WHERE id = ?`, id,
	).Scan(&b.ID, &b.ItemID, &b.UserID, &b.Amount, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get bid: %w", err)
	}
	return &b, nil
}

func (s *MarketStore) ListBids(itemID int64) ([]model.Bid, error) {
	rows, err := s.db.Query(
		`SELECT id, item_id, user_id, amount, created_at FROM bids WHERE item_id = ? ORDER BY created_at DESC, id DESC`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("query bids: %w", err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		var b model.Bid
		if err := rows.Scan(&b.ID, &b.ItemID, &b.UserID, &b.Amount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}
