package store

import (
	"database/sql"
	"fmt"

	"github.com/campushub/campushub/internal/model"
)

type FeedbackStore struct {
	db *sql.DB
}

func NewFeedbackStore(db *sql.DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// Create inserts a feedback row. userID may be nil for anonymous
// submissions.
func (s *FeedbackStore) Create(name, email, message string, userID *int64) (*model.Feedback, error) {
	var uid sql.NullInt64
	if userID != nil {
		uid = sql.NullInt64{Int64: *userID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO feedback (name, email, message, user_id) VALUES (?, ?, ?, ?)`,
		name, email, message, uid,
	)
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	var f model.Feedback
	err = s.db.QueryRow(
		`SELECT id, name, email, message, user_id, created_at FROM feedback WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name, &f.Email, &f.Message, &uid, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	if uid.Valid {
		f.UserID = &uid.Int64
	}
	return &f, nil
}

func (s *FeedbackStore) List() ([]model.Feedback, error) {
	rows, err := s.db.Query(
		`SELECT id, name, email, message, user_id, created_at FROM feedback ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var items []model.Feedback
	for rows.Next() {
		var f model.Feedback
		var uid sql.NullInt64
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.Message, &uid, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		if uid.Valid {
			f.UserID = &uid.Int64
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
