package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/campushub/campushub/internal/model"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func scanEvent(scanner interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	err := scanner.Scan(&e.ID, &e.Title, &e.Description, &e.Organizer, &e.EventDate, &e.Location, &e.UserID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const eventCols = `id, title, description, organizer, event_date, location, user_id, created_at`

func (s *EventStore) Create(title, description, organizer string, eventDate time.Time, location string, userID int64) (*model.Event, error) {
	result, err := s.db.Exec(
		`INSERT INTO events (title, description, organizer, event_date, location, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		title, description, organizer, eventDate.UTC(), location, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *EventStore) GetByID(id int64) (*model.Event, error) {
	row := s.db.QueryRow(`SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// List returns events ordered ascending by date. When upcomingOnly is
// set, only events dated at or after now are returned.
func (s *EventStore) List(upcomingOnly bool) ([]model.Event, error) {
	query := `SELECT ` + eventCols + ` FROM events ORDER BY event_date ASC`
	args := []any{}
	if upcomingOnly {
		query = `SELECT ` + eventCols + ` FROM events WHERE event_date >= ? ORDER BY event_date ASC`
		args = append(args, time.Now().UTC())
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// Update modifies an event. The query is scoped to the owning user
// unless asAdmin is set; a non-owner update affects zero rows.
func (s *EventStore) Update(id int64, title, description, organizer string, eventDate time.Time, location string, userID int64, asAdmin bool) (*model.Event, error) {
	query := `UPDATE events SET title = ?, description = ?, organizer = ?, event_date = ?, location = ? WHERE id = ?`
	args := []any{title, description, organizer, eventDate.UTC(), location, id}
	if !asAdmin {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetByID(id)
}

// Delete removes an event. The query is scoped to the owning user unless
// asAdmin is set, so a non-owner delete silently affects zero rows.
func (s *EventStore) Delete(id, userID int64, asAdmin bool) (bool, error) {
	query := `DELETE FROM events WHERE id = ?`
	args := []any{id}
	if !asAdmin {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

