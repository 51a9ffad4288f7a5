package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/campushub/campushub/internal/model"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func scanProfile(scanner interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	var adminInt int
	err := scanner.Scan(&p.UserID, &p.Name, &p.Phone, &adminInt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.IsAdmin = adminInt != 0
	return &p, nil
}

const profileCols = `user_id, name, phone, is_admin, created_at, updated_at`

func (s *ProfileStore) GetByUserID(userID int64) (*model.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM profiles WHERE user_id = ?`, userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Upsert creates the profile on first update, preserving is_admin on
// subsequent updates.
func (s *ProfileStore) Upsert(userID int64, name, phone string) (*model.Profile, error) {
	_, err := s.db.Exec(
		`INSERT INTO profiles (user_id, name, phone, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET name = excluded.name, phone = excluded.phone, updated_at = excluded.updated_at`,
		userID, name, phone, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return s.GetByUserID(userID)
}

// IsAdmin reports whether the user's profile carries the admin flag.
// A missing profile is not an error; it resolves to false.
func (s *ProfileStore) IsAdmin(userID int64) (bool, error) {
	var adminInt int
	err := s.db.QueryRow(`SELECT is_admin FROM profiles WHERE user_id = ?`, userID).Scan(&adminInt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get admin flag: %w", err)
	}
	return adminInt != 0, nil
}

func (s *ProfileStore) SetAdmin(userID int64, isAdmin bool) error {
	var adminInt int
	if isAdmin {
		adminInt = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO profiles (user_id, is_admin, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET is_admin = excluded.is_admin, updated_at = excluded.updated_at`,
		userID, adminInt, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set admin flag: %w", err)
	}
	return nil
}
