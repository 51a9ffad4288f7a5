package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Preference keys. Saved-item sets are stored one key per category as a
// JSON array of string ids; reminders as a JSON object of ISO date to
// note text.
const (
	prefTheme     = "theme"
	prefReminders = "calendar_reminders"
	prefSavedFmt  = "saved_%s"
)

// SavedCategories are the listing types a user can save items from.
var SavedCategories = []string{"events", "jobs", "market"}

type PreferenceStore struct {
	db *sql.DB
}

func NewPreferenceStore(db *sql.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

func (s *PreferenceStore) get(userID int64, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM preferences WHERE user_id = ? AND key = ?`,
		userID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, true, nil
}

func (s *PreferenceStore) set(userID int64, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		userID, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

// GetTheme returns the stored theme. Anything outside {"light","dark"}
// resolves to "light".
func (s *PreferenceStore) GetTheme(userID int64) (string, error) {
	value, ok, err := s.get(userID, prefTheme)
	if err != nil {
		return "", err
	}
	if !ok || (value != "light" && value != "dark") {
		return "light", nil
	}
	return value, nil
}

func (s *PreferenceStore) SetTheme(userID int64, theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("invalid theme %q", theme)
	}
	return s.set(userID, prefTheme, theme)
}

// GetSavedSet returns the saved-id set for a category. Corrupt or
// missing values resolve to an empty set.
func (s *PreferenceStore) GetSavedSet(userID int64, category string) (map[string]bool, error) {
	value, ok, err := s.get(userID, fmt.Sprintf(prefSavedFmt, category))
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	if !ok {
		return set, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return set, nil
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *PreferenceStore) setSavedSet(userID int64, category string, set map[string]bool) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal saved set: %w", err)
	}
	return s.set(userID, fmt.Sprintf(prefSavedFmt, category), string(data))
}

// ToggleSaved flips an id in the category's saved set and reports the
// new saved state. Toggling twice restores the original state.
func (s *PreferenceStore) ToggleSaved(userID int64, category, id string) (bool, error) {
	set, err := s.GetSavedSet(userID, category)
	if err != nil {
		return false, err
	}
	if set[id] {
		delete(set, id)
	} else {
		set[id] = true
	}
	if err := s.setSavedSet(userID, category, set); err != nil {
		return false, err
	}
	return set[id], nil
}

// GetReminders returns the user's date-to-note map. Corrupt values
// resolve to an empty map.
func (s *PreferenceStore) GetReminders(userID int64) (map[string]string, error) {
	value, ok, err := s.get(userID, prefReminders)
	if err != nil {
		return nil, err
	}
	reminders := make(map[string]string)
	if !ok {
		return reminders, nil
	}
	if err := json.Unmarshal([]byte(value), &reminders); err != nil {
		return make(map[string]string), nil
	}
	return reminders, nil
}

// SetReminder stores a free-text note for an ISO date. An empty note
// clears the reminder.
func (s *PreferenceStore) SetReminder(userID int64, date, note string) error {
	reminders, err := s.GetReminders(userID)
	if err != nil {
		return err
	}
	if note == "" {
		delete(reminders, date)
	} else {
		reminders[date] = note
	}
	data, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("marshal reminders: %w", err)
	}
	return s.set(userID, prefReminders, string(data))
}

// GetReminder returns the note for the given ISO date, if any.
func (s *PreferenceStore) GetReminder(userID int64, date string) (string, bool, error) {
	reminders, err := s.GetReminders(userID)
	if err != nil {
		return "", false, err
	}
	note, ok := reminders[date]
	return note, ok, nil
}

// ListUserIDsWithReminders returns the ids of users that have any
// reminder notes stored. Used by the push scheduler.
func (s *PreferenceStore) ListUserIDsWithReminders() ([]int64, error) {
	rows, err := s.db.Query(`SELECT user_id FROM preferences WHERE key = ?`, prefReminders)
	if err != nil {
		return nil, fmt.Errorf("list reminder users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan reminder user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
