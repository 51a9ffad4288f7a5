package store

import "testing"

func TestThemeDefaultsToLight(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "theme@test.local")
	ps := NewPreferenceStore(db)

	theme, err := ps.GetTheme(uid)
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}
	if theme != "light" {
		t.Errorf("default theme = %q, want light", theme)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "theme2@test.local")
	ps := NewPreferenceStore(db)

	if err := ps.SetTheme(uid, "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	theme, _ := ps.GetTheme(uid)
	if theme != "dark" {
		t.Errorf("theme = %q, want dark", theme)
	}

	if err := ps.SetTheme(uid, "sepia"); err == nil {
		t.Error("invalid theme should be rejected")
	}
}

func TestThemeCorruptValueResolvesToLight(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "theme3@test.local")
	ps := NewPreferenceStore(db)

	// Write an out-of-range value directly, as if an old client stored it.
	db.Exec(`INSERT INTO preferences (user_id, key, value) VALUES (?, 'theme', 'neon')`, uid)

	theme, err := ps.GetTheme(uid)
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}
	if theme != "light" {
		t.Errorf("theme = %q, want light", theme)
	}
}

func TestToggleSavedParity(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "saved@test.local")
	ps := NewPreferenceStore(db)

	saved, err := ps.ToggleSaved(uid, "events", "42")
	if err != nil {
		t.Fatalf("toggle saved: %v", err)
	}
	if !saved {
		t.Error("first toggle should save the item")
	}

	saved, err = ps.ToggleSaved(uid, "events", "42")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if saved {
		t.Error("second toggle should unsave the item")
	}

	set, _ := ps.GetSavedSet(uid, "events")
	if len(set) != 0 {
		t.Errorf("set should be empty after double toggle, got %v", set)
	}
}

func TestSavedSetsIsolatedByCategory(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "saved2@test.local")
	ps := NewPreferenceStore(db)

	ps.ToggleSaved(uid, "jobs", "7")

	jobs, _ := ps.GetSavedSet(uid, "jobs")
	market, _ := ps.GetSavedSet(uid, "market")
	if !jobs["7"] {
		t.Error("job 7 should be saved")
	}
	if len(market) != 0 {
		t.Error("market set should be untouched")
	}
}

func TestSavedSetCorruptValue(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "saved3@test.local")
	ps := NewPreferenceStore(db)

	db.Exec(`INSERT INTO preferences (user_id, key, value) VALUES (?, 'saved_events', 'not-json')`, uid)

	set, err := ps.GetSavedSet(uid, "events")
	if err != nil {
		t.Fatalf("get saved set: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("corrupt value should resolve to empty set, got %v", set)
	}
}

func TestRemindersSetAndClear(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "reminder@test.local")
	ps := NewPreferenceStore(db)

	if err := ps.SetReminder(uid, "2026-09-15", "CS midterm"); err != nil {
		t.Fatalf("set reminder: %v", err)
	}
	note, ok, err := ps.GetReminder(uid, "2026-09-15")
	if err != nil {
		t.Fatalf("get reminder: %v", err)
	}
	if !ok || note != "CS midterm" {
		t.Errorf("got (%q, %v), want (CS midterm, true)", note, ok)
	}

	// Empty note clears the entry.
	if err := ps.SetReminder(uid, "2026-09-15", ""); err != nil {
		t.Fatalf("clear reminder: %v", err)
	}
	_, ok, _ = ps.GetReminder(uid, "2026-09-15")
	if ok {
		t.Error("cleared reminder should be gone")
	}
}

func TestListUserIDsWithReminders(t *testing.T) {
	db := openTestDB(t)
	withNote := createTestUser(t, db, "r1@test.local")
	without := createTestUser(t, db, "r2@test.local")
	ps := NewPreferenceStore(db)

	ps.SetReminder(withNote, "2026-10-01", "club meeting")

	ids, err := ps.ListUserIDsWithReminders()
	if err != nil {
		t.Fatalf("list reminder users: %v", err)
	}
	if len(ids) != 1 || ids[0] != withNote {
		t.Errorf("ids = %v, want [%d]", ids, withNote)
	}
	_ = without
}
