package store

import "testing"

func TestUserDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	if _, err := us.Create("dup@test.local", "hash1"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("dup@test.local", "hash2"); err == nil {
		t.Error("duplicate email should violate the unique constraint")
	}
}

func TestUserGetPasswordHashMissing(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	id, hash, err := us.GetPasswordHash("nobody@test.local")
	if err != nil {
		t.Fatalf("get password hash: %v", err)
	}
	if id != 0 || hash != "" {
		t.Errorf("missing user should yield zero values, got (%d, %q)", id, hash)
	}
}

func TestProfileIsAdminMissingProfile(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "noprofile@test.local")
	ps := NewProfileStore(db)

	isAdmin, err := ps.IsAdmin(uid)
	if err != nil {
		t.Fatalf("is admin: %v", err)
	}
	if isAdmin {
		t.Error("user without a profile should not be admin")
	}
}

func TestProfileUpsertPreservesAdminFlag(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "adminprofile@test.local")
	ps := NewProfileStore(db)

	if err := ps.SetAdmin(uid, true); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	if _, err := ps.Upsert(uid, "Sam", "555-0100"); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}

	isAdmin, _ := ps.IsAdmin(uid)
	if !isAdmin {
		t.Error("profile update should not clear the admin flag")
	}
	p, _ := ps.GetByUserID(uid)
	if p.Name != "Sam" {
		t.Errorf("name = %q, want Sam", p.Name)
	}
}
