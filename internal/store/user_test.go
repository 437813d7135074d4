package store

import (
	"testing"

	"github.com/leafkeep/leafkeep/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreateAndGet(t *testing.T) {
	us := setupUserTestDB(t)

	user, err := us.Create("anna@example.com", "Anna", "bcrypt-hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "anna@example.com" || user.Name != "Anna" {
		t.Errorf("user = %+v", user)
	}

	byID, err := us.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID == nil || byID.Email != "anna@example.com" {
		t.Errorf("by id = %+v", byID)
	}

	byEmail, err := us.GetByEmail("anna@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Errorf("by email = %+v", byEmail)
	}

	missing, err := us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserDuplicateEmailRejected(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("dup@example.com", "First", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("dup@example.com", "Second", "hash"); err == nil {
		t.Error("expected unique constraint error for duplicate email")
	}
}

func TestUserPasswordHashLookup(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("hash@example.com", "Hash", "secret-hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	hash, err := us.PasswordHash("hash@example.com")
	if err != nil {
		t.Fatalf("password hash: %v", err)
	}
	if hash != "secret-hash" {
		t.Errorf("hash = %q", hash)
	}

	// Unknown emails yield an empty hash, not an error, so login can fail
	// uniformly.
	hash, err = us.PasswordHash("unknown@example.com")
	if err != nil {
		t.Fatalf("password hash for unknown: %v", err)
	}
	if hash != "" {
		t.Errorf("hash for unknown = %q, want empty", hash)
	}
}

func TestUserUpdateAndDelete(t *testing.T) {
	us := setupUserTestDB(t)

	user, err := us.Create("old@example.com", "Old Name", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	updated, err := us.Update(user.ID, "new@example.com", "New Name")
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.Email != "new@example.com" || updated.Name != "New Name" {
		t.Errorf("updated = %+v", updated)
	}

	if err := us.Delete(user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	got, err := us.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get deleted user: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}
