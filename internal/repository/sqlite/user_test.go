package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/healthtrack/backend/internal/apperror"
	"github.com/healthtrack/backend/internal/model"
)

// newTestDB returns a DB backed by an in-memory SQLite database, with the
// full schema migrated. Each call gets a fresh, isolated database.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:): %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestUserRepo returns a UserRepo backed by a fresh in-memory database,
// along with the DB for tests that need both repositories.
func newTestUserRepo(t *testing.T) (*DB, *UserRepo) {
	t.Helper()
	db := newTestDB(t)
	return db, db.Users()
}

// createTestUser inserts a user and fails the test on error.
func createTestUser(t *testing.T, users *UserRepo, name, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$fakehashfakehashfakehashfakehashfakehashfakehashfak",
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	_, users := newTestUserRepo(t)

	user := &model.User{
		Name:         "Alice",
		Email:        "alice@x.com",
		PasswordHash: "some-bcrypt-hash",
	}

	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	_, users := newTestUserRepo(t)

	createTestUser(t, users, "Alice", "alice@x.com")

	duplicate := &model.User{
		Name:         "Imposter",
		Email:        "alice@x.com",
		PasswordHash: "other-hash",
	}
	err := users.Create(context.Background(), duplicate)
	if err == nil {
		t.Fatal("Create() should fail for a duplicate email")
	}
	// The UNIQUE violation must classify as a conflict, not a raw DB error —
	// this is what closes the signup check-then-insert race.
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// LOOKUP TESTS
// =========================================================================

func TestGetByEmail(t *testing.T) {
	_, users := newTestUserRepo(t)

	created := createTestUser(t, users, "Alice", "alice@x.com")

	user, err := users.GetByEmail(context.Background(), "alice@x.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("GetByEmail() ID = %q, want %q", user.ID, created.ID)
	}
	if user.PasswordHash == "" {
		t.Error("GetByEmail() must return the stored hash for login verification")
	}
}

func TestGetByEmail_CaseSensitive(t *testing.T) {
	_, users := newTestUserRepo(t)

	createTestUser(t, users, "Alice", "alice@x.com")

	// Lookups are exact-match; a different casing is a different key.
	_, err := users.GetByEmail(context.Background(), "ALICE@X.COM")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() with different casing error = %v, want ErrNotFound", err)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	_, users := newTestUserRepo(t)

	_, err := users.GetByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestGetByID(t *testing.T) {
	_, users := newTestUserRepo(t)

	created := createTestUser(t, users, "Alice", "alice@x.com")

	user, err := users.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if user.Email != "alice@x.com" {
		t.Errorf("GetByID() Email = %q, want %q", user.Email, "alice@x.com")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	_, users := newTestUserRepo(t)

	_, err := users.GetByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}
