package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/healthtrack/backend/internal/apperror"
	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/repository"
)

// UserRepo implements repository.UserRepository over the shared pool.
// Obtain one via DB.Users.
type UserRepo struct {
	conn *sql.DB
}

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

// Create inserts a new user, assigning ID and CreatedAt on the passed struct.
//
// The email UNIQUE constraint is the real uniqueness guarantee: two signups
// racing past the service's pre-check both reach this INSERT, and the loser
// gets a constraint violation, which we translate to the same ConflictError
// the pre-check would have produced.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return apperror.Conflict("Email already registered")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email (exact, case-sensitive match).
// Returns apperror.ErrNotFound if no account uses that email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `SELECT id, name, email, password_hash, created_at
		 FROM users WHERE email = ?`, email)
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, `SELECT id, name, email, password_hash, created_at
		 FROM users WHERE id = ?`, id)
}

func (r *UserRepo) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User

	err := r.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &u, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on the
// given column. modernc.org/sqlite surfaces these as
// "constraint failed: UNIQUE constraint failed: <table.column>", so matching
// the message is the practical check without importing driver internals.
func isUniqueViolation(err error, column string) bool {
	return err != nil &&
		strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
