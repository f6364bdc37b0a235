// Package service contains the business logic layer. Handlers parse HTTP and
// delegate here; this layer validates, enforces the rules, talks to the
// repositories, and returns domain errors from internal/apperror. It knows
// nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/healthtrack/backend/internal/apperror"
	"github.com/healthtrack/backend/internal/auth"
	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/repository"
)

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 6

// AccountService orchestrates signup, login and identity lookup.
//
// Dependencies are injected: the user repository (interface, so tests use an
// in-memory fake), the bcrypt password service, and the token service that
// mints the bearer tokens returned to clients.
type AccountService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService with all dependencies.
func NewAccountService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// AuthResult bundles the stored user record with the freshly issued token so
// the handler can build the response in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Signup registers a new account and logs it in.
//
// Hard gates, in order: required fields and password length, email not
// already registered, hash, insert, issue token. The email pre-check gives
// the friendly conflict message; the UNIQUE constraint in the store catches
// the race where two signups for the same email pass the pre-check
// concurrently, and surfaces as the same ConflictError.
func (s *AccountService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "All fields are required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("Email already registered")
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/account: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A conflict here is the signup race losing to the UNIQUE constraint.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/account: creating user: %w", err)
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/account: issuing token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates an existing account and issues a fresh token.
//
// Unknown email and wrong password return the identical InvalidCredentials
// error — a caller must not be able to tell which one happened, or the
// endpoint becomes an account-enumeration oracle.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Email and password required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/account: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/account: issuing token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the account for a verified userID. Used by the "me"
// endpoint after the auth gate has resolved the token; NotFound means the
// account was deleted after the token was issued.
func (s *AccountService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "User ID is required")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/account: fetching user %s: %w", id, err)
	}

	return user, nil
}
