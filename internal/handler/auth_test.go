package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healthtrack/backend/internal/auth"
	"github.com/healthtrack/backend/internal/handler"
	"github.com/healthtrack/backend/internal/repository/sqlite"
	"github.com/healthtrack/backend/internal/service"
)

// testEnv wires an AuthHandler over a real in-memory database; handler tests
// cover the full decode → service → respond path.
type testEnv struct {
	auth   *handler.AuthHandler
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(4)

	accounts := service.NewAccountService(db.Users(), passwords, tokens, logger)

	return &testEnv{
		auth:   handler.NewAuthHandler(accounts, logger),
		tokens: tokens,
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestHandleSignup(t *testing.T) {
	t.Run("valid signup", func(t *testing.T) {
		env := newTestEnv(t)

		rr := postJSON(t, env.auth.HandleSignup, "/api/auth/signup",
			`{"name":"Alice","email":"alice@x.com","password":"secret1"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var res struct {
			Token string `json:"token"`
			User  struct {
				ID    string `json:"id"`
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"user"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotEmpty(t, res.Token)
		assert.NotEmpty(t, res.User.ID)
		assert.Equal(t, "Alice", res.User.Name)
		assert.Equal(t, "alice@x.com", res.User.Email)

		// The password hash must never appear in the response.
		assert.NotContains(t, rr.Body.String(), "password")
		assert.NotContains(t, rr.Body.String(), "$2a$")

		subject, err := env.tokens.Verify(res.Token)
		assert.NoError(t, err)
		assert.Equal(t, res.User.ID, subject)
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		env := newTestEnv(t)

		rr := postJSON(t, env.auth.HandleSignup, "/api/auth/signup", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		env := newTestEnv(t)

		rr := postJSON(t, env.auth.HandleSignup, "/api/auth/signup",
			`{"email":"alice@x.com","password":"secret1"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		env := newTestEnv(t)

		first := postJSON(t, env.auth.HandleSignup, "/api/auth/signup",
			`{"name":"Alice","email":"alice@x.com","password":"secret1"}`)
		assert.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(t, env.auth.HandleSignup, "/api/auth/signup",
			`{"name":"Other","email":"alice@x.com","password":"secret2"}`)
		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Contains(t, second.Body.String(), "Email already registered")
	})
}

func TestHandleLogin(t *testing.T) {
	signupAlice := func(t *testing.T, env *testEnv) {
		rr := postJSON(t, env.auth.HandleSignup, "/api/auth/signup",
			`{"name":"Alice","email":"alice@x.com","password":"secret1"}`)
		assert.Equal(t, http.StatusCreated, rr.Code)
	}

	t.Run("correct password", func(t *testing.T) {
		env := newTestEnv(t)
		signupAlice(t, env)

		rr := postJSON(t, env.auth.HandleLogin, "/api/auth/login",
			`{"email":"alice@x.com","password":"secret1"}`)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Token string `json:"token"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		_, err := env.tokens.Verify(res.Token)
		assert.NoError(t, err)
	})

	t.Run("wrong password and unknown email are identical", func(t *testing.T) {
		env := newTestEnv(t)
		signupAlice(t, env)

		wrongPass := postJSON(t, env.auth.HandleLogin, "/api/auth/login",
			`{"email":"alice@x.com","password":"wrong-pass"}`)
		unknownEmail := postJSON(t, env.auth.HandleLogin, "/api/auth/login",
			`{"email":"nobody@x.com","password":"secret1"}`)

		assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.Equal(t, wrongPass.Body.String(), unknownEmail.Body.String())
	})
}

func TestHandleMe(t *testing.T) {
	t.Run("returns profile without hash", func(t *testing.T) {
		env := newTestEnv(t)

		signup := postJSON(t, env.auth.HandleSignup, "/api/auth/signup",
			`{"name":"Alice","email":"alice@x.com","password":"secret1"}`)
		var created struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
		}
		assert.NoError(t, json.NewDecoder(signup.Body).Decode(&created))

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(auth.WithUserID(req.Context(), created.User.ID))
		rr := httptest.NewRecorder()

		env.auth.HandleMe(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"alice@x.com"`)
		assert.Contains(t, rr.Body.String(), `"createdAt"`)
		assert.NotContains(t, rr.Body.String(), "$2a$")
	})

	t.Run("account deleted after token issued", func(t *testing.T) {
		env := newTestEnv(t)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(auth.WithUserID(req.Context(), "user-gone"))
		rr := httptest.NewRecorder()

		env.auth.HandleMe(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
