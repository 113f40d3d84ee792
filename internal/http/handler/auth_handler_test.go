package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	h := setupHandlers(t)
	ctx := context.Background()

	register := domain.RegisterRequest{Name: "Maria", Email: "Maria@Example.com", Password: "secret123"}

	t.Run("register", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Register(rr, newRequest(t, ctx, http.MethodPost, "/auth/register", register, nil))

		require.Equal(t, http.StatusCreated, rr.Code)
		resp := decodeBody[domain.AuthResponse](t, rr)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "maria@example.com", resp.User.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Register(rr, newRequest(t, ctx, http.MethodPost, "/auth/register", register, nil))

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, domain.MsgUserEmailTaken, decodeError(t, rr).Message)
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Register(rr, newRequest(t, ctx, http.MethodPost, "/auth/register", domain.RegisterRequest{Email: "x@example.com"}, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeError(t, rr)
		assert.Contains(t, resp.Errors, "name")
		assert.Contains(t, resp.Errors, "password")
	})

	t.Run("login", func(t *testing.T) {
		rr := httptest.NewRecorder()
		body := domain.LoginRequest{Email: "maria@example.com", Password: "secret123"}
		h.auth.Login(rr, newRequest(t, ctx, http.MethodPost, "/auth/login", body, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, decodeBody[domain.AuthResponse](t, rr).Token)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		rr := httptest.NewRecorder()
		body := domain.LoginRequest{Email: "maria@example.com", Password: "wrong-password"}
		h.auth.Login(rr, newRequest(t, ctx, http.MethodPost, "/auth/login", body, nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, domain.MsgInvalidCredentials, decodeError(t, rr).Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Login(rr, newRequest(t, ctx, http.MethodPost, "/auth/login", "{not json", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	h := setupHandlers(t)
	user := testutil.CreateTestUser(t, h.db, "owner")

	t.Run("authenticated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Me(rr, newRequest(t, testutil.OwnerContext(user), http.MethodGet, "/auth/me", nil, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[domain.UserResponse](t, rr)
		assert.Equal(t, user.ID, resp.User.ID)
	})

	t.Run("no principal", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Me(rr, newRequest(t, context.Background(), http.MethodGet, "/auth/me", nil, nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
