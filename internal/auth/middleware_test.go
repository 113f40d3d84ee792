package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentdesk/leads-api/internal/auth"
	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUsers struct {
	exists bool
	err    error
}

func (s stubUsers) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists, s.err
}

func serveAuthenticated(t *testing.T, users auth.UserLookup, authHeader string) (*httptest.ResponseRecorder, *auth.UserContext) {
	t.Helper()
	mw := auth.NewMiddleware(newTestTokenManager(1), users, zap.NewNop())

	var captured *auth.UserContext
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, captured
}

func TestMiddleware_Authenticate_ValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := newTestTokenManager(1).Issue(userID, "Owner", "owner@example.com")
	require.NoError(t, err)

	w, userCtx := serveAuthenticated(t, stubUsers{exists: true}, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, userCtx)
	assert.Equal(t, userID, userCtx.UserID)
}

func TestMiddleware_Authenticate_Rejections(t *testing.T) {
	token, err := newTestTokenManager(1).Issue(uuid.New(), "Owner", "owner@example.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		users      auth.UserLookup
		header     string
		wantStatus int
	}{
		{name: "missing header", users: stubUsers{exists: true}, header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", users: stubUsers{exists: true}, header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", users: stubUsers{exists: true}, header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
		{name: "deleted user", users: stubUsers{exists: false}, header: "Bearer " + token, wantStatus: http.StatusUnauthorized},
		{name: "lookup failure", users: stubUsers{err: errors.New("db down")}, header: "Bearer " + token, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, userCtx := serveAuthenticated(t, tt.users, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Nil(t, userCtx)

			var body domain.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestOwnerID(t *testing.T) {
	_, ok := auth.OwnerID(context.Background())
	assert.False(t, ok)

	id := uuid.New()
	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{UserID: id})
	got, ok := auth.OwnerID(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
