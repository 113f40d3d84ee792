package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentdesk/leads-api/internal/auth"
	"github.com/agentdesk/leads-api/internal/config"
	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/http/handler"
	"github.com/agentdesk/leads-api/internal/ingest"
	"github.com/agentdesk/leads-api/internal/repository"
	"github.com/agentdesk/leads-api/internal/service"
	"github.com/agentdesk/leads-api/internal/storage"
	"github.com/agentdesk/leads-api/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testMaxUpload = 1 << 20

type testHandlers struct {
	db     *gorm.DB
	auth   *handler.AuthHandler
	agents *handler.AgentHandler
	leads  *handler.LeadHandler
}

func setupHandlers(t *testing.T) *testHandlers {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	userRepo := repository.NewUserRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret:     "handler-test-secret-that-is-long-enough",
		TokenTTLHours: 1,
		Issuer:        "leads-api-test",
	})

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	authService := service.NewAuthService(userRepo, tokens, hasher, logger)
	agentService := service.NewAgentService(agentRepo, leadRepo, hasher, logger)
	leadService := service.NewLeadService(db, leadRepo, agentRepo, logger)
	importService := service.NewImportService(db, leadRepo, agentRepo, store, ingest.NewNormalizer(), logger)

	return &testHandlers{
		db:     db,
		auth:   handler.NewAuthHandler(authService, logger, false),
		agents: handler.NewAgentHandler(agentService, logger, false),
		leads:  handler.NewLeadHandler(leadService, importService, testMaxUpload, logger, false),
	}
}

// newRequest builds a request with an optional JSON body and chi URL params
func newRequest(t *testing.T, ctx context.Context, method, target string, body interface{}, params map[string]string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

// newUploadRequest builds a multipart request carrying one file under field
func newUploadRequest(t *testing.T, ctx context.Context, field, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/leads/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req.WithContext(ctx)
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return out
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()
	resp := decodeBody[domain.ErrorResponse](t, rr)
	require.False(t, resp.Success)
	return resp
}
