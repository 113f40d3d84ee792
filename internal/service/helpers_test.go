package service_test

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/agentdesk/leads-api/internal/auth"
	"github.com/agentdesk/leads-api/internal/config"
	"github.com/agentdesk/leads-api/internal/ingest"
	"github.com/agentdesk/leads-api/internal/repository"
	"github.com/agentdesk/leads-api/internal/service"
	"github.com/agentdesk/leads-api/internal/storage"
	"github.com/agentdesk/leads-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testServices struct {
	db         *gorm.DB
	stagingDir string
	auth       *service.AuthService
	agents     *service.AgentService
	leads      *service.LeadService
	imports    *service.ImportService
	counters   *service.CounterService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	userRepo := repository.NewUserRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret:     "service-test-secret-that-is-long-enough",
		TokenTTLHours: 1,
		Issuer:        "leads-api-test",
	})

	stagingDir := t.TempDir()
	store, err := storage.NewLocalStorage(stagingDir)
	require.NoError(t, err)

	return &testServices{
		db:         db,
		stagingDir: stagingDir,
		auth:       service.NewAuthService(userRepo, tokens, hasher, logger),
		agents:     service.NewAgentService(agentRepo, leadRepo, hasher, logger),
		leads:      service.NewLeadService(db, leadRepo, agentRepo, logger),
		imports:    service.NewImportService(db, leadRepo, agentRepo, store, ingest.NewNormalizer(), logger),
		counters:   service.NewCounterService(agentRepo, logger),
	}
}

// stagedFiles counts files left in the staging directory
func stagedFiles(t *testing.T, dir string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}
