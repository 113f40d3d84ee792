// Package testutil provides database fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agentdesk/leads-api/internal/auth"
	"github.com/agentdesk/leads-api/internal/database"
	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with the schema migrated
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "failed to open sqlite test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// OwnerContext returns a context authenticated as user
func OwnerContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
}

// CreateTestUser inserts a user with a unique email
func CreateTestUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestAgent inserts an agent owned by owner. Agents created in sequence
// get increasing creation times so roster order is deterministic.
func CreateTestAgent(t *testing.T, db *gorm.DB, owner *domain.User, name string) *domain.Agent {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&domain.Agent{}).Count(&count).Error)

	agent := &domain.Agent{
		OwnerID:      owner.ID,
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Mobile:       "5550000",
		PasswordHash: "not-a-real-hash",
	}
	agent.CreatedAt = time.Date(2024, 1, 1, 0, 0, int(count), 0, time.UTC)
	require.NoError(t, db.Create(agent).Error)
	return agent
}

// CreateTestLead inserts a lead assigned to agent without touching its counter
func CreateTestLead(t *testing.T, db *gorm.DB, agent *domain.Agent, name string) *domain.Lead {
	t.Helper()
	lead := &domain.Lead{
		OwnerID:    agent.OwnerID,
		AssignedTo: agent.ID,
		Name:       name,
		Email:      fmt.Sprintf("%s@example.com", name),
		Mobile:     "5551111",
		Status:     domain.LeadStatusNew,
		Source:     domain.LeadSourceManual,
	}
	require.NoError(t, db.Omit("Agent").Create(lead).Error)
	return lead
}

// ReloadAgent reads an agent straight from the database
func ReloadAgent(t *testing.T, db *gorm.DB, id uuid.UUID) *domain.Agent {
	t.Helper()
	var agent domain.Agent
	require.NoError(t, db.First(&agent, "id = ?", id).Error)
	return &agent
}
