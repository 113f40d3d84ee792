package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/repository"
	"github.com/agentdesk/leads-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentRepository_OwnerScoping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAgentRepository(db)

	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	agent := testutil.CreateTestAgent(t, db, alice, "a1")

	got, err := repo.GetByID(testutil.OwnerContext(alice), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.ID, got.ID)

	_, err = repo.GetByID(testutil.OwnerContext(bob), agent.ID)
	assert.True(t, repository.IsNotFound(err))

	_, err = repo.GetByID(context.Background(), agent.ID)
	assert.True(t, repository.IsNotFound(err), "unauthenticated context must see nothing")

	err = repo.Delete(testutil.OwnerContext(bob), agent.ID)
	assert.True(t, repository.IsNotFound(err))
	testutil.ReloadAgent(t, db, agent.ID)
}

func TestAgentRepository_RosterOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAgentRepository(db)
	owner := testutil.CreateTestUser(t, db, "owner")
	other := testutil.CreateTestUser(t, db, "other")

	first := testutil.CreateTestAgent(t, db, owner, "first")
	testutil.CreateTestAgent(t, db, other, "foreign")
	second := testutil.CreateTestAgent(t, db, owner, "second")
	third := testutil.CreateTestAgent(t, db, owner, "third")

	roster, err := repo.Roster(testutil.OwnerContext(owner))
	require.NoError(t, err)
	require.Len(t, roster, 3)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, []uuid.UUID{roster[0].ID, roster[1].ID, roster[2].ID})

	list, err := repo.List(testutil.OwnerContext(owner))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, third.ID, list[0].ID, "list is newest first")
}

func TestAgentRepository_EmailTaken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAgentRepository(db)
	owner := testutil.CreateTestUser(t, db, "owner")
	agent := testutil.CreateTestAgent(t, db, owner, "a1")

	taken, err := repo.EmailTaken(context.Background(), agent.Email, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailTaken(context.Background(), agent.Email, agent.ID)
	require.NoError(t, err)
	assert.False(t, taken, "an agent does not collide with itself")

	dup := &domain.Agent{OwnerID: owner.ID, Name: "dup", Email: agent.Email, Mobile: "1", PasswordHash: "x"}
	err = repo.Create(context.Background(), dup)
	assert.True(t, repository.IsUniqueViolation(err))
}

func TestAgentRepository_AdjustLeadCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAgentRepository(db)
	owner := testutil.CreateTestUser(t, db, "owner")
	agent := testutil.CreateTestAgent(t, db, owner, "a1")
	ctx := context.Background()

	require.NoError(t, repo.AdjustLeadCount(ctx, agent.ID, 4))
	require.NoError(t, repo.AdjustLeadCount(ctx, agent.ID, -1))
	assert.Equal(t, 3, testutil.ReloadAgent(t, db, agent.ID).AssignedLeadsCount)

	require.NoError(t, repo.AdjustLeadCount(ctx, agent.ID, -10))
	assert.Equal(t, 0, testutil.ReloadAgent(t, db, agent.ID).AssignedLeadsCount, "counter is floored at zero")

	err := repo.AdjustLeadCount(ctx, uuid.New(), 1)
	assert.True(t, repository.IsNotFound(err))
}

func TestAgentRepository_AdjustLeadCountConcurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAgentRepository(db)
	owner := testutil.CreateTestUser(t, db, "owner")
	agent := testutil.CreateTestAgent(t, db, owner, "a1")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.AdjustLeadCount(context.Background(), agent.ID, 1))
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, testutil.ReloadAgent(t, db, agent.ID).AssignedLeadsCount)
}

func TestAgentRepository_CounterDrift(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAgentRepository(db)
	owner := testutil.CreateTestUser(t, db, "owner")
	ctx := context.Background()

	clean := testutil.CreateTestAgent(t, db, owner, "clean")
	drifted := testutil.CreateTestAgent(t, db, owner, "drifted")

	testutil.CreateTestLead(t, db, clean, "l1")
	require.NoError(t, repo.AdjustLeadCount(ctx, clean.ID, 1))
	testutil.CreateTestLead(t, db, drifted, "l2")
	testutil.CreateTestLead(t, db, drifted, "l3")
	require.NoError(t, repo.AdjustLeadCount(ctx, drifted.ID, 5))

	drift, err := repo.FindCounterDrift(ctx)
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, drifted.ID, drift[0].AgentID)
	assert.Equal(t, owner.ID, drift[0].OwnerID)
	assert.Equal(t, 5, drift[0].Stored)
	assert.Equal(t, 2, drift[0].Actual)

	changed, err := repo.SetLeadCount(ctx, drifted.ID, 4, 2)
	require.NoError(t, err)
	assert.False(t, changed, "stale expected value must not overwrite")

	changed, err = repo.SetLeadCount(ctx, drifted.ID, 5, 2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, testutil.ReloadAgent(t, db, drifted.ID).AssignedLeadsCount)
}
