package repository

import (
	"context"
	"strings"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// WithTx returns a repository bound to an open transaction
func (r *AgentRepository) WithTx(tx *gorm.DB) *AgentRepository {
	return &AgentRepository{db: tx}
}

func (r *AgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

// GetByID returns the caller's agent; other owners' agents are not found
func (r *AgentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	var agent domain.Agent
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyOwnerFilter(ctx, query)
	if err := query.First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// EmailTaken reports whether any agent other than exclude uses email.
// Agent emails are unique across all owners.
func (r *AgentRepository) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Agent{}).Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// List returns the caller's agents, newest first
func (r *AgentRepository) List(ctx context.Context) ([]domain.Agent, error) {
	var agents []domain.Agent
	query := ApplyOwnerFilter(ctx, r.db.WithContext(ctx).Model(&domain.Agent{}))
	err := query.Order("created_at DESC").Order("id").Find(&agents).Error
	return agents, err
}

// Roster returns the caller's agents in creation order. Distribution hands
// remainder leads to the front of this list.
func (r *AgentRepository) Roster(ctx context.Context) ([]domain.Agent, error) {
	var agents []domain.Agent
	query := ApplyOwnerFilter(ctx, r.db.WithContext(ctx).Model(&domain.Agent{}))
	err := query.Order("created_at ASC").Order("id").Find(&agents).Error
	return agents, err
}

// Update writes the editable columns; the lead counter is never written here
func (r *AgentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	query := r.db.WithContext(ctx).Model(agent).
		Select("name", "email", "mobile", "password_hash", "updated_at").
		Where("id = ?", agent.ID)
	query = ApplyOwnerFilter(ctx, query)
	result := query.Updates(agent)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AgentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := ApplyOwnerFilter(ctx, r.db.WithContext(ctx).Where("id = ?", id))
	result := query.Delete(&domain.Agent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustLeadCount adds delta to an agent's counter in a single statement so
// concurrent adjustments never lose updates. The counter is floored at zero.
func (r *AgentRepository) AdjustLeadCount(ctx context.Context, id uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&domain.Agent{}).
		Where("id = ?", id).
		UpdateColumn("assigned_leads_count",
			gorm.Expr("CASE WHEN assigned_leads_count + ? < 0 THEN 0 ELSE assigned_leads_count + ? END", delta, delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CounterDrift is an agent whose stored counter disagrees with its leads
type CounterDrift struct {
	AgentID uuid.UUID
	OwnerID uuid.UUID
	Stored  int
	Actual  int
}

// FindCounterDrift compares every agent's counter with a count over leads
func (r *AgentRepository) FindCounterDrift(ctx context.Context) ([]CounterDrift, error) {
	var rows []struct {
		AgentID uuid.UUID
		OwnerID uuid.UUID
		Stored  int
		Actual  int
	}
	err := r.db.WithContext(ctx).
		Table("agents AS a").
		Select("a.id AS agent_id, a.owner_id AS owner_id, a.assigned_leads_count AS stored, COUNT(l.id) AS actual").
		Joins("LEFT JOIN leads AS l ON l.assigned_to = a.id").
		Group("a.id, a.owner_id, a.assigned_leads_count").
		Having("a.assigned_leads_count <> COUNT(l.id)").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	drift := make([]CounterDrift, len(rows))
	for i, row := range rows {
		drift[i] = CounterDrift(row)
	}
	return drift, nil
}

// SetLeadCount overwrites a counter only if it still holds expected, so a
// concurrent adjustment is never clobbered. It reports whether a row changed.
func (r *AgentRepository) SetLeadCount(ctx context.Context, id uuid.UUID, expected, actual int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Agent{}).
		Where("id = ? AND assigned_leads_count = ?", id, expected).
		UpdateColumn("assigned_leads_count", actual)
	return result.RowsAffected > 0, result.Error
}
