package repository

import (
	"context"
	"strings"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const leadInsertBatchSize = 500

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// WithTx returns a repository bound to an open transaction
func (r *LeadRepository) WithTx(tx *gorm.DB) *LeadRepository {
	return &LeadRepository{db: tx}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(lead).Error
}

// CreateBatch inserts leads in file order using multi-row inserts
func (r *LeadRepository) CreateBatch(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&leads, leadInsertBatchSize).Error
}

// GetByID returns the caller's lead with its agent loaded
func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	query := r.db.WithContext(ctx).Preload("Agent").Where("id = ?", id)
	query = ApplyOwnerFilter(ctx, query)
	if err := query.First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns the caller's leads, newest first
func (r *LeadRepository) List(ctx context.Context, filters domain.LeadFilters) ([]domain.Lead, error) {
	var leads []domain.Lead
	query := ApplyOwnerFilter(ctx, r.db.WithContext(ctx).Model(&domain.Lead{}))

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR mobile LIKE ?", pattern, pattern, pattern)
	}

	err := query.Preload("Agent").Order("created_at DESC").Order("id").Find(&leads).Error
	return leads, err
}

// ListByAgent returns the caller's leads assigned to one agent, newest first
func (r *LeadRepository) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Lead, error) {
	var leads []domain.Lead
	query := r.db.WithContext(ctx).Model(&domain.Lead{}).Where("assigned_to = ?", agentID)
	query = ApplyOwnerFilter(ctx, query)
	err := query.Preload("Agent").Order("created_at DESC").Order("id").Find(&leads).Error
	return leads, err
}

// Update writes every editable column of the lead, including assigned_to
func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	query := r.db.WithContext(ctx).Model(lead).Omit(clause.Associations).
		Select("name", "email", "mobile", "notes", "status", "assigned_to", "updated_at").
		Where("id = ?", lead.ID)
	query = ApplyOwnerFilter(ctx, query)
	result := query.Updates(lead)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := ApplyOwnerFilter(ctx, r.db.WithContext(ctx).Where("id = ?", id))
	result := query.Delete(&domain.Lead{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByAgent counts leads assigned to an agent regardless of owner
func (r *LeadRepository) CountByAgent(ctx context.Context, agentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).Where("assigned_to = ?", agentID).Count(&count).Error
	return count, err
}
