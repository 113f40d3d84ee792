package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/mapper"
	"github.com/agentdesk/leads-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LeadService struct {
	db        *gorm.DB
	leadRepo  *repository.LeadRepository
	agentRepo *repository.AgentRepository
	logger    *zap.Logger
}

func NewLeadService(
	db *gorm.DB,
	leadRepo *repository.LeadRepository,
	agentRepo *repository.AgentRepository,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		db:        db,
		leadRepo:  leadRepo,
		agentRepo: agentRepo,
		logger:    logger,
	}
}

// ensureAgentOwned verifies the agent exists and belongs to the caller.
// It runs on every write path that sets assigned_to.
func ensureAgentOwned(ctx context.Context, agents *repository.AgentRepository, agentID uuid.UUID) (*domain.Agent, error) {
	agent, err := agents.GetByID(ctx, agentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAssignedAgentNotFound
		}
		return nil, fmt.Errorf("failed to get assigned agent: %w", err)
	}
	return agent, nil
}

// Create stores a manually entered lead and bumps the agent's counter
func (s *LeadService) Create(ctx context.Context, req *domain.CreateLeadRequest) (*domain.LeadDTO, error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		OwnerID:    ownerID,
		AssignedTo: req.AssignedTo,
		Name:       strings.TrimSpace(req.Name),
		Email:      normalizeEmail(req.Email),
		Mobile:     strings.TrimSpace(req.Mobile),
		Notes:      strings.TrimSpace(req.Notes),
		Status:     req.Status,
		Source:     domain.LeadSourceManual,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		agents := s.agentRepo.WithTx(tx)
		if _, err := ensureAgentOwned(ctx, agents, req.AssignedTo); err != nil {
			return err
		}
		if err := s.leadRepo.WithTx(tx).Create(ctx, lead); err != nil {
			return fmt.Errorf("failed to create lead: %w", err)
		}
		return agents.AdjustLeadCount(ctx, req.AssignedTo, 1)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.String("assigned_to", lead.AssignedTo.String()),
	)

	return s.GetByID(ctx, lead.ID)
}

func (s *LeadService) List(ctx context.Context, filters domain.LeadFilters) ([]domain.LeadDTO, error) {
	leads, err := s.leadRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return mapper.ToLeadDTOs(leads), nil
}

// ListByAgent returns leads assigned to one of the caller's agents.
// A foreign or unknown agent yields an empty list.
func (s *LeadService) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.LeadDTO, error) {
	leads, err := s.leadRepo.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent leads: %w", err)
	}
	return mapper.ToLeadDTOs(leads), nil
}

func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// Update applies a partial update. Blank strings leave a field unchanged,
// notes may be cleared. A changed assignee moves one count from the previous
// agent to the new one; assigning the current agent again changes nothing.
func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateLeadRequest) (*domain.LeadDTO, error) {
	var previous, next uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leads := s.leadRepo.WithTx(tx)
		agents := s.agentRepo.WithTx(tx)

		lead, err := leads.GetByID(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrLeadNotFound
			}
			return fmt.Errorf("failed to get lead: %w", err)
		}

		applyLeadChanges(lead, req)

		previous = lead.AssignedTo
		if req.AssignedTo != nil && *req.AssignedTo != uuid.Nil && *req.AssignedTo != lead.AssignedTo {
			if _, err := ensureAgentOwned(ctx, agents, *req.AssignedTo); err != nil {
				return err
			}
			lead.AssignedTo = *req.AssignedTo
			lead.Agent = nil
		}
		next = lead.AssignedTo

		if err := leads.Update(ctx, lead); err != nil {
			if repository.IsNotFound(err) {
				return ErrLeadNotFound
			}
			return fmt.Errorf("failed to update lead: %w", err)
		}

		if previous == next {
			return nil
		}
		if err := agents.AdjustLeadCount(ctx, previous, -1); err != nil && !repository.IsNotFound(err) {
			return err
		}
		return agents.AdjustLeadCount(ctx, next, 1)
	})
	if err != nil {
		return nil, err
	}

	if previous != next {
		s.logger.Info("lead reassigned",
			zap.String("lead_id", id.String()),
			zap.String("from_agent", previous.String()),
			zap.String("to_agent", next.String()),
		)
	}

	return s.GetByID(ctx, id)
}

func applyLeadChanges(lead *domain.Lead, req *domain.UpdateLeadRequest) {
	if v := trimmed(req.Name); v != "" {
		lead.Name = v
	}
	if v := trimmed(req.Email); v != "" {
		lead.Email = strings.ToLower(v)
	}
	if v := trimmed(req.Mobile); v != "" {
		lead.Mobile = v
	}
	if req.Notes != nil {
		lead.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Status != nil && *req.Status != "" {
		lead.Status = *req.Status
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Delete removes a lead and releases its slot on the assigned agent
func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leads := s.leadRepo.WithTx(tx)

		lead, err := leads.GetByID(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrLeadNotFound
			}
			return fmt.Errorf("failed to get lead: %w", err)
		}

		if err := leads.Delete(ctx, lead.ID); err != nil {
			if repository.IsNotFound(err) {
				return ErrLeadNotFound
			}
			return fmt.Errorf("failed to delete lead: %w", err)
		}

		err = s.agentRepo.WithTx(tx).AdjustLeadCount(ctx, lead.AssignedTo, -1)
		if err != nil && !repository.IsNotFound(err) {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("lead deleted", zap.String("lead_id", id.String()))
	return nil
}
