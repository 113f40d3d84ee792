package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentdesk/leads-api/internal/auth"
	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/mapper"
	"github.com/agentdesk/leads-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AgentService struct {
	agentRepo *repository.AgentRepository
	leadRepo  *repository.LeadRepository
	hasher    *auth.PasswordHasher
	logger    *zap.Logger
}

func NewAgentService(
	agentRepo *repository.AgentRepository,
	leadRepo *repository.LeadRepository,
	hasher *auth.PasswordHasher,
	logger *zap.Logger,
) *AgentService {
	return &AgentService{
		agentRepo: agentRepo,
		leadRepo:  leadRepo,
		hasher:    hasher,
		logger:    logger,
	}
}

func (s *AgentService) Create(ctx context.Context, req *domain.CreateAgentRequest) (*domain.AgentDTO, error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	taken, err := s.agentRepo.EmailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check agent email: %w", err)
	}
	if taken {
		return nil, ErrAgentEmailTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	agent := &domain.Agent{
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Mobile:       strings.TrimSpace(req.Mobile),
		PasswordHash: hash,
	}
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAgentEmailTaken
		}
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	s.logger.Info("agent created",
		zap.String("agent_id", agent.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)

	dto := mapper.ToAgentDTO(agent)
	return &dto, nil
}

func (s *AgentService) List(ctx context.Context) ([]domain.AgentDTO, error) {
	agents, err := s.agentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	return mapper.ToAgentDTOs(agents), nil
}

func (s *AgentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AgentDTO, error) {
	agent, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToAgentDTO(agent)
	return &dto, nil
}

// Update applies a partial update. The lead counter is not editable.
func (s *AgentService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAgentRequest) (*domain.AgentDTO, error) {
	agent, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		agent.Name = strings.TrimSpace(*req.Name)
	}
	if req.Mobile != nil {
		agent.Mobile = strings.TrimSpace(*req.Mobile)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != agent.Email {
			taken, err := s.agentRepo.EmailTaken(ctx, email, agent.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check agent email: %w", err)
			}
			if taken {
				return nil, ErrAgentEmailTaken
			}
			agent.Email = email
		}
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		agent.PasswordHash = hash
	}

	if err := s.agentRepo.Update(ctx, agent); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAgentNotFound
		}
		if repository.IsUniqueViolation(err) {
			return nil, ErrAgentEmailTaken
		}
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}

	// reload so the counter reflects concurrent lead changes
	return s.GetByID(ctx, id)
}

// Delete removes an agent that has no assigned leads. Agents that still have
// leads are rejected so no lead is left pointing at a missing agent.
func (s *AgentService) Delete(ctx context.Context, id uuid.UUID) error {
	agent, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.leadRepo.CountByAgent(ctx, agent.ID)
	if err != nil {
		return fmt.Errorf("failed to count agent leads: %w", err)
	}
	if count > 0 {
		return ErrAgentHasLeads
	}

	if err := s.agentRepo.Delete(ctx, agent.ID); err != nil {
		if repository.IsNotFound(err) {
			return ErrAgentNotFound
		}
		// a lead assigned after the count still blocks the delete through the FK
		if repository.IsForeignKeyViolation(err) {
			return ErrAgentHasLeads
		}
		return fmt.Errorf("failed to delete agent: %w", err)
	}

	s.logger.Info("agent deleted", zap.String("agent_id", agent.ID.String()))
	return nil
}

func (s *AgentService) getOwned(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	agent, err := s.agentRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return agent, nil
}
