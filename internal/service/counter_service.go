package service

import (
	"context"
	"fmt"

	"github.com/agentdesk/leads-api/internal/repository"
	"go.uber.org/zap"
)

// ReconcileReport summarizes one counter reconciliation pass
type ReconcileReport struct {
	Checked   int
	Corrected int
	Skipped   int
}

// CounterService repairs assigned_leads_count values that drifted from the
// number of leads actually assigned
type CounterService struct {
	agentRepo *repository.AgentRepository
	logger    *zap.Logger
}

func NewCounterService(agentRepo *repository.AgentRepository, logger *zap.Logger) *CounterService {
	return &CounterService{
		agentRepo: agentRepo,
		logger:    logger,
	}
}

// Reconcile rewrites every drifted counter. A counter that changed since it
// was read is skipped and picked up by the next pass.
func (s *CounterService) Reconcile(ctx context.Context) (ReconcileReport, error) {
	drift, err := s.agentRepo.FindCounterDrift(ctx)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("failed to find counter drift: %w", err)
	}

	report := ReconcileReport{Checked: len(drift)}
	for _, d := range drift {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		changed, err := s.agentRepo.SetLeadCount(ctx, d.AgentID, d.Stored, d.Actual)
		if err != nil {
			return report, fmt.Errorf("failed to correct counter for agent %s: %w", d.AgentID, err)
		}
		if !changed {
			report.Skipped++
			continue
		}

		report.Corrected++
		s.logger.Warn("corrected agent lead counter",
			zap.String("agent_id", d.AgentID.String()),
			zap.String("owner_id", d.OwnerID.String()),
			zap.Int("stored", d.Stored),
			zap.Int("actual", d.Actual),
		)
	}

	return report, nil
}
