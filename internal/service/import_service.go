package service

import (
	"context"
	"fmt"
	"io"

	"github.com/agentdesk/leads-api/internal/distribution"
	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/ingest"
	"github.com/agentdesk/leads-api/internal/mapper"
	"github.com/agentdesk/leads-api/internal/repository"
	"github.com/agentdesk/leads-api/internal/storage"
	"github.com/agentdesk/leads-api/internal/telemetry"
	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImportService turns an uploaded lead file into distributed leads
type ImportService struct {
	db         *gorm.DB
	leadRepo   *repository.LeadRepository
	agentRepo  *repository.AgentRepository
	storage    storage.Storage
	normalizer *ingest.Normalizer
	log        *otelzap.Logger
}

func NewImportService(
	db *gorm.DB,
	leadRepo *repository.LeadRepository,
	agentRepo *repository.AgentRepository,
	store storage.Storage,
	normalizer *ingest.Normalizer,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		db:         db,
		leadRepo:   leadRepo,
		agentRepo:  agentRepo,
		storage:    store,
		normalizer: normalizer,
		log:        otelzap.New(logger),
	}
}

// Upload stages the file, normalizes its rows and spreads the accepted leads
// over the caller's agents. Nothing is persisted unless every lead and every
// counter increment commits together. The staged copy is always removed.
func (s *ImportService) Upload(ctx context.Context, filename string, data io.Reader) (resp *domain.UploadLeadsResponse, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ImportService.Upload")
	span.SetAttributes(attribute.String("upload.filename", filename))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	kind, err := ingest.KindForFilename(filename)
	if err != nil {
		return nil, err
	}

	storagePath, size, err := s.storage.Upload(ctx, filename, kind.ContentType(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	defer s.discard(ctx, storagePath)

	result, err := s.read(ctx, filename, storagePath)
	if err != nil {
		return nil, err
	}

	s.log.Ctx(ctx).Info("lead file normalized",
		zap.String("owner_id", ownerID.String()),
		zap.String("kind", string(kind)),
		zap.Int64("size", size),
		zap.Int("accepted", len(result.Accepted)),
		zap.Int("rejected", len(result.Rejected)),
	)

	if len(result.Accepted) == 0 {
		return nil, ErrNoValidLeads
	}

	roster, err := s.agentRepo.Roster(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load agents: %w", err)
	}
	if len(roster) == 0 {
		return nil, ErrNoAgents
	}

	agentIDs := make([]uuid.UUID, len(roster))
	for i := range roster {
		agentIDs[i] = roster[i].ID
	}

	plan, err := distribution.Allocate(result.Accepted, agentIDs, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate leads: %w", err)
	}

	if err := s.persist(ctx, plan); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("upload.leads", len(plan.Leads)),
		attribute.Int("upload.agents", len(roster)),
	)
	s.log.Ctx(ctx).Info("leads distributed",
		zap.String("owner_id", ownerID.String()),
		zap.Int("leads", len(plan.Leads)),
		zap.Int("agents", len(roster)),
	)

	return &domain.UploadLeadsResponse{
		Success:      true,
		Message:      fmt.Sprintf("%d leads uploaded and distributed successfully", len(plan.Leads)),
		TotalLeads:   len(plan.Leads),
		AgentsCount:  len(roster),
		SkippedRows:  len(result.Rejected),
		RejectedRows: mapper.ToRejectedRowDTOs(result.Rejected),
		Distribution: mapper.ToAgentShareDTOs(plan.Shares, roster),
	}, nil
}

func (s *ImportService) read(ctx context.Context, filename, storagePath string) (ingest.Result, error) {
	rc, err := s.storage.Download(ctx, storagePath)
	if err != nil {
		return ingest.Result{}, fmt.Errorf("failed to open staged upload: %w", err)
	}
	defer rc.Close()

	return s.normalizer.Read(ctx, filename, rc)
}

func (s *ImportService) persist(ctx context.Context, plan distribution.Plan) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.leadRepo.WithTx(tx).CreateBatch(ctx, plan.Leads); err != nil {
			return fmt.Errorf("failed to insert leads: %w", err)
		}
		agents := s.agentRepo.WithTx(tx)
		for _, share := range plan.Shares {
			if err := agents.AdjustLeadCount(ctx, share.AgentID, share.Count); err != nil {
				return fmt.Errorf("failed to update counter for agent %s: %w", share.AgentID, err)
			}
		}
		return nil
	})
}

// discard removes the staged copy even when the request was canceled
func (s *ImportService) discard(ctx context.Context, storagePath string) {
	if err := s.storage.Delete(context.WithoutCancel(ctx), storagePath); err != nil {
		s.log.Ctx(ctx).Warn("failed to remove staged upload",
			zap.String("path", storagePath),
			zap.Error(err),
		)
	}
}

// Preview normalizes a file without staging or persisting anything
func (s *ImportService) Preview(ctx context.Context, filename string, data io.Reader) (ingest.Result, error) {
	return s.normalizer.Read(ctx, filename, data)
}
