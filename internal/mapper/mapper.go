package mapper

import (
	"time"

	"github.com/agentdesk/leads-api/internal/distribution"
	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/ingest"
	"github.com/google/uuid"
)

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// ToAgentDTO converts Agent to AgentDTO; the password hash never leaves the domain
func ToAgentDTO(agent *domain.Agent) domain.AgentDTO {
	return domain.AgentDTO{
		ID:                 agent.ID,
		Name:               agent.Name,
		Email:              agent.Email,
		Mobile:             agent.Mobile,
		AssignedLeadsCount: agent.AssignedLeadsCount,
		CreatedAt:          agent.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          agent.UpdatedAt.Format(time.RFC3339),
	}
}

// ToAgentDTOs converts a slice of agents
func ToAgentDTOs(agents []domain.Agent) []domain.AgentDTO {
	dtos := make([]domain.AgentDTO, len(agents))
	for i := range agents {
		dtos[i] = ToAgentDTO(&agents[i])
	}
	return dtos
}

// ToAgentSummaryDTO converts Agent to the summary embedded in lead responses
func ToAgentSummaryDTO(agent *domain.Agent) *domain.AgentSummaryDTO {
	if agent == nil {
		return nil
	}
	return &domain.AgentSummaryDTO{
		ID:     agent.ID,
		Name:   agent.Name,
		Email:  agent.Email,
		Mobile: agent.Mobile,
	}
}

// ToLeadDTO converts Lead to LeadDTO
func ToLeadDTO(lead *domain.Lead) domain.LeadDTO {
	return domain.LeadDTO{
		ID:         lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Mobile:     lead.Mobile,
		Notes:      lead.Notes,
		Status:     lead.Status,
		Source:     lead.Source,
		AssignedTo: ToAgentSummaryDTO(lead.Agent),
		CreatedAt:  lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  lead.UpdatedAt.Format(time.RFC3339),
	}
}

// ToLeadDTOs converts a slice of leads
func ToLeadDTOs(leads []domain.Lead) []domain.LeadDTO {
	dtos := make([]domain.LeadDTO, len(leads))
	for i := range leads {
		dtos[i] = ToLeadDTO(&leads[i])
	}
	return dtos
}

// ToAgentShareDTOs pairs distribution shares with agent names, in roster order
func ToAgentShareDTOs(shares []distribution.Share, roster []domain.Agent) []domain.AgentShareDTO {
	names := make(map[uuid.UUID]string, len(roster))
	for _, a := range roster {
		names[a.ID] = a.Name
	}
	dtos := make([]domain.AgentShareDTO, len(shares))
	for i, s := range shares {
		dtos[i] = domain.AgentShareDTO{
			AgentID:   s.AgentID,
			AgentName: names[s.AgentID],
			Count:     s.Count,
		}
	}
	return dtos
}

// ToRejectedRowDTOs converts normalizer rejections
func ToRejectedRowDTOs(rejected []ingest.Rejection) []domain.RejectedRowDTO {
	if len(rejected) == 0 {
		return nil
	}
	dtos := make([]domain.RejectedRowDTO, len(rejected))
	for i, r := range rejected {
		dtos[i] = domain.RejectedRowDTO{RowNumber: r.RowNumber, Reason: r.Reason}
	}
	return dtos
}
