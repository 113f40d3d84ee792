// Package distribution splits imported lead candidates across an owner's agents.
package distribution

import (
	"errors"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/ingest"
	"github.com/google/uuid"
)

var (
	ErrNoAgents     = errors.New("no agents to distribute to")
	ErrNoCandidates = errors.New("no candidates to distribute")
)

// Share is the number of leads one agent received in a distribution
type Share struct {
	AgentID uuid.UUID
	Count   int
}

// Plan is the outcome of one distribution: leads ready to persist plus the
// per-agent shares in roster order.
type Plan struct {
	Leads  []domain.Lead
	Shares []Share
}

// Shares splits total items over agents as evenly as possible. The first
// total%agents entries receive one extra item.
func Shares(total, agents int) []int {
	if agents <= 0 {
		return nil
	}
	base := total / agents
	remainder := total % agents
	shares := make([]int, agents)
	for i := range shares {
		shares[i] = base
		if i < remainder {
			shares[i]++
		}
	}
	return shares
}

// Allocate assigns candidates to agents in roster order. Candidates are taken
// contiguously from the front so each agent keeps the file order of its leads.
// Agents with a zero share get no leads and are still reported.
func Allocate(candidates []ingest.Candidate, agents []uuid.UUID, ownerID uuid.UUID) (Plan, error) {
	if len(agents) == 0 {
		return Plan{}, ErrNoAgents
	}
	if len(candidates) == 0 {
		return Plan{}, ErrNoCandidates
	}

	shares := Shares(len(candidates), len(agents))
	plan := Plan{
		Leads:  make([]domain.Lead, 0, len(candidates)),
		Shares: make([]Share, len(agents)),
	}

	next := 0
	for i, agentID := range agents {
		plan.Shares[i] = Share{AgentID: agentID, Count: shares[i]}
		for _, c := range candidates[next : next+shares[i]] {
			plan.Leads = append(plan.Leads, domain.Lead{
				OwnerID:    ownerID,
				AssignedTo: agentID,
				Name:       c.Name,
				Email:      c.Email,
				Mobile:     c.Mobile,
				Notes:      c.Notes,
				Status:     domain.LeadStatusNew,
				Source:     c.Source,
			})
		}
		next += shares[i]
	}
	return plan, nil
}
