// Package adapters bridges bounded contexts: it satisfies the outbound
// interfaces one module declares with the services another module provides.
package adapters

import (
	"context"

	agentsrepo "usahudhomes_backend/internal/agents/repository"
	"usahudhomes_backend/internal/referrals/ports"

	"github.com/google/uuid"
)

// AgentProvider exposes the agents repository to the referral assignment
// policy through the narrow view it needs.
type AgentProvider struct {
	repo agentsrepo.Repository
}

// NewAgentProvider creates an AgentProvider backed by the agents repository.
func NewAgentProvider(repo agentsrepo.Repository) *AgentProvider {
	return &AgentProvider{repo: repo}
}

// ListActive returns active agents in creation order, the stable order the
// assignment policy iterates.
func (p *AgentProvider) ListActive(ctx context.Context) ([]ports.AgentCandidate, error) {
	agents, err := p.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]ports.AgentCandidate, 0, len(agents))
	for _, agent := range agents {
		candidates = append(candidates, toCandidate(agent))
	}
	return candidates, nil
}

// GetByID returns one agent regardless of active flag.
func (p *AgentProvider) GetByID(ctx context.Context, id uuid.UUID) (ports.AgentCandidate, error) {
	agent, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return ports.AgentCandidate{}, err
	}
	return toCandidate(agent), nil
}

func toCandidate(agent agentsrepo.Agent) ports.AgentCandidate {
	return ports.AgentCandidate{
		ID:            agent.ID,
		Name:          agent.Name,
		Email:         agent.Email,
		Phone:         agent.Phone,
		StatesCovered: agent.StatesCovered,
		IsActive:      agent.IsActive,
	}
}

// Compile-time check that AgentProvider satisfies the referrals port.
var _ ports.AgentProvider = (*AgentProvider)(nil)
