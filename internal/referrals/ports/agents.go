// Package ports declares the outbound interfaces the referrals module needs
// from other bounded contexts. Adapters in internal/adapters satisfy them.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// AgentCandidate is the minimal agent view the assignment policy works with.
type AgentCandidate struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Phone         string
	StatesCovered []string
	IsActive      bool
}

// AgentProvider supplies agent data from the agents bounded context.
type AgentProvider interface {
	// ListActive returns all active agents in a stable order.
	ListActive(ctx context.Context) ([]AgentCandidate, error)
	// GetByID returns one agent regardless of active flag.
	GetByID(ctx context.Context, id uuid.UUID) (AgentCandidate, error)
}
