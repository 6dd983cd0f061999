// Package repository provides data access for the agent directory.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Agent is a licensed broker eligible to receive referrals.
type Agent struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Phone         string
	LicenseNumber string
	LicenseState  string
	Specialties   []string
	StatesCovered []string
	IsActive      bool
	IsAdmin       bool
	TotalListings int
	TotalSales    int
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateParams holds the fields for a new agent row.
type CreateParams struct {
	Name          string
	Email         string
	Phone         string
	LicenseNumber string
	LicenseState  string
	Specialties   []string
	StatesCovered []string
	IsAdmin       bool
	PasswordHash  string
}

// UpdateParams holds the optional fields for an agent update.
// Nil fields are left unchanged.
type UpdateParams struct {
	ID            uuid.UUID
	Name          *string
	Phone         *string
	LicenseNumber *string
	LicenseState  *string
	Specialties   []string
	StatesCovered []string
}

// Repository defines data access for agents.
type Repository interface {
	// Create inserts a new agent.
	Create(ctx context.Context, params CreateParams) (Agent, error)
	// Update modifies an existing agent's profile fields.
	Update(ctx context.Context, params UpdateParams) (Agent, error)
	// GetByID retrieves an agent regardless of active flag.
	GetByID(ctx context.Context, id uuid.UUID) (Agent, error)
	// GetByEmail retrieves an agent by email, for login.
	GetByEmail(ctx context.Context, email string) (Agent, error)
	// List retrieves all agents ordered by name.
	List(ctx context.Context) ([]Agent, error)
	// ListActive retrieves only active agents ordered by creation time,
	// the stable order the assignment policy iterates.
	ListActive(ctx context.Context) ([]Agent, error)
	// SetActive soft-activates or deactivates an agent. Agents are never
	// hard-deleted.
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) error
}
