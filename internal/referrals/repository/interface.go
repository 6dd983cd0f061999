// Package repository provides data access for the referrals bounded context.
package repository

import (
	"context"
	"time"

	"usahudhomes_backend/internal/referrals/domain"

	"github.com/google/uuid"
)

// CreateConsultationParams holds the fields for a new consultation row.
type CreateConsultationParams struct {
	CustomerID      *uuid.UUID
	PropertyID      *uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	PropertyAddress string
	CaseNumber      string
	Message         string
	State           string
	Source          string
}

// AppendActivityParams holds the fields for one audit record.
type AppendActivityParams struct {
	ConsultationID uuid.UUID
	AgentID        *uuid.UUID
	Type           domain.ActivityType
	Description    string
	Metadata       map[string]string
}

// Repository defines data access for consultations, activities, and customers.
type Repository interface {
	// CreateConsultation inserts a consultation in the unassigned state.
	CreateConsultation(ctx context.Context, params CreateConsultationParams) (domain.Consultation, error)

	// GetByID retrieves a consultation with its embedded agent, customer,
	// and property relations.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Consultation, error)

	// MarkReferred assigns an agent and opens a response window. Last write
	// wins: any previous assignment or terminal state is overwritten so
	// declined and expired consultations can be manually re-referred.
	MarkReferred(ctx context.Context, id, agentID uuid.UUID, assignedAt, expiresAt time.Time) (domain.Consultation, error)

	// MarkAccepted records acceptance. The update is conditional on both the
	// caller's agent owning the referral and the referral still awaiting a
	// response; failures are distinguished as not-found, forbidden, or conflict.
	MarkAccepted(ctx context.Context, id, agentID uuid.UUID, at time.Time) (domain.Consultation, error)

	// MarkDeclined records a decline under the same guard as MarkAccepted.
	MarkDeclined(ctx context.Context, id, agentID uuid.UUID, at time.Time, reason, notes string) (domain.Consultation, error)

	// SetOutcome records the final business result at any lifecycle point.
	SetOutcome(ctx context.Context, id uuid.UUID, outcome, notes string) (domain.Consultation, error)

	// ListByAgent returns the agent's referrals, newest assignment first,
	// with embedded customer and property relations.
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Consultation, error)

	// ExpireOverdue transitions every referred consultation whose window
	// lapsed before now and returns the affected rows.
	ExpireOverdue(ctx context.Context, now time.Time) ([]domain.Consultation, error)

	// AppendActivity inserts one audit record.
	AppendActivity(ctx context.Context, params AppendActivityParams) error

	// ListActivities returns a consultation's audit trail, oldest first.
	ListActivities(ctx context.Context, consultationID uuid.UUID) ([]domain.Activity, error)

	// UpsertCustomer finds or creates a customer by email and returns its ID.
	UpsertCustomer(ctx context.Context, name, email, phone string) (uuid.UUID, error)

	// FindPropertyIDByCaseNumber resolves a HUD case number to a property ID,
	// returning nil when no such property exists.
	FindPropertyIDByCaseNumber(ctx context.Context, caseNumber string) (*uuid.UUID, error)
}
