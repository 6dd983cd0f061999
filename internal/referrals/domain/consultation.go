// Package domain holds the referral lifecycle model. The lifecycle status is
// derived from which timestamps are set, so the persisted status column and
// the timestamps cannot drift apart.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReferralWindow is the fixed response window an agent has after assignment.
// It is not configurable per call.
const ReferralWindow = 48 * time.Hour

// Status is the derived lifecycle state of a consultation.
type Status string

const (
	// StatusUnassigned means no agent has been referred yet.
	StatusUnassigned Status = "unassigned"
	// StatusReferred means an agent was assigned and the response window is open.
	StatusReferred Status = "referred"
	// StatusAccepted means the assigned agent accepted the referral.
	StatusAccepted Status = "accepted"
	// StatusDeclined means the assigned agent declined the referral.
	StatusDeclined Status = "declined"
	// StatusExpired means the response window lapsed without a response.
	StatusExpired Status = "expired"
)

// Consultation is one prospective buyer's inquiry, routed to one agent at a time.
type Consultation struct {
	ID         uuid.UUID
	CustomerID *uuid.UUID
	PropertyID *uuid.UUID

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	PropertyAddress string
	CaseNumber      string
	Message         string
	State           string

	AssignedBrokerID *uuid.UUID

	AssignedAt        *time.Time
	ReferralExpiresAt *time.Time
	AcceptedAt        *time.Time
	DeclinedAt        *time.Time
	ExpiredAt         *time.Time

	DeclineReason string
	DeclineNotes  string

	Outcome      string
	OutcomeNotes string

	Source string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Embedded relations, populated by repository reads where the
	// caller needs them (action responses, agent referral lists).
	Agent    *AgentSummary
	Customer *CustomerSummary
	Property *PropertySummary
}

// Status derives the lifecycle state from the timestamps. Terminal timestamps
// are mutually exclusive because transitions are status-guarded at the store.
func (c *Consultation) Status() Status {
	switch {
	case c.AcceptedAt != nil:
		return StatusAccepted
	case c.DeclinedAt != nil:
		return StatusDeclined
	case c.ExpiredAt != nil:
		return StatusExpired
	case c.AssignedAt != nil:
		return StatusReferred
	default:
		return StatusUnassigned
	}
}

// TargetState returns the US state used for agent matching: the linked
// property's state when present, otherwise the consultation's own state field.
func (c *Consultation) TargetState() string {
	if c.Property != nil && c.Property.State != "" {
		return c.Property.State
	}
	return c.State
}

// AgentSummary is the agent view embedded in consultation reads.
type AgentSummary struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}

// CustomerSummary is the customer view embedded in consultation reads.
type CustomerSummary struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}

// PropertySummary is the property view embedded in consultation reads.
type PropertySummary struct {
	ID         uuid.UUID
	CaseNumber string
	Address    string
	City       string
	State      string
}
