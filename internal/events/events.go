// Package events defines the domain events published by the application's
// modules. Events carry denormalized fields so subscribers (notifications,
// logging) do not need to query the database again.
package events

import (
	"time"

	"usahudhomes_backend/platform/events"

	"github.com/google/uuid"
)

// Event names.
const (
	ConsultationCreatedName = "consultation.created"
	ReferralAssignedName    = "referral.assigned"
	ReferralAcceptedName    = "referral.accepted"
	ReferralDeclinedName    = "referral.declined"
	ReferralExpiredName     = "referral.expired"
	OutcomeRecordedName     = "referral.outcome_recorded"
)

// ConsultationCreated is published when a new consultation request is captured,
// whether from the public intake form or the Facebook Lead Ads webhook.
type ConsultationCreated struct {
	events.BaseEvent
	ConsultationID uuid.UUID
	CustomerName   string
	CustomerEmail  string
	PropertyState  string
	Source         string
}

// EventName returns the event identifier.
func (e ConsultationCreated) EventName() string { return ConsultationCreatedName }

// ReferralAssigned is published when a consultation is referred to an agent.
type ReferralAssigned struct {
	events.BaseEvent
	ConsultationID uuid.UUID
	AgentID        uuid.UUID
	AgentName      string
	AgentEmail     string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	PropertyState  string
	PropertyCity   string
	CaseNumber     string
	ExpiresAt      time.Time
	// Auto is true when the agent was chosen by the assignment policy
	// rather than named explicitly by the caller.
	Auto bool
}

// EventName returns the event identifier.
func (e ReferralAssigned) EventName() string { return ReferralAssignedName }

// ReferralAccepted is published when the assigned agent accepts a referral.
type ReferralAccepted struct {
	events.BaseEvent
	ConsultationID uuid.UUID
	AgentID        uuid.UUID
	AgentName      string
	AgentEmail     string
	AgentPhone     string
	CustomerName   string
	CustomerEmail  string
}

// EventName returns the event identifier.
func (e ReferralAccepted) EventName() string { return ReferralAcceptedName }

// ReferralDeclined is published when the assigned agent declines a referral.
type ReferralDeclined struct {
	events.BaseEvent
	ConsultationID uuid.UUID
	AgentID        uuid.UUID
	AgentName      string
	CustomerName   string
	PropertyState  string
	Reason         string
}

// EventName returns the event identifier.
func (e ReferralDeclined) EventName() string { return ReferralDeclinedName }

// ReferralExpired is published by the sweeper for each referral whose
// response window lapsed without an agent response.
type ReferralExpired struct {
	events.BaseEvent
	ConsultationID uuid.UUID
	AgentID        uuid.UUID
	AgentName      string
	CustomerName   string
	PropertyState  string
	AssignedAt     time.Time
}

// EventName returns the event identifier.
func (e ReferralExpired) EventName() string { return ReferralExpiredName }

// OutcomeRecorded is published when a final business outcome is recorded
// for a consultation.
type OutcomeRecorded struct {
	events.BaseEvent
	ConsultationID uuid.UUID
	Outcome        string
	Notes          string
}

// EventName returns the event identifier.
func (e OutcomeRecorded) EventName() string { return OutcomeRecordedName }
