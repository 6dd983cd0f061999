package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType identifies which lifecycle transition an activity records.
type ActivityType string

const (
	// ActivityReferralAssigned records an assignment.
	ActivityReferralAssigned ActivityType = "referral_assigned"
	// ActivityReferralAccepted records an acceptance.
	ActivityReferralAccepted ActivityType = "referral_accepted"
	// ActivityReferralDeclined records a decline.
	ActivityReferralDeclined ActivityType = "referral_declined"
	// ActivityReferralExpired records an expiry sweep transition.
	ActivityReferralExpired ActivityType = "referral_expired"
)

// Activity is one append-only audit record of a lifecycle transition.
// Activities are never mutated or deleted.
type Activity struct {
	ID             uuid.UUID
	ConsultationID uuid.UUID
	AgentID        *uuid.UUID
	Type           ActivityType
	Description    string
	Metadata       map[string]string
	CreatedAt      time.Time
}
