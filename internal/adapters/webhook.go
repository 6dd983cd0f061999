package adapters

import (
	"context"

	referralsservice "usahudhomes_backend/internal/referrals/service"
	"usahudhomes_backend/internal/webhook"
)

const leadAdSource = "facebook_lead_ad"

// LeadConsultationCreator turns captured Facebook leads into consultations.
type LeadConsultationCreator struct {
	referrals *referralsservice.Service
}

// NewLeadConsultationCreator creates the webhook-to-referrals adapter.
func NewLeadConsultationCreator(referrals *referralsservice.Service) *LeadConsultationCreator {
	return &LeadConsultationCreator{referrals: referrals}
}

// CreateFromLead records a consultation for a captured lead.
func (a *LeadConsultationCreator) CreateFromLead(ctx context.Context, lead webhook.Lead) error {
	name := lead.FullName
	if name == "" {
		name = "Facebook Lead"
	}

	_, err := a.referrals.CreateIntake(ctx, referralsservice.IntakeParams{
		Name:            name,
		Email:           lead.Email,
		Phone:           lead.Phone,
		State:           lead.State,
		Message:         lead.Message,
		PropertyAddress: lead.Address,
		Source:          leadAdSource,
	})
	return err
}

// Compile-time check that the adapter satisfies the webhook port.
var _ webhook.ConsultationCreator = (*LeadConsultationCreator)(nil)
