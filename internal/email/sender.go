// Package email sends referral lifecycle notifications. Delivery goes through
// the Resend HTTP API when a key is configured, falls back to direct SMTP,
// and degrades to a no-op when neither is set up.
package email

import (
	"context"

	"usahudhomes_backend/platform/config"
)

// Sender delivers the referral lifecycle notifications.
type Sender interface {
	// SendReferralAssignedEmail notifies the agent about a new referral and
	// its response deadline.
	SendReferralAssignedEmail(ctx context.Context, toEmail, agentName, customerName, customerPhone, state, caseNumber, deadline string) error
	// SendReferralAcceptedEmail confirms to the customer that an agent took
	// their consultation.
	SendReferralAcceptedEmail(ctx context.Context, toEmail, customerName, agentName, agentEmail, agentPhone string) error
	// SendReferralDeclinedEmail alerts the operations inbox that a referral
	// needs manual re-routing after a decline.
	SendReferralDeclinedEmail(ctx context.Context, toEmail, agentName, customerName, state, reason string) error
	// SendReferralExpiredEmail alerts the operations inbox that a referral
	// timed out without a response.
	SendReferralExpiredEmail(ctx context.Context, toEmail, agentName, customerName, state string) error
	// SendConsultationReceivedEmail acknowledges a new consultation request
	// to the customer.
	SendConsultationReceivedEmail(ctx context.Context, toEmail, customerName string) error
}

// NoopSender drops every email. Used when no delivery channel is configured.
type NoopSender struct{}

func (NoopSender) SendReferralAssignedEmail(ctx context.Context, toEmail, agentName, customerName, customerPhone, state, caseNumber, deadline string) error {
	return nil
}

func (NoopSender) SendReferralAcceptedEmail(ctx context.Context, toEmail, customerName, agentName, agentEmail, agentPhone string) error {
	return nil
}

func (NoopSender) SendReferralDeclinedEmail(ctx context.Context, toEmail, agentName, customerName, state, reason string) error {
	return nil
}

func (NoopSender) SendReferralExpiredEmail(ctx context.Context, toEmail, agentName, customerName, state string) error {
	return nil
}

func (NoopSender) SendConsultationReceivedEmail(ctx context.Context, toEmail, customerName string) error {
	return nil
}

// NewSender picks the delivery channel from configuration: Resend when an API
// key is present, SMTP when a host is present, otherwise a no-op.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	if cfg.GetResendAPIKey() != "" {
		return NewResendSender(cfg), nil
	}
	if cfg.GetSMTPHost() != "" {
		return NewSMTPSender(
			cfg.GetSMTPHost(), cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
		), nil
	}
	return NoopSender{}, nil
}
