// Package notification sends emails in response to domain events. It
// subscribes to the event bus so the referrals module never talks to an
// email provider directly.
package notification

import (
	"context"
	"fmt"
	"time"

	"usahudhomes_backend/internal/email"
	"usahudhomes_backend/internal/events"
	"usahudhomes_backend/platform/config"
	platformevents "usahudhomes_backend/platform/events"
	"usahudhomes_backend/platform/logger"
)

// Module wires domain events to outbound email.
type Module struct {
	sender email.Sender
	cfg    config.NotificationConfig
	log    *logger.Logger
}

// NewModule creates the notification module.
func NewModule(sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		sender: sender,
		cfg:    cfg,
		log:    log,
	}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus platformevents.Bus) {
	bus.Subscribe(events.ConsultationCreatedName, m)
	bus.Subscribe(events.ReferralAssignedName, m)
	bus.Subscribe(events.ReferralAcceptedName, m)
	bus.Subscribe(events.ReferralDeclinedName, m)
	bus.Subscribe(events.ReferralExpiredName, m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event platformevents.Event) error {
	switch e := event.(type) {
	case events.ConsultationCreated:
		return m.handleConsultationCreated(ctx, e)
	case events.ReferralAssigned:
		return m.handleReferralAssigned(ctx, e)
	case events.ReferralAccepted:
		return m.handleReferralAccepted(ctx, e)
	case events.ReferralDeclined:
		return m.handleReferralDeclined(ctx, e)
	case events.ReferralExpired:
		return m.handleReferralExpired(ctx, e)
	default:
		return fmt.Errorf("notification: unhandled event type %s", event.EventName())
	}
}

func (m *Module) handleConsultationCreated(ctx context.Context, e events.ConsultationCreated) error {
	if e.CustomerEmail == "" {
		return nil
	}
	if err := m.sender.SendConsultationReceivedEmail(ctx, e.CustomerEmail, e.CustomerName); err != nil {
		return fmt.Errorf("consultation received email: %w", err)
	}
	m.log.Info("sent consultation received email",
		"consultation_id", e.ConsultationID.String(),
		"source", e.Source)
	return nil
}

func (m *Module) handleReferralAssigned(ctx context.Context, e events.ReferralAssigned) error {
	if e.AgentEmail == "" {
		return nil
	}
	deadline := e.ExpiresAt.UTC().Format("Mon, 2 Jan 2006 15:04 MST")
	if err := m.sender.SendReferralAssignedEmail(ctx,
		e.AgentEmail, e.AgentName, e.CustomerName, e.CustomerPhone,
		e.PropertyState, e.CaseNumber, deadline); err != nil {
		return fmt.Errorf("referral assigned email: %w", err)
	}
	m.log.Info("sent referral assigned email",
		"consultation_id", e.ConsultationID.String(),
		"agent_id", e.AgentID.String(),
		"auto", e.Auto)
	return nil
}

func (m *Module) handleReferralAccepted(ctx context.Context, e events.ReferralAccepted) error {
	if e.CustomerEmail == "" {
		return nil
	}
	if err := m.sender.SendReferralAcceptedEmail(ctx,
		e.CustomerEmail, e.CustomerName, e.AgentName, e.AgentEmail, e.AgentPhone); err != nil {
		return fmt.Errorf("referral accepted email: %w", err)
	}
	m.log.Info("sent referral accepted email",
		"consultation_id", e.ConsultationID.String(),
		"agent_id", e.AgentID.String())
	return nil
}

// Declines and expiries go to the operations inbox so a human can re-route
// the consultation. There is no automatic reassignment.
func (m *Module) handleReferralDeclined(ctx context.Context, e events.ReferralDeclined) error {
	opsEmail := m.cfg.GetOpsNotifyEmail()
	if opsEmail == "" {
		m.log.Warn("ops notify email not configured, skipping decline notification",
			"consultation_id", e.ConsultationID.String())
		return nil
	}
	if err := m.sender.SendReferralDeclinedEmail(ctx,
		opsEmail, e.AgentName, e.CustomerName, e.PropertyState, e.Reason); err != nil {
		return fmt.Errorf("referral declined email: %w", err)
	}
	m.log.Info("sent referral declined notification",
		"consultation_id", e.ConsultationID.String(),
		"agent_id", e.AgentID.String())
	return nil
}

func (m *Module) handleReferralExpired(ctx context.Context, e events.ReferralExpired) error {
	opsEmail := m.cfg.GetOpsNotifyEmail()
	if opsEmail == "" {
		m.log.Warn("ops notify email not configured, skipping expiry notification",
			"consultation_id", e.ConsultationID.String())
		return nil
	}
	if err := m.sender.SendReferralExpiredEmail(ctx,
		opsEmail, e.AgentName, e.CustomerName, e.PropertyState); err != nil {
		return fmt.Errorf("referral expired email: %w", err)
	}
	m.log.Info("sent referral expired notification",
		"consultation_id", e.ConsultationID.String(),
		"assigned_at", e.AssignedAt.Format(time.RFC3339))
	return nil
}

// Compile-time check that Module implements the event handler interface.
var _ platformevents.Handler = (*Module)(nil)
