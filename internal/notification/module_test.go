package notification

import (
	"context"
	"testing"
	"time"

	"usahudhomes_backend/internal/events"
	"usahudhomes_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct {
	opsEmail string
}

func (c testNotificationConfig) GetAppBaseURL() string     { return "https://usahudhomes.example.com" }
func (c testNotificationConfig) GetOpsNotifyEmail() string { return c.opsEmail }

type testSender struct {
	assignedTo   []string
	acceptedTo   []string
	declinedTo   []string
	expiredTo    []string
	receivedTo   []string
	lastDeadline string
}

func (s *testSender) SendReferralAssignedEmail(_ context.Context, toEmail, _, _, _, _, _, deadline string) error {
	s.assignedTo = append(s.assignedTo, toEmail)
	s.lastDeadline = deadline
	return nil
}

func (s *testSender) SendReferralAcceptedEmail(_ context.Context, toEmail, _, _, _, _ string) error {
	s.acceptedTo = append(s.acceptedTo, toEmail)
	return nil
}

func (s *testSender) SendReferralDeclinedEmail(_ context.Context, toEmail, _, _, _, _ string) error {
	s.declinedTo = append(s.declinedTo, toEmail)
	return nil
}

func (s *testSender) SendReferralExpiredEmail(_ context.Context, toEmail, _, _, _ string) error {
	s.expiredTo = append(s.expiredTo, toEmail)
	return nil
}

func (s *testSender) SendConsultationReceivedEmail(_ context.Context, toEmail, _ string) error {
	s.receivedTo = append(s.receivedTo, toEmail)
	return nil
}

func newTestModule(opsEmail string) (*Module, *testSender) {
	sender := &testSender{}
	m := NewModule(sender, testNotificationConfig{opsEmail: opsEmail}, logger.New("development"))
	return m, sender
}

func TestReferralAssignedEmailsAgent(t *testing.T) {
	m, sender := newTestModule("ops@usahudhomes.com")

	expires := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	err := m.Handle(context.Background(), events.ReferralAssigned{
		ConsultationID: uuid.New(),
		AgentID:        uuid.New(),
		AgentName:      "Dana Reeves",
		AgentEmail:     "dana@example.com",
		CustomerName:   "Pat Miller",
		PropertyState:  "NC",
		ExpiresAt:      expires,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.assignedTo) != 1 || sender.assignedTo[0] != "dana@example.com" {
		t.Fatalf("expected one assigned email to the agent, got %v", sender.assignedTo)
	}
	if sender.lastDeadline == "" {
		t.Fatal("expected a formatted deadline in the assigned email")
	}
}

func TestReferralAssignedSkipsWhenAgentEmailMissing(t *testing.T) {
	m, sender := newTestModule("ops@usahudhomes.com")

	err := m.Handle(context.Background(), events.ReferralAssigned{
		ConsultationID: uuid.New(),
		AgentID:        uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.assignedTo) != 0 {
		t.Fatalf("expected no email without an agent address, got %v", sender.assignedTo)
	}
}

func TestReferralAcceptedEmailsCustomer(t *testing.T) {
	m, sender := newTestModule("ops@usahudhomes.com")

	err := m.Handle(context.Background(), events.ReferralAccepted{
		ConsultationID: uuid.New(),
		AgentID:        uuid.New(),
		AgentName:      "Dana Reeves",
		CustomerName:   "Pat Miller",
		CustomerEmail:  "pat@example.com",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.acceptedTo) != 1 || sender.acceptedTo[0] != "pat@example.com" {
		t.Fatalf("expected accepted email to the customer, got %v", sender.acceptedTo)
	}
}

func TestDeclineAndExpiryGoToOpsInbox(t *testing.T) {
	m, sender := newTestModule("ops@usahudhomes.com")

	if err := m.Handle(context.Background(), events.ReferralDeclined{
		ConsultationID: uuid.New(),
		AgentID:        uuid.New(),
		AgentName:      "Dana Reeves",
		CustomerName:   "Pat Miller",
		PropertyState:  "NC",
		Reason:         "outside my coverage area",
	}); err != nil {
		t.Fatalf("Handle declined: %v", err)
	}
	if err := m.Handle(context.Background(), events.ReferralExpired{
		ConsultationID: uuid.New(),
		AgentID:        uuid.New(),
		CustomerName:   "Pat Miller",
		PropertyState:  "NC",
		AssignedAt:     time.Now().Add(-49 * time.Hour),
	}); err != nil {
		t.Fatalf("Handle expired: %v", err)
	}

	if len(sender.declinedTo) != 1 || sender.declinedTo[0] != "ops@usahudhomes.com" {
		t.Fatalf("expected decline notification to ops inbox, got %v", sender.declinedTo)
	}
	if len(sender.expiredTo) != 1 || sender.expiredTo[0] != "ops@usahudhomes.com" {
		t.Fatalf("expected expiry notification to ops inbox, got %v", sender.expiredTo)
	}
}

func TestOpsNotificationsSkippedWhenUnconfigured(t *testing.T) {
	m, sender := newTestModule("")

	if err := m.Handle(context.Background(), events.ReferralDeclined{ConsultationID: uuid.New()}); err != nil {
		t.Fatalf("Handle declined: %v", err)
	}
	if len(sender.declinedTo) != 0 {
		t.Fatalf("expected no decline email without an ops inbox, got %v", sender.declinedTo)
	}
}

func TestConsultationCreatedAcknowledgesCustomer(t *testing.T) {
	m, sender := newTestModule("ops@usahudhomes.com")

	err := m.Handle(context.Background(), events.ConsultationCreated{
		ConsultationID: uuid.New(),
		CustomerName:   "Pat Miller",
		CustomerEmail:  "pat@example.com",
		Source:         "web_form",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.receivedTo) != 1 || sender.receivedTo[0] != "pat@example.com" {
		t.Fatalf("expected acknowledgment email to the customer, got %v", sender.receivedTo)
	}
}
