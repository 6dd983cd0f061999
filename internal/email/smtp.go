package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers through a direct SMTP connection via go-mail. It renders
// the same HTML templates as ResendSender.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) SendReferralAssignedEmail(ctx context.Context, toEmail, agentName, customerName, customerPhone, state, caseNumber, deadline string) error {
	subject := fmt.Sprintf(subjectReferralAssignedFmt, customerName, state)
	content, err := renderEmailTemplate("referral_assigned.html", referralAssignedEmailData{
		baseEmailData: baseEmailData{Title: "New referral", Heading: "You have a new referral"},
		AgentName:     agentName,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		State:         state,
		CaseNumber:    caseNumber,
		Deadline:      deadline,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendReferralAcceptedEmail(ctx context.Context, toEmail, customerName, agentName, agentEmail, agentPhone string) error {
	subject := fmt.Sprintf(subjectReferralAcceptedFmt, agentName)
	content, err := renderEmailTemplate("referral_accepted.html", referralAcceptedEmailData{
		baseEmailData: baseEmailData{Title: "Your agent is ready", Heading: "Your agent is ready to help"},
		CustomerName:  customerName,
		AgentName:     agentName,
		AgentEmail:    agentEmail,
		AgentPhone:    agentPhone,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendReferralDeclinedEmail(ctx context.Context, toEmail, agentName, customerName, state, reason string) error {
	subject := fmt.Sprintf(subjectReferralDeclinedFmt, agentName)
	content, err := renderEmailTemplate("referral_declined.html", referralDeclinedEmailData{
		baseEmailData: baseEmailData{Title: "Referral declined", Heading: "Referral declined"},
		AgentName:     agentName,
		CustomerName:  customerName,
		State:         state,
		Reason:        reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendReferralExpiredEmail(ctx context.Context, toEmail, agentName, customerName, state string) error {
	subject := fmt.Sprintf(subjectReferralExpiredFmt, customerName)
	content, err := renderEmailTemplate("referral_expired.html", referralExpiredEmailData{
		baseEmailData: baseEmailData{Title: "Referral expired", Heading: "Referral expired"},
		AgentName:     agentName,
		CustomerName:  customerName,
		State:         state,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendConsultationReceivedEmail(ctx context.Context, toEmail, customerName string) error {
	content, err := renderEmailTemplate("consultation_received.html", consultationReceivedEmailData{
		baseEmailData: baseEmailData{Title: "Request received", Heading: "We received your request"},
		CustomerName:  customerName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectConsultationReceived, content)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
