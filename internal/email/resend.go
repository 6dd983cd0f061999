package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"usahudhomes_backend/platform/config"
)

// ResendSender delivers through the Resend transactional email HTTP API.
type ResendSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// NewResendSender creates a Resend-backed sender.
func NewResendSender(cfg config.EmailConfig) *ResendSender {
	return &ResendSender{
		apiKey:    cfg.GetResendAPIKey(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *ResendSender) SendReferralAssignedEmail(ctx context.Context, toEmail, agentName, customerName, customerPhone, state, caseNumber, deadline string) error {
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
	return r.send(ctx, toEmail, subject, content)
}

func (r *ResendSender) SendReferralAcceptedEmail(ctx context.Context, toEmail, customerName, agentName, agentEmail, agentPhone string) error {
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
	return r.send(ctx, toEmail, subject, content)
}

func (r *ResendSender) SendReferralDeclinedEmail(ctx context.Context, toEmail, agentName, customerName, state, reason string) error {
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
	return r.send(ctx, toEmail, subject, content)
}

func (r *ResendSender) SendReferralExpiredEmail(ctx context.Context, toEmail, agentName, customerName, state string) error {
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
	return r.send(ctx, toEmail, subject, content)
}

func (r *ResendSender) SendConsultationReceivedEmail(ctx context.Context, toEmail, customerName string) error {
	content, err := renderEmailTemplate("consultation_received.html", consultationReceivedEmailData{
		baseEmailData: baseEmailData{Title: "Request received", Heading: "We received your request"},
		CustomerName:  customerName,
	})
	if err != nil {
		return err
	}
	return r.send(ctx, toEmail, subjectConsultationReceived, content)
}

func (r *ResendSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	payload := resendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", r.fromName, r.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		HTML:    htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend send failed: status %d: %s", resp.StatusCode, string(data))
	}

	return nil
}
