package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

type referralAssignedEmailData struct {
	baseEmailData
	AgentName     string
	CustomerName  string
	CustomerPhone string
	State         string
	CaseNumber    string
	Deadline      string
}

type referralAcceptedEmailData struct {
	baseEmailData
	CustomerName string
	AgentName    string
	AgentEmail   string
	AgentPhone   string
}

type referralDeclinedEmailData struct {
	baseEmailData
	AgentName    string
	CustomerName string
	State        string
	Reason       string
}

type referralExpiredEmailData struct {
	baseEmailData
	AgentName    string
	CustomerName string
	State        string
}

type consultationReceivedEmailData struct {
	baseEmailData
	CustomerName string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
