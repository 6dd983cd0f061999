// Package transport defines the HTTP request and response shapes for the
// agent directory.
package transport

// CreateAgentRequest is the admin agent creation body.
type CreateAgentRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=120"`
	Email         string   `json:"email" validate:"required,email"`
	Phone         string   `json:"phone" validate:"max=32"`
	Password      string   `json:"password" validate:"required,min=10,max=128"`
	LicenseNumber string   `json:"licenseNumber" validate:"max=60"`
	LicenseState  string   `json:"licenseState" validate:"omitempty,us_state"`
	Specialties   []string `json:"specialties" validate:"max=20,dive,max=60"`
	StatesCovered []string `json:"statesCovered" validate:"required,min=1,dive,us_state"`
	IsAdmin       bool     `json:"isAdmin"`
}

// UpdateAgentRequest is the admin agent update body. Nil fields are unchanged.
type UpdateAgentRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=120"`
	Phone         *string  `json:"phone" validate:"omitempty,max=32"`
	LicenseNumber *string  `json:"licenseNumber" validate:"omitempty,max=60"`
	LicenseState  *string  `json:"licenseState" validate:"omitempty,us_state"`
	Specialties   []string `json:"specialties" validate:"omitempty,max=20,dive,max=60"`
	StatesCovered []string `json:"statesCovered" validate:"omitempty,min=1,dive,us_state"`
}

// AgentResponse is the full admin view of an agent.
type AgentResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone,omitempty"`
	LicenseNumber string   `json:"licenseNumber,omitempty"`
	LicenseState  string   `json:"licenseState,omitempty"`
	Specialties   []string `json:"specialties"`
	StatesCovered []string `json:"statesCovered"`
	IsActive      bool     `json:"isActive"`
	IsAdmin       bool     `json:"isAdmin"`
	TotalListings int      `json:"totalListings"`
	TotalSales    int      `json:"totalSales"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// PublicAgentResponse is the marketing-site view of an active agent.
// Contact email is included; internal flags and counters are not.
type PublicAgentResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone,omitempty"`
	Specialties   []string `json:"specialties"`
	StatesCovered []string `json:"statesCovered"`
}
