package models

// Contact project types
const (
	ProjectTypeGeneral       = "general"
	ProjectTypeFreelance     = "freelance"
	ProjectTypeConsulting    = "consulting"
	ProjectTypeCollaboration = "collaboration"
)

// Contact urgency levels
const (
	UrgencyLow      = "low"
	UrgencyStandard = "standard"
	UrgencyUrgent   = "urgent"
)

// ContactSubmission is the body of POST /api/contact
type ContactSubmission struct {
	Name        string `json:"name" validate:"required,min=2,max=50,personname"`
	Email       string `json:"email" validate:"required,email,max=100"`
	Message     string `json:"message" validate:"required,min=10,max=1000"`
	ProjectType string `json:"projectType" validate:"required,oneof=general freelance consulting collaboration"`
	Urgency     string `json:"urgency" validate:"required,oneof=low standard urgent"`
	Budget      string `json:"budget,omitempty" validate:"omitempty,max=50"`
	Website     string `json:"website" validate:"honeypot"`
	CSRFToken   string `json:"csrfToken"`
}

// GetCSRFToken returns the token echoed back by the client
func (s *ContactSubmission) GetCSRFToken() string { return s.CSRFToken }

// GetEmail returns the submitter's address
func (s *ContactSubmission) GetEmail() string { return s.Email }

// ContactResult holds the response-only values derived from a contact submission
type ContactResult struct {
	Reference    string
	ResponseTime string
}
