package models

// Partnership types
const (
	PartnershipStrategic  = "strategic"
	PartnershipTechnical  = "technical"
	PartnershipCommercial = "commercial"
	PartnershipOther      = "other"
)

// PartnershipSubmission is the body of POST /api/partnership
type PartnershipSubmission struct {
	Name               string `json:"name" validate:"required,min=2,max=50,personname"`
	Email              string `json:"email" validate:"required,email,max=100"`
	Company            string `json:"company,omitempty" validate:"omitempty,max=100"`
	CompanySize        string `json:"companySize" validate:"required,oneof=solo startup small medium enterprise"`
	PartnershipType    string `json:"partnershipType" validate:"required,oneof=strategic technical commercial other"`
	ProjectDescription string `json:"projectDescription" validate:"required,min=20,max=2000"`
	Timeline           string `json:"timeline,omitempty" validate:"omitempty,max=100"`
	Budget             string `json:"budget,omitempty" validate:"omitempty,max=50"`
	Website            string `json:"website" validate:"honeypot"`
	CSRFToken          string `json:"csrfToken"`
}

// GetCSRFToken returns the token echoed back by the client
func (s *PartnershipSubmission) GetCSRFToken() string { return s.CSRFToken }

// GetEmail returns the submitter's address
func (s *PartnershipSubmission) GetEmail() string { return s.Email }

// PartnershipResult holds the response-only values derived from a partnership submission
type PartnershipResult struct {
	PartnershipID string
	NextSteps     []string
}
