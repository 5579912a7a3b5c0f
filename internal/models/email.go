package models

// EmailMessage is a single outbound transactional email
type EmailMessage struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}
