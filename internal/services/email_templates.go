package services

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/BradenHooton/portfolio/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// Email kinds, each backed by a <kind>.html and <kind>.txt template
const (
	EmailContactConfirmation     = "contact_confirmation"
	EmailContactAlert            = "contact_alert"
	EmailPricingConfirmation     = "pricing_confirmation"
	EmailPricingAlert            = "pricing_alert"
	EmailPartnershipConfirmation = "partnership_confirmation"
	EmailPartnershipAlert        = "partnership_alert"
)

var emailKinds = []string{
	EmailContactConfirmation,
	EmailContactAlert,
	EmailPricingConfirmation,
	EmailPricingAlert,
	EmailPartnershipConfirmation,
	EmailPartnershipAlert,
}

// EmailData is the value every email template renders against
type EmailData struct {
	Site              string
	Reference         string
	ClientID          string
	Form              interface{}
	ResponseTime      string
	EstimatedDelivery string
	NextSteps         []string
}

var templateFuncs = map[string]interface{}{
	"money": formatMoney,
	"inc":   func(i int) int { return i + 1 },
}

// EmailRenderer renders the embedded email templates
type EmailRenderer struct {
	siteName string
	html     map[string]*htmltemplate.Template
	text     map[string]*texttemplate.Template
}

// NewEmailRenderer parses every email template up front so a broken
// template fails at startup rather than mid-request
func NewEmailRenderer(siteName string) (*EmailRenderer, error) {
	layout, err := htmltemplate.New("layout.html").Funcs(htmltemplate.FuncMap(templateFuncs)).
		ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email layout: %w", err)
	}

	r := &EmailRenderer{
		siteName: siteName,
		html:     make(map[string]*htmltemplate.Template, len(emailKinds)),
		text:     make(map[string]*texttemplate.Template, len(emailKinds)),
	}

	for _, kind := range emailKinds {
		base, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone email layout: %w", err)
		}
		html, err := base.ParseFS(templateFS, "templates/"+kind+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s.html: %w", kind, err)
		}
		text, err := texttemplate.New(kind + ".txt").Funcs(texttemplate.FuncMap(templateFuncs)).
			ParseFS(templateFS, "templates/"+kind+".txt")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s.txt: %w", kind, err)
		}
		r.html[kind] = html
		r.text[kind] = text
	}

	return r, nil
}

// Render builds a message of the given kind
func (r *EmailRenderer) Render(kind, to, replyTo, subject string, data EmailData) (models.EmailMessage, error) {
	html, ok := r.html[kind]
	if !ok {
		return models.EmailMessage{}, fmt.Errorf("unknown email kind %q", kind)
	}
	data.Site = r.siteName

	var htmlBuf, textBuf bytes.Buffer
	if err := html.ExecuteTemplate(&htmlBuf, "layout", data); err != nil {
		return models.EmailMessage{}, fmt.Errorf("failed to render %s html: %w", kind, err)
	}
	if err := r.text[kind].Execute(&textBuf, data); err != nil {
		return models.EmailMessage{}, fmt.Errorf("failed to render %s text: %w", kind, err)
	}

	return models.EmailMessage{
		To:       to,
		ReplyTo:  replyTo,
		Subject:  subject,
		HTMLBody: htmlBuf.String(),
		TextBody: textBuf.String(),
	}, nil
}

// moneyPrinter groups digits the way the site's quotes are written
var moneyPrinter = message.NewPrinter(language.English)

// formatMoney renders an amount with its currency code, e.g. "1,250.00 USD"
func formatMoney(amount float64, currency string) string {
	return moneyPrinter.Sprintf("%v %s", number.Decimal(amount, number.Scale(2)), currency)
}
