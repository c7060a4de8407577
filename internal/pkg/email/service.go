// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
)

const (
	ProviderLog  = "log"
	ProviderSMTP = "smtp"
)

// Transport hands a rendered message to a delivery channel.
type Transport interface {
	Deliver(ctx context.Context, email *Email) error
}

// EmailService renders and sends transactional mail
type EmailService struct {
	config    config.EmailConfig
	transport Transport
	templates map[EmailType]*template.Template
	log       *logrus.Logger
}

// NewEmailService creates a new email service for the configured provider
func NewEmailService(cfg config.EmailConfig, log *logrus.Logger) (*EmailService, error) {
	var transport Transport
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderLog:
		transport = &logTransport{log: log}
	case ProviderSMTP:
		transport = &smtpTransport{cfg: cfg}
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}

	return &EmailService{
		config:    cfg,
		transport: transport,
		templates: map[EmailType]*template.Template{
			EmailTypeOrderConfirmation: template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)),
		},
		log: log,
	}, nil
}

// SendOrderConfirmationEmail renders and delivers the order confirmation.
func (s *EmailService) SendOrderConfirmationEmail(ctx context.Context, data OrderConfirmationData) error {
	if data.UserEmail == "" {
		return fmt.Errorf("order confirmation for %s has no recipient", data.OrderNumber)
	}
	data.EmailTemplateData = GetBaseTemplateData(s.config.FromName, data.UserName, data.UserEmail)

	htmlContent, err := s.renderTemplate(EmailTypeOrderConfirmation, data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	email := &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Order Confirmation - Order #%s", data.OrderNumber),
		HTMLContent: htmlContent,
		TextContent: orderConfirmationText(data),
		Type:        EmailTypeOrderConfirmation,
	}

	return s.transport.Deliver(ctx, email)
}

// NotifyOrderConfirmation sends the confirmation without reporting failures to the caller.
// Delivery is best effort: errors are logged and there is no retry.
func (s *EmailService) NotifyOrderConfirmation(ctx context.Context, data OrderConfirmationData) {
	if err := s.SendOrderConfirmationEmail(ctx, data); err != nil {
		s.log.WithFields(logrus.Fields{
			"order_id": data.OrderNumber,
			"to":       data.UserEmail,
		}).WithError(err).Warn("Failed to send order confirmation")
	}
}

func (s *EmailService) renderTemplate(name EmailType, data interface{}) (string, error) {
	tmpl, exists := s.templates[name]
	if !exists {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// logTransport writes mail to the application log instead of sending it
type logTransport struct {
	log *logrus.Logger
}

func (t *logTransport) Deliver(ctx context.Context, email *Email) error {
	t.log.WithFields(logrus.Fields{
		"to":      strings.Join(email.To, ", "),
		"subject": email.Subject,
		"type":    email.Type,
	}).Info("EMAIL SENT\n" + email.TextContent)
	return nil
}

func orderConfirmationText(data OrderConfirmationData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order Date: %s\n", data.OrderDate)
	fmt.Fprintf(&b, "Total Amount: $%s\n", data.OrderTotal)
	b.WriteString("Items:\n")
	for _, item := range data.Items {
		fmt.Fprintf(&b, "  - %s x%d @ $%s\n", item.Title, item.Quantity, item.Price)
	}
	address := data.ShippingAddress.Address
	if address == "" {
		address = "N/A"
	}
	fmt.Fprintf(&b, "Shipping Address: %s", address)
	return b.String()
}

const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Order Confirmation</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thank you for your order{{if .UserName}}, {{.UserName}}{{end}}!</h2>
  <p>Order <strong>#{{.OrderNumber}}</strong> placed on {{.OrderDate}}.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><th align="left">Title</th><th>Qty</th><th align="right">Price</th><th align="right">Total</th></tr>
    {{range .Items}}<tr><td>{{.Title}}</td><td align="center">{{.Quantity}}</td><td align="right">${{.Price}}</td><td align="right">${{.Total}}</td></tr>
    {{end}}
  </table>
  <p>Subtotal: ${{.Subtotal}}<br>
  {{if .DiscountCodes}}Discount ({{range $i, $c := .DiscountCodes}}{{if $i}}, {{end}}{{$c}}{{end}}): -${{.Discount}}<br>{{end}}
  <strong>Total: ${{.OrderTotal}}</strong></p>
  <p>Transaction: {{.TransactionID}}</p>
  <p>Shipping to:<br>{{.ShippingAddress.Name}}<br>{{.ShippingAddress.Address}}<br>{{.ShippingAddress.City}} {{.ShippingAddress.ZipCode}}</p>
  <p style="font-size: 12px; color: #888;">&copy; {{.Year}} {{.SiteName}}</p>
</body>
</html>`
