// internal/pkg/email/smtp.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/your-org/bookstore-backend/internal/config"
)

// smtpTransport delivers mail through an SMTP relay
type smtpTransport struct {
	cfg config.EmailConfig
}

func (t *smtpTransport) Deliver(ctx context.Context, email *Email) error {
	if t.cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP configuration incomplete: missing host")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if t.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
	}

	addr := net.JoinHostPort(t.cfg.SMTPHost, strconv.Itoa(t.cfg.SMTPPort))
	if err := smtp.SendMail(addr, auth, t.cfg.FromEmail, email.To, buildMessage(t.cfg, email)); err != nil {
		return fmt.Errorf("failed to send via SMTP: %w", err)
	}
	return nil
}

func buildMessage(cfg config.EmailConfig, email *Email) []byte {
	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}

	headers := map[string]string{
		"From":         from,
		"To":           strings.Join(email.To, ", "),
		"Subject":      email.Subject,
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="utf-8"`,
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msg bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, headers[k])
	}
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLContent)
	return msg.Bytes()
}
