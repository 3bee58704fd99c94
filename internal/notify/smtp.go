package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/config"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/report"
)

// SMTPTransport sends the report as a multipart/alternative email over
// authenticated SMTP. One blocking SendMail per notification, no retries.
type SMTPTransport struct {
	host     string
	port     int
	user     string
	password string
}

func NewSMTPTransport(cfg config.Config) *SMTPTransport {
	return &SMTPTransport{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.EmailUser,
		password: cfg.EmailPassword,
	}
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) Send(to []string, rep report.Report) error {
	msg := buildMessage(t.user, to, rep)
	addr := fmt.Sprintf("%s:%d", t.host, t.port)
	auth := smtp.PlainAuth("", t.user, t.password, t.host)
	if err := smtp.SendMail(addr, auth, t.user, to, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from string, to []string, rep report.Report) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	b.WriteString(report.BuildEML(rep))
	return []byte(b.String())
}
