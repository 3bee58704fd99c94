// Package report turns aggregated metrics into the notification and digest
// documents the system sends. Composition is deterministic: identical inputs
// produce byte-identical output, which is what the format tests pin down.
package report

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/analysis"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/domain"
)

// Report is one composed notification: an email subject, an HTML body for
// mail clients, and a plain-text rendering for transports that cannot carry
// markup.
type Report struct {
	Subject   string
	HTMLBody  string
	PlainBody string
}

// PDFRenderer is the external rendering collaborator for the rewritten-clause
// export. Invoked on demand from the interaction surface, never automatically.
type PDFRenderer interface {
	RenderRewrites(records []domain.ClauseRecord) ([]byte, error)
}

// Compose builds the analysis notification for one completed run. The subject
// escalates high over medium over clean; the body embeds the contract name,
// the submitting user, the date, the four counts, and the compliance rate as
// a number plus a proportional bar.
func Compose(m analysis.Metrics, contractName string, user domain.Identity, now time.Time) Report {
	var subject string
	switch {
	case m.HighRiskCount > 0:
		subject = "HIGH RISK: " + contractName
	case m.MediumRiskCount() > 0:
		subject = "Review: " + contractName
	default:
		subject = "Complete: " + contractName
	}

	statusText, statusColor := overallStatus(m)
	date := now.Format("Jan 02, 2006")
	rate := m.ComplianceRatePercent

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="margin:0;padding:15px;font-family:Arial,sans-serif;background:#f3f4f6;">`)
	b.WriteString(`<table width="100%" style="max-width:480px;margin:0 auto;background:#fff;border-radius:10px;overflow:hidden;">`)
	b.WriteString(`<tr><td style="background:#667eea;padding:18px 15px;text-align:center;">`)
	b.WriteString(`<h1 style="margin:0;color:#fff;font-size:18px;">Contract Analysis</h1></td></tr>`)
	fmt.Fprintf(&b, `<tr><td style="padding:12px 15px;background:%s;text-align:center;"><h2 style="margin:0;color:#fff;font-size:16px;">%s</h2></td></tr>`, statusColor, statusText)
	b.WriteString(`<tr><td style="padding:15px;">`)

	b.WriteString(`<table width="100%" cellpadding="3" cellspacing="0" style="background:#f9fafb;">`)
	fmt.Fprintf(&b, `<tr><td style="color:#6b7280;font-size:12px;width:35%%;">Contract:</td><td style="color:#111827;font-size:12px;font-weight:600;">%s</td></tr>`, html.EscapeString(contractName))
	fmt.Fprintf(&b, `<tr><td style="color:#6b7280;font-size:12px;">By:</td><td style="color:#111827;font-size:12px;font-weight:600;">%s</td></tr>`, html.EscapeString(user.DisplayName))
	fmt.Fprintf(&b, `<tr><td style="color:#6b7280;font-size:12px;">Date:</td><td style="color:#111827;font-size:12px;font-weight:600;">%s</td></tr>`, date)
	b.WriteString(`</table>`)

	b.WriteString(`<table width="100%" cellpadding="0" cellspacing="0"><tr>`)
	writeMetricCell(&b, "Total", m.TotalClauses, "#3b82f6")
	writeMetricCell(&b, "High", m.HighRiskCount, "#ef4444")
	writeMetricCell(&b, "Med", m.MediumRiskCount(), "#f59e0b")
	writeMetricCell(&b, "Low", m.LowRiskCount(), "#10b981")
	b.WriteString(`</tr></table>`)

	b.WriteString(`<div style="background:#f9fafb;padding:10px;">`)
	fmt.Fprintf(&b, `<div style="color:#6b7280;font-size:11px;">Compliance Rate: <strong style="color:#111827;">%.0f%%</strong></div>`, rate)
	fmt.Fprintf(&b, `<div style="background:#e5e7eb;height:7px;border-radius:10px;overflow:hidden;"><div style="background:#10b981;height:100%%;width:%g%%;"></div></div>`, rate)
	b.WriteString(`</div>`)

	b.WriteString(`<div style="padding:8px;text-align:center;"><p style="margin:0;color:#6b7280;font-size:11px;">View full analysis in your dashboard</p></div>`)
	b.WriteString(`</td></tr></table></body></html>`)

	var plain strings.Builder
	fmt.Fprintf(&plain, "Contract Analysis - %s\n\n", statusText)
	fmt.Fprintf(&plain, "Contract: %s\nBy: %s\nDate: %s\n\n", contractName, user.DisplayName, date)
	fmt.Fprintf(&plain, "Total: %d | High: %d | Medium: %d | Low: %d\n", m.TotalClauses, m.HighRiskCount, m.MediumRiskCount(), m.LowRiskCount())
	fmt.Fprintf(&plain, "Compliance Rate: %.0f%%\n", rate)

	return Report{Subject: subject, HTMLBody: b.String(), PlainBody: plain.String()}
}

// ComposeTest builds the fixed diagnostic report used by the test-email
// action.
func ComposeTest(user domain.Identity, now time.Time) Report {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="margin:0;padding:15px;font-family:Arial,sans-serif;background:#f3f4f6;">`)
	b.WriteString(`<table width="100%" style="max-width:380px;margin:0 auto;background:#fff;border-radius:10px;overflow:hidden;">`)
	b.WriteString(`<tr><td style="background:#10b981;padding:20px;text-align:center;"><h1 style="margin:0;color:#fff;font-size:17px;">Test Successful</h1></td></tr>`)
	b.WriteString(`<tr><td style="padding:15px;"><table width="100%" cellpadding="3" cellspacing="0" style="background:#f9fafb;">`)
	fmt.Fprintf(&b, `<tr><td style="color:#6b7280;font-size:11px;width:35%%;">Sent By:</td><td style="color:#111827;font-size:11px;font-weight:600;">%s</td></tr>`, html.EscapeString(user.DisplayName))
	fmt.Fprintf(&b, `<tr><td style="color:#6b7280;font-size:11px;">Email:</td><td style="color:#111827;font-size:11px;font-weight:600;">%s</td></tr>`, html.EscapeString(user.Email))
	fmt.Fprintf(&b, `<tr><td style="color:#6b7280;font-size:11px;">Time:</td><td style="color:#111827;font-size:11px;font-weight:600;">%s</td></tr>`, now.Format("Jan 02, 3:04 PM"))
	b.WriteString(`</table></td></tr></table></body></html>`)

	plain := fmt.Sprintf("Test Successful\nSent By: %s\nEmail: %s\nTime: %s\n",
		user.DisplayName, user.Email, now.Format("Jan 02, 3:04 PM"))

	return Report{Subject: "Test Email", HTMLBody: b.String(), PlainBody: plain}
}

func overallStatus(m analysis.Metrics) (string, string) {
	switch {
	case m.HighRiskCount > 0:
		return "HIGH RISK", "#ef4444"
	case float64(m.MediumRiskCount()) > 0.5*float64(m.TotalClauses):
		return "MODERATE", "#f59e0b"
	default:
		return "LOW RISK", "#10b981"
	}
}

func writeMetricCell(b *strings.Builder, label string, value int, color string) {
	fmt.Fprintf(b, `<td width="25%%" style="text-align:center;padding:10px 0;background:%s;">`, color)
	fmt.Fprintf(b, `<div style="color:#fff;font-size:9px;text-transform:uppercase;">%s</div>`, label)
	fmt.Fprintf(b, `<div style="color:#fff;font-size:22px;font-weight:700;">%d</div></td>`, value)
}
