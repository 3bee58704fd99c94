package report

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// DigestEntry is one run row in the scheduled compliance digest.
type DigestEntry struct {
	ContractName   string
	SubmittedBy    string
	Status         string
	Recommendation string
	TotalClauses   int
	HighRisk       int
	MediumRisk     int
	LowRisk        int
	AnalyzedAt     time.Time
}

// ComposeDigest builds the weekly summary over recent runs. Entries are
// rendered in the order given.
func ComposeDigest(entries []DigestEntry, since, now time.Time) Report {
	subject := fmt.Sprintf("Compliance digest: %d contract(s) analyzed since %s", len(entries), since.Format("Jan 02"))

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="margin:0;padding:15px;font-family:Arial,sans-serif;background:#f3f4f6;">`)
	b.WriteString(`<table width="100%" style="max-width:560px;margin:0 auto;background:#fff;border-radius:10px;overflow:hidden;">`)
	b.WriteString(`<tr><td style="background:#667eea;padding:18px 15px;text-align:center;"><h1 style="margin:0;color:#fff;font-size:18px;">Weekly Compliance Digest</h1></td></tr>`)
	fmt.Fprintf(&b, `<tr><td style="padding:10px 15px;color:#6b7280;font-size:12px;">%s - %s</td></tr>`, since.Format("Jan 02, 2006"), now.Format("Jan 02, 2006"))
	b.WriteString(`<tr><td style="padding:0 15px 15px;"><table width="100%" cellpadding="4" cellspacing="0" style="font-size:12px;">`)
	b.WriteString(`<tr style="background:#f9fafb;color:#6b7280;"><td>Contract</td><td>By</td><td>High</td><td>Med</td><td>Low</td><td>Verdict</td></tr>`)
	for _, e := range entries {
		fmt.Fprintf(&b, `<tr><td style="color:#111827;">%s</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%s</td></tr>`,
			html.EscapeString(e.ContractName), html.EscapeString(e.SubmittedBy), e.HighRisk, e.MediumRisk, e.LowRisk, html.EscapeString(e.Recommendation))
	}
	b.WriteString(`</table></td></tr></table></body></html>`)

	var plain strings.Builder
	fmt.Fprintf(&plain, "Weekly Compliance Digest (%s - %s)\n\n", since.Format("Jan 02"), now.Format("Jan 02"))
	for _, e := range entries {
		fmt.Fprintf(&plain, "- %s by %s: high=%d medium=%d low=%d verdict=%s\n",
			e.ContractName, e.SubmittedBy, e.HighRisk, e.MediumRisk, e.LowRisk, e.Recommendation)
	}

	return Report{Subject: subject, HTMLBody: b.String(), PlainBody: plain.String()}
}
