// Package digest runs the scheduled weekly summary of analyzed contracts.
package digest

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/notify"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/report"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/storage/sqlite"
)

// window is how far back each digest looks.
const window = 7 * 24 * time.Hour

// Run builds and sends one digest covering the trailing window. Exposed
// separately from the scheduler so it can be triggered directly.
func Run(db *sql.DB, n *notify.Notifier, now time.Time) error {
	since := now.Add(-window)
	runs, err := sqlite.RunsSince(db, since)
	if err != nil {
		return err
	}

	entries := make([]report.DigestEntry, 0, len(runs))
	for _, r := range runs {
		entries = append(entries, report.DigestEntry{
			ContractName:   r.ContractName,
			SubmittedBy:    r.SubmittedBy,
			Status:         r.Status,
			Recommendation: r.Recommendation,
			TotalClauses:   r.TotalClauses,
			HighRisk:       r.HighRisk,
			MediumRisk:     r.MediumRisk,
			LowRisk:        r.LowRisk,
			AnalyzedAt:     r.AnalyzedAt,
		})
	}

	rep := report.ComposeDigest(entries, since, now)
	return n.SendDigest(rep, now)
}

// Start launches the digest scheduler. The schedule is a standard 5-field
// cron expression (minute hour day-of-month month day-of-week).
// Examples: "0 9 * * MON" (Mondays 9am), "0 8 * * 1-5" (weekdays 8am).
func Start(schedule string, db *sql.DB, n *notify.Notifier) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		log.Println("Digest disabled (digest_schedule not set)")
		return
	}
	if !n.Enabled() {
		log.Println("Digest disabled: no notification transport configured")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid digest_schedule '%s': %v. Digest disabled", schedule, err)
		return
	}
	log.Printf("Digest scheduled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next digest at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			if err := Run(db, n, time.Now()); err != nil {
				log.Printf("Digest error: %v", err)
			} else {
				log.Println("Digest sent")
			}
		}
	}()
}
