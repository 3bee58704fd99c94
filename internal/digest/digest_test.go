package digest

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/notify"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/report"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/storage/sqlite"
)

type captureTransport struct {
	sent []report.Report
}

func (c *captureTransport) Send(to []string, rep report.Report) error {
	c.sent = append(c.sent, rep)
	return nil
}

func (c *captureTransport) Name() string { return "capture" }

func TestRunSendsDigestForWindow(t *testing.T) {
	db, err := sqlite.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	recent := sqlite.RunRecord{
		ID: "r1", ContractName: "nda.pdf", SubmittedBy: "Admin User",
		Status: "complete", Recommendation: "reject",
		TotalClauses: 4, HighRisk: 2, MediumRisk: 1, LowRisk: 1,
		AnalyzedAt: now.Add(-48 * time.Hour),
	}
	stale := sqlite.RunRecord{
		ID: "r2", ContractName: "old.pdf", Status: "complete",
		Recommendation: "acceptable", AnalyzedAt: now.Add(-10 * 24 * time.Hour),
	}
	for _, r := range []sqlite.RunRecord{recent, stale} {
		if err := sqlite.InsertRun(db, r); err != nil {
			t.Fatalf("InsertRun %s: %v", r.ID, err)
		}
	}

	tr := &captureTransport{}
	n := notify.NewWithTransports(nil, tr)
	if err := Run(db, n, now); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(tr.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(tr.sent))
	}
	rep := tr.sent[0]
	if want := "Compliance digest: 1 contract(s) analyzed since Mar 02"; rep.Subject != want {
		t.Fatalf("subject = %q, want %q", rep.Subject, want)
	}
	if got := rep.PlainBody; got == "" || !containsAll(got, "nda.pdf", "Admin User", "reject") {
		t.Fatalf("plain body missing run details:\n%s", got)
	}
	if strings.Contains(rep.PlainBody, "old.pdf") {
		t.Fatal("digest included a run outside the window")
	}
}

func TestRunWithDisabledNotifier(t *testing.T) {
	db, err := sqlite.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	n := notify.NewWithTransports(nil)
	if err := Run(db, n, time.Now()); err != notify.ErrNotConfigured {
		t.Fatalf("Run with no transport: got %v, want ErrNotConfigured", err)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
