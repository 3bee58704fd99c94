package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "compliance-test.db")
	db, err := InitDB(dbPath)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunCRUDAndQueries(t *testing.T) {
	db := newTestDB(t)
	base := time.Now().UTC().Truncate(time.Second)

	runs := []RunRecord{
		{
			ID: "r1", ContractName: "a.pdf", SubmittedBy: "Admin User",
			SubmittedEmail: "admin@company.com", SessionKind: "full", Status: "complete",
			TotalClauses: 4, HighRisk: 1, MediumRisk: 1, LowRisk: 2,
			ComplianceRate: 50, AvgRiskScore: 42.5, Recommendation: "reject",
			AnalyzedAt: base.Add(-48 * time.Hour),
		},
		{
			ID: "r2", ContractName: "b.pdf", SubmittedBy: "Guest (g@example.com)",
			SessionKind: "temporary", Status: "complete",
			TotalClauses: 3, LowRisk: 3, ComplianceRate: 100, Recommendation: "acceptable",
			AnalyzedAt: base.Add(-time.Hour),
		},
		{
			ID: "r3", ContractName: "c.pdf", SubmittedBy: "Regular User",
			SessionKind: "full", Status: "failed", Failure: "analyzer returned no clauses",
			AnalyzedAt: base,
		},
	}
	for _, r := range runs {
		if err := InsertRun(db, r); err != nil {
			t.Fatalf("InsertRun(%s) failed: %v", r.ID, err)
		}
	}

	latest, err := LatestRuns(db, 2)
	if err != nil {
		t.Fatalf("LatestRuns failed: %v", err)
	}
	if len(latest) != 2 || latest[0].ID != "r3" || latest[1].ID != "r2" {
		t.Fatalf("unexpected latest runs: %+v", latest)
	}
	if latest[1].Recommendation != "acceptable" || latest[1].ComplianceRate != 100 {
		t.Fatalf("round trip mismatch: %+v", latest[1])
	}

	since, err := RunsSince(db, base.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("RunsSince failed: %v", err)
	}
	if len(since) != 2 || since[0].ID != "r2" || since[1].ID != "r3" {
		t.Fatalf("unexpected window: %+v", since)
	}
}

func TestNotifiedFlagRoundTrip(t *testing.T) {
	db := newTestDB(t)
	run := RunRecord{ID: "r1", ContractName: "a.pdf", SubmittedBy: "Admin User", Status: "complete", Notified: true, AnalyzedAt: time.Now().UTC()}
	if err := InsertRun(db, run); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	latest, err := LatestRuns(db, 1)
	if err != nil {
		t.Fatalf("LatestRuns failed: %v", err)
	}
	if !latest[0].Notified {
		t.Fatal("run should be marked notified")
	}
}

func TestSummary(t *testing.T) {
	db := newTestDB(t)
	base := time.Now().UTC()

	if err := InsertRun(db, RunRecord{ID: "r1", ContractName: "a", SubmittedBy: "x", Status: "complete", HighRisk: 2, MediumRisk: 1, LowRisk: 3, Recommendation: "reject", Notified: true, AnalyzedAt: base}); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}
	if err := InsertRun(db, RunRecord{ID: "r2", ContractName: "b", SubmittedBy: "y", Status: "complete", LowRisk: 5, Recommendation: "acceptable", AnalyzedAt: base}); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}
	// Outside the window.
	if err := InsertRun(db, RunRecord{ID: "r0", ContractName: "old", SubmittedBy: "z", Status: "complete", HighRisk: 9, Recommendation: "reject", AnalyzedAt: base.AddDate(0, 0, -30)}); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	s, err := Summary(db, base.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if s.TotalRuns != 2 || s.HighRisk != 2 || s.MediumRisk != 1 || s.LowRisk != 8 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.Rejected != 1 || s.Notified != 1 {
		t.Fatalf("unexpected summary flags: %+v", s)
	}
}

func TestNotificationAuditLog(t *testing.T) {
	db := newTestDB(t)

	recs := []NotificationRecord{
		{RunID: "r1", Recipients: "admin@company.com,legal@company.com", Subject: "HIGH RISK: a.pdf", Outcome: "sent"},
		{RunID: "r1", Recipients: "", Subject: "", Outcome: "blocked", Detail: "temporary session"},
		{RunID: "r2", Recipients: "admin@company.com", Subject: "Complete: b.pdf", Outcome: "failed", Detail: "smtp: connection refused"},
	}
	for _, n := range recs {
		if err := InsertNotification(db, n); err != nil {
			t.Fatalf("InsertNotification failed: %v", err)
		}
	}

	got, err := NotificationsForRun(db, "r1")
	if err != nil {
		t.Fatalf("NotificationsForRun failed: %v", err)
	}
	if len(got) != 2 || got[0].Outcome != "sent" || got[1].Outcome != "blocked" {
		t.Fatalf("unexpected audit rows: %+v", got)
	}
	if got[0].SentAt.IsZero() {
		t.Fatal("sent_at should be populated")
	}
}
