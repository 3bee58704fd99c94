// Package sqlite persists the run history and the notification audit log.
// The interactive state (session, active run) never lives here; this store
// only records what already happened.
package sqlite

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id              TEXT PRIMARY KEY,
		contract_name   TEXT NOT NULL,
		submitted_by    TEXT NOT NULL,
		submitted_email TEXT DEFAULT '',
		session_kind    TEXT DEFAULT '',
		status          TEXT NOT NULL,
		total_clauses   INTEGER DEFAULT 0,
		high_risk       INTEGER DEFAULT 0,
		medium_risk     INTEGER DEFAULT 0,
		low_risk        INTEGER DEFAULT 0,
		compliance_rate REAL DEFAULT 0,
		avg_risk_score  REAL DEFAULT 0,
		recommendation  TEXT DEFAULT '',
		notified        INTEGER DEFAULT 0,
		failure         TEXT DEFAULT '',
		analyzed_at     DATETIME NOT NULL,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_analyzed_at ON runs(analyzed_at);

	CREATE TABLE IF NOT EXISTS notifications (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL,
		recipients TEXT NOT NULL,
		subject    TEXT NOT NULL,
		outcome    TEXT NOT NULL,
		detail     TEXT DEFAULT '',
		sent_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_run ON notifications(run_id);
	`
	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}
	return db, nil
}

// RunRecord is one persisted analysis run.
type RunRecord struct {
	ID             string
	ContractName   string
	SubmittedBy    string
	SubmittedEmail string
	SessionKind    string
	Status         string
	TotalClauses   int
	HighRisk       int
	MediumRisk     int
	LowRisk        int
	ComplianceRate float64
	AvgRiskScore   float64
	Recommendation string
	Notified       bool
	Failure        string
	AnalyzedAt     time.Time
	CreatedAt      time.Time
}

func InsertRun(db *sql.DB, r RunRecord) error {
	_, err := db.Exec(
		`INSERT INTO runs (id, contract_name, submitted_by, submitted_email, session_kind, status,
		                   total_clauses, high_risk, medium_risk, low_risk, compliance_rate,
		                   avg_risk_score, recommendation, notified, failure, analyzed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ContractName, r.SubmittedBy, r.SubmittedEmail, r.SessionKind, r.Status,
		r.TotalClauses, r.HighRisk, r.MediumRisk, r.LowRisk, r.ComplianceRate,
		r.AvgRiskScore, r.Recommendation, r.Notified, r.Failure, r.AnalyzedAt,
	)
	return err
}

const runColumns = `id, contract_name, submitted_by, submitted_email, session_kind, status,
	total_clauses, high_risk, medium_risk, low_risk, compliance_rate,
	avg_risk_score, recommendation, notified, failure, analyzed_at, created_at`

func scanRun(rows interface{ Scan(...any) error }) (RunRecord, error) {
	var r RunRecord
	err := rows.Scan(
		&r.ID, &r.ContractName, &r.SubmittedBy, &r.SubmittedEmail, &r.SessionKind, &r.Status,
		&r.TotalClauses, &r.HighRisk, &r.MediumRisk, &r.LowRisk, &r.ComplianceRate,
		&r.AvgRiskScore, &r.Recommendation, &r.Notified, &r.Failure, &r.AnalyzedAt, &r.CreatedAt,
	)
	return r, err
}

func LatestRuns(db *sql.DB, limit int) ([]RunRecord, error) {
	rows, err := db.Query(
		`SELECT `+runColumns+` FROM runs ORDER BY analyzed_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func RunsSince(db *sql.DB, since time.Time) ([]RunRecord, error) {
	rows, err := db.Query(
		`SELECT `+runColumns+` FROM runs WHERE analyzed_at >= ? ORDER BY analyzed_at ASC, id ASC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunSummary is the aggregate view over a window of run history.
type RunSummary struct {
	TotalRuns  int
	HighRisk   int
	MediumRisk int
	LowRisk    int
	Rejected   int
	Notified   int
}

func Summary(db *sql.DB, since time.Time) (RunSummary, error) {
	var s RunSummary
	err := db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(high_risk), 0),
		        COALESCE(SUM(medium_risk), 0),
		        COALESCE(SUM(low_risk), 0),
		        COALESCE(SUM(CASE WHEN recommendation = 'reject' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(notified), 0)
		 FROM runs WHERE analyzed_at >= ?`,
		since,
	).Scan(&s.TotalRuns, &s.HighRisk, &s.MediumRisk, &s.LowRisk, &s.Rejected, &s.Notified)
	return s, err
}

// --- Notification audit log ---

type NotificationRecord struct {
	ID         int64
	RunID      string
	Recipients string // comma-separated
	Subject    string
	Outcome    string // "sent", "failed", "blocked", "disabled"
	Detail     string
	SentAt     time.Time
}

func InsertNotification(db *sql.DB, n NotificationRecord) error {
	_, err := db.Exec(
		`INSERT INTO notifications (run_id, recipients, subject, outcome, detail)
		 VALUES (?, ?, ?, ?, ?)`,
		n.RunID, n.Recipients, n.Subject, n.Outcome, n.Detail,
	)
	return err
}

func NotificationsForRun(db *sql.DB, runID string) ([]NotificationRecord, error) {
	rows, err := db.Query(
		`SELECT id, run_id, recipients, subject, outcome, detail, sent_at
		 FROM notifications WHERE run_id = ? ORDER BY id ASC`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NotificationRecord
	for rows.Next() {
		var n NotificationRecord
		if err := rows.Scan(&n.ID, &n.RunID, &n.Recipients, &n.Subject, &n.Outcome, &n.Detail, &n.SentAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
