package domain

import "time"

// RunStatus is the lifecycle state of an analysis run.
type RunStatus string

const (
	RunIdle      RunStatus = "idle"
	RunAnalyzing RunStatus = "analyzing"
	RunComplete  RunStatus = "complete"
	RunFailed    RunStatus = "failed"
)

// AnalysisRun is one end-to-end analysis of a single uploaded contract.
// NotificationSent starts false and flips to true at most once per run; it is
// the idempotency flag that keeps redraws of a completed run from sending
// duplicate notifications. Only an explicit "analyze another" action resets
// a run, never a redraw.
type AnalysisRun struct {
	ID               string         `json:"id"`
	ContractName     string         `json:"contract_name"`
	Records          []ClauseRecord `json:"records,omitempty"`
	Status           RunStatus      `json:"status"`
	NotificationSent bool           `json:"notification_sent"`
	SubmittedAt      time.Time      `json:"submitted_at"`
}

// NewIdleRun returns a fresh run with no records and the idempotency flag
// cleared.
func NewIdleRun() *AnalysisRun {
	return &AnalysisRun{Status: RunIdle}
}
