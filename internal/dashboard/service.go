// Package dashboard orchestrates the interactive flow: authenticate, submit a
// contract, aggregate the analyzer's records, gate the notification, expose
// the rendered state. One logical session maps to one SessionState guarded by
// its own mutex, so actions for the same session serialize exactly like the
// original single-threaded redraw loop while independent sessions proceed in
// parallel.
package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/analysis"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/analyzer"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/auth"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/config"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/domain"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/notify"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/report"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/storage/sqlite"
)

var (
	// ErrNotAuthenticated gates every dashboard action behind a session.
	ErrNotAuthenticated = errors.New("authentication required")
	// ErrRunInProgress rejects a second submit while one is analyzing.
	ErrRunInProgress = errors.New("an analysis is already in progress")
	// ErrRunActive rejects a submit on a finished run; an explicit reset
	// ("analyze another") is required first, never an implicit one.
	ErrRunActive = errors.New("a run already exists; reset before analyzing another contract")
	// ErrNoRun is returned by result accessors while the run is idle.
	ErrNoRun = errors.New("no completed analysis for this session")
	// ErrNoPDFRenderer is returned when the export collaborator is not wired.
	ErrNoPDFRenderer = errors.New("pdf renderer not configured")
)

// AnalysisError wraps an analyzer failure; the run is marked failed and the
// session stays usable.
type AnalysisError struct {
	Cause error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("contract analysis failed: %v", e.Cause)
}

func (e *AnalysisError) Unwrap() error { return e.Cause }

// sessionState is everything owned by one logical session. All access goes
// through mu.
type sessionState struct {
	mu      sync.Mutex
	auth    *auth.Manager
	run     *domain.AnalysisRun
	warning string
}

// Service is the orchestration core shared by all sessions.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*sessionState

	cfg      config.Config
	db       *sql.DB
	analyzer analyzer.Analyzer
	notifier *notify.Notifier
	pdf      report.PDFRenderer
	now      func() time.Time
}

func NewService(cfg config.Config, db *sql.DB, az analyzer.Analyzer, n *notify.Notifier, pdf report.PDFRenderer) *Service {
	return &Service{
		sessions: make(map[string]*sessionState),
		cfg:      cfg,
		db:       db,
		analyzer: az,
		notifier: n,
		pdf:      pdf,
		now:      time.Now,
	}
}

// NewSessionID mints an identifier for a fresh interactive context.
func (s *Service) NewSessionID() string {
	return uuid.New().String()
}

func (s *Service) state(sessionID string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{
			auth: auth.NewManager(s.cfg),
			run:  domain.NewIdleRun(),
		}
		s.sessions[sessionID] = st
	}
	return st
}

// --- Authentication actions ---

func (s *Service) Login(sessionID, email, password string) (domain.Session, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.auth.Login(email, password)
}

func (s *Service) StartTemporarySession(sessionID, email string) (domain.Session, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.auth.StartTemporarySession(email)
}

// Logout resets the authentication state and the active run; the next visitor
// behind the same session ID must not inherit either.
func (s *Service) Logout(sessionID string) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.auth.Logout()
	st.run = domain.NewIdleRun()
	st.warning = ""
}

func (s *Service) CurrentUser(sessionID string) *domain.Identity {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.auth.CurrentUser()
}

func (s *Service) SessionInfo(sessionID string) domain.Session {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.auth.Session()
}

// --- Run lifecycle ---

// Analyze submits a contract file for one analysis run. The analyzer and the
// notification transport are called synchronously while the session lock is
// held; that is the actor boundary the rest of the design leans on.
func (s *Service) Analyze(ctx context.Context, sessionID, contractName, filePath string) (*domain.AnalysisRun, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	sess := st.auth.Session()
	if !sess.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	switch st.run.Status {
	case domain.RunAnalyzing:
		return nil, ErrRunInProgress
	case domain.RunComplete, domain.RunFailed:
		return nil, ErrRunActive
	}

	run := &domain.AnalysisRun{
		ID:           uuid.New().String(),
		ContractName: contractName,
		Status:       domain.RunAnalyzing,
		SubmittedAt:  s.now(),
	}
	st.run = run
	st.warning = ""

	records, err := s.analyzer.Analyze(ctx, filePath)
	if err == nil && len(records) == 0 {
		// An empty result is a failed analysis, whatever the implementation
		// behind the port says about it.
		err = errors.New("analyzer produced no clause records")
	}
	if err != nil {
		run.Status = domain.RunFailed
		s.recordRun(st, run, analysis.Metrics{}, err)
		return run, &AnalysisError{Cause: err}
	}

	run.Records = records
	run.Status = domain.RunComplete
	m := analysis.Aggregate(records)
	log.Printf("analysis complete run=%s contract=%q clauses=%d recommendation=%s",
		run.ID, contractName, m.TotalClauses, m.Recommendation)

	s.sendNotification(st, sess, run, m)
	s.recordRun(st, run, m, nil)
	return run, nil
}

// sendNotification runs the gate and applies the idempotency bookkeeping. The
// flag is set after any confirmed attempt, success or caught failure, so
// redraws of this run can never send twice or hammer a broken transport.
func (s *Service) sendNotification(st *sessionState, sess domain.Session, run *domain.AnalysisRun, m analysis.Metrics) {
	now := s.now()
	sent, err := s.notifier.Notify(sess, run, m, now)

	outcome := "disabled"
	detail := ""
	switch {
	case sent:
		run.NotificationSent = true
		outcome = "sent"
	case err != nil:
		var de *notify.DeliveryError
		if errors.As(err, &de) {
			run.NotificationSent = true
		}
		outcome = "failed"
		detail = err.Error()
		st.warning = "Analysis complete but email notifications failed to send"
		log.Printf("notification failed run=%s: %v", run.ID, err)
	case !s.notifier.Enabled():
		outcome = "disabled"
	case !sess.CanNotify():
		outcome = "blocked"
		detail = string(sess.Kind) + " session"
	}

	rep := report.Compose(m, run.ContractName, *sess.Identity, now)
	audit := sqlite.NotificationRecord{
		RunID:      run.ID,
		Recipients: strings.Join(s.notifier.Recipients(), ","),
		Subject:    rep.Subject,
		Outcome:    outcome,
		Detail:     detail,
	}
	if err := sqlite.InsertNotification(s.db, audit); err != nil {
		log.Printf("notification audit insert failed run=%s: %v", run.ID, err)
	}
}

func (s *Service) recordRun(st *sessionState, run *domain.AnalysisRun, m analysis.Metrics, failure error) {
	sess := st.auth.Session()
	rec := sqlite.RunRecord{
		ID:             run.ID,
		ContractName:   run.ContractName,
		Status:         string(run.Status),
		TotalClauses:   m.TotalClauses,
		HighRisk:       m.HighRiskCount,
		MediumRisk:     m.MediumRiskCount(),
		LowRisk:        m.LowRiskCount(),
		ComplianceRate: m.ComplianceRatePercent,
		AvgRiskScore:   m.AverageRiskScorePercent,
		Recommendation: string(m.Recommendation),
		Notified:       run.NotificationSent,
		AnalyzedAt:     run.SubmittedAt,
	}
	if id := sess.Identity; id != nil {
		rec.SubmittedBy = id.DisplayName
		rec.SubmittedEmail = id.Email
		rec.SessionKind = string(sess.Kind)
	}
	if failure != nil {
		rec.Failure = failure.Error()
	}
	if err := sqlite.InsertRun(s.db, rec); err != nil {
		log.Printf("run history insert failed run=%s: %v", run.ID, err)
	}
}

// Reset starts a fresh idle run. This is the only way a run leaves the
// complete or failed state; redraws never reset anything.
func (s *Service) Reset(sessionID string) error {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.auth.Session().Authenticated() {
		return ErrNotAuthenticated
	}
	if st.run.Status == domain.RunAnalyzing {
		return ErrRunInProgress
	}
	st.run = domain.NewIdleRun()
	st.warning = ""
	return nil
}

// --- Views ---

// View is the rendered dashboard state for one session. Metrics are derived
// fresh on every call; nothing here is cached between redraws.
type View struct {
	Session            domain.Session      `json:"session"`
	Run                *domain.AnalysisRun `json:"run"`
	Metrics            *analysis.Metrics   `json:"metrics,omitempty"`
	SummaryPoints      []string            `json:"summary_points,omitempty"`
	KeyConsiderations  []string            `json:"key_considerations,omitempty"`
	NotifiedRecipients []string            `json:"notified_recipients,omitempty"`
	Warning            string              `json:"warning,omitempty"`
}

func (s *Service) Dashboard(sessionID string) (*View, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	sess := st.auth.Session()
	if !sess.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	v := &View{Session: sess, Run: st.run, Warning: st.warning}
	if st.run.Status == domain.RunComplete {
		m := analysis.Aggregate(st.run.Records)
		v.Metrics = &m
		v.SummaryPoints = analysis.SummaryPoints(m)
		v.KeyConsiderations = analysis.KeyConsiderations(m)
		if st.run.NotificationSent {
			v.NotifiedRecipients = s.notifier.Recipients()
		}
	}
	return v, nil
}

// SendTestEmail relays the test-send action, with the same session gate the
// real notification uses.
func (s *Service) SendTestEmail(sessionID string) (string, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.notifier.SendTest(st.auth.Session(), s.now())
}

// RewriteCandidates returns the high and medium risk records of the completed
// run, the subset the PDF export renders.
func (s *Service) RewriteCandidates(sessionID string) ([]domain.ClauseRecord, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.auth.Session().Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if st.run.Status != domain.RunComplete {
		return nil, ErrNoRun
	}
	return analysis.RewriteCandidates(st.run.Records), nil
}

// RenderRewritesPDF invokes the external rendering collaborator on demand.
func (s *Service) RenderRewritesPDF(sessionID string) ([]byte, error) {
	records, err := s.RewriteCandidates(sessionID)
	if err != nil {
		return nil, err
	}
	if s.pdf == nil {
		return nil, ErrNoPDFRenderer
	}
	return s.pdf.RenderRewrites(records)
}

// Summary returns aggregate run statistics over the trailing number of days.
func (s *Service) Summary(sessionID string, days int) (sqlite.RunSummary, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	authenticated := st.auth.Session().Authenticated()
	st.mu.Unlock()
	if !authenticated {
		return sqlite.RunSummary{}, ErrNotAuthenticated
	}
	if days <= 0 {
		days = 7
	}
	since := s.now().AddDate(0, 0, -days)
	return sqlite.Summary(s.db, since)
}

// History returns recent persisted runs across all sessions.
func (s *Service) History(sessionID string, limit int) ([]sqlite.RunRecord, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	authenticated := st.auth.Session().Authenticated()
	st.mu.Unlock()
	if !authenticated {
		return nil, ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = 20
	}
	return sqlite.LatestRuns(s.db, limit)
}
