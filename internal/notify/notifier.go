// Package notify decides whether a notification may be sent and delivers it.
// The gate enforces two independent rules: only full sessions may trigger
// sends, and a run's notification goes out at most once no matter how many
// times the completed run is redrawn.
package notify

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/analysis"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/config"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/domain"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/report"
)

// Transport delivers one composed report to its recipients. Implementations
// must not retry; the caller treats any error as a final, reported failure.
type Transport interface {
	Send(to []string, rep report.Report) error
	Name() string
}

// DeliveryError wraps a transport failure. It is caught and surfaced as a
// warning on the run, never a crash, and it still counts as a send attempt
// for idempotency purposes.
type DeliveryError struct {
	Cause error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification delivery failed: %v", e.Cause)
}

func (e *DeliveryError) Unwrap() error { return e.Cause }

// ErrNotConfigured is returned by SendTest when no transport is enabled.
var ErrNotConfigured = errors.New("email system not configured")

// ErrNotEligible is returned by SendTest for temporary or unauthenticated
// sessions.
var ErrNotEligible = errors.New("full login required for email notifications")

// defaultRecipients is the fallback compliance distribution list used when no
// recipient override is configured.
var defaultRecipients = []string{
	"admin@company.com",
	"compliance@company.com",
	"legal@company.com",
}

// Notifier owns the resolved notification policy: recipients, enabled
// transports, and the optional on-disk draft copy. Resolved once at startup.
type Notifier struct {
	transports []Transport
	recipients []string
	draftsDir  string // empty disables draft files
}

func New(cfg config.Config) *Notifier {
	n := &Notifier{recipients: cfg.NotificationEmails}
	if len(n.recipients) == 0 {
		n.recipients = defaultRecipients
	}
	if cfg.EmailConfigured() {
		n.transports = append(n.transports, NewSMTPTransport(cfg))
	} else {
		log.Println("Email credentials not configured. Email notifications disabled.")
	}
	if cfg.SlackConfigured() {
		n.transports = append(n.transports, NewSlackTransport(cfg))
	}
	if cfg.WriteEmailDrafts {
		n.draftsDir = cfg.ReportOutputDir
	}
	return n
}

// NewWithTransports builds a notifier with an explicit transport list. Used
// for wiring fakes in tests of the callers.
func NewWithTransports(recipients []string, transports ...Transport) *Notifier {
	n := &Notifier{recipients: recipients, transports: transports}
	if len(n.recipients) == 0 {
		n.recipients = defaultRecipients
	}
	return n
}

// Enabled reports whether at least one transport is configured.
func (n *Notifier) Enabled() bool {
	return len(n.transports) > 0
}

// Recipients returns the resolved recipient list.
func (n *Notifier) Recipients() []string {
	return n.recipients
}

// Notify sends the analysis notification for a completed run. It returns
// (false, nil) without touching any transport when the notifier is disabled,
// the session is not full, or the run's notification already went out. On a
// transport failure it returns a *DeliveryError; the caller still marks the
// run as notified so redraws cannot turn an outage into a retry storm.
func (n *Notifier) Notify(sess domain.Session, run *domain.AnalysisRun, m analysis.Metrics, now time.Time) (bool, error) {
	if !n.Enabled() {
		log.Println("notify skipped: transport disabled")
		return false, nil
	}
	if !sess.CanNotify() {
		log.Printf("notify blocked: session kind=%s", sess.Kind)
		return false, nil
	}
	if run.NotificationSent {
		log.Printf("notify skipped: run %s already notified", run.ID)
		return false, nil
	}

	rep := report.Compose(m, run.ContractName, *sess.Identity, now)
	if err := n.deliver(rep, now); err != nil {
		return false, &DeliveryError{Cause: err}
	}
	log.Printf("notification sent run=%s recipients=%d", run.ID, len(n.recipients))
	return true, nil
}

// SendTest sends a fixed diagnostic report. Same eligibility rule as Notify,
// but the per-run idempotency flag does not apply; an eligible user can send
// as many test emails as they like.
func (n *Notifier) SendTest(sess domain.Session, now time.Time) (string, error) {
	if !n.Enabled() {
		return "", ErrNotConfigured
	}
	if !sess.CanNotify() {
		return "", ErrNotEligible
	}

	rep := report.ComposeTest(*sess.Identity, now)
	if err := n.deliver(rep, now); err != nil {
		return "", &DeliveryError{Cause: err}
	}
	return fmt.Sprintf("Test sent to %d recipient(s)", len(n.recipients)), nil
}

// SendDigest delivers a process-level report (the scheduled digest). No
// session gate applies; there is no interactive session behind it.
func (n *Notifier) SendDigest(rep report.Report, now time.Time) error {
	if !n.Enabled() {
		return ErrNotConfigured
	}
	if err := n.deliver(rep, now); err != nil {
		return &DeliveryError{Cause: err}
	}
	return nil
}

// deliver fans the report out to every transport. The first transport error
// wins; later transports still get their chance.
func (n *Notifier) deliver(rep report.Report, now time.Time) error {
	if n.draftsDir != "" {
		if path, err := report.WriteDraftFile(rep, n.draftsDir, now); err != nil {
			log.Printf("draft write failed: %v", err)
		} else {
			log.Printf("draft written %s", path)
		}
	}

	var firstErr error
	for _, tr := range n.transports {
		if err := tr.Send(n.recipients, rep); err != nil {
			log.Printf("transport %s error: %v", tr.Name(), err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
