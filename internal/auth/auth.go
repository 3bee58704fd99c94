// Package auth holds the static credential table and the per-context session
// state machine. A session starts unauthenticated, moves to full on a
// credential match or to temporary on a guest email, and returns to
// unauthenticated on logout. There is no temporary-to-full transition; a guest
// has to log out and log in with credentials.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/config"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/domain"
)

var (
	// ErrInvalidCredentials is returned on any email or password mismatch.
	// The current session is left untouched.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when a temporary-session email is empty or
	// not email-shaped.
	ErrInvalidEmail = errors.New("a valid email address is required")
)

type credential struct {
	password string
	name     string
	role     domain.Role
}

// credentialTable builds the in-memory user table: two built-in entries plus
// the optional environment-provided entry. Lookup is case-sensitive exact
// match. Plaintext on purpose; this mirrors the deployed credential model and
// is not a template for a hardened system.
func credentialTable(cfg config.Config) map[string]credential {
	users := map[string]credential{
		"admin@company.com": {password: "admin123", name: "Admin User", role: domain.RoleAdministrator},
		"user@company.com":  {password: "user123", name: "Regular User", role: domain.RoleAnalyst},
	}
	if cfg.EnvCredentialConfigured() {
		users[cfg.AuthUser] = credential{password: cfg.AuthPassword, name: cfg.AuthName, role: domain.RoleCustom}
	}
	return users
}

// Manager owns the session of one interactive context. It is not safe for
// concurrent use on its own; the dashboard layer serializes all access to a
// logical session behind that session's mutex.
type Manager struct {
	users   map[string]credential
	session domain.Session
	now     func() time.Time
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		users:   credentialTable(cfg),
		session: domain.Session{Kind: domain.SessionUnauthenticated},
		now:     time.Now,
	}
}

// Login validates email and password against the credential table. On success
// the session becomes full; on failure the session is unchanged.
func (m *Manager) Login(email, password string) (domain.Session, error) {
	cred, ok := m.users[email]
	if !ok || cred.password != password {
		return m.session, ErrInvalidCredentials
	}
	m.session = domain.Session{
		Kind: domain.SessionFull,
		Identity: &domain.Identity{
			Email:       email,
			DisplayName: cred.name,
			Role:        cred.role,
		},
		LoginTime: m.now(),
	}
	return m.session, nil
}

// StartTemporarySession creates a guest session for the given email. Guests
// get analysis access but no notification privileges.
func (m *Manager) StartTemporarySession(email string) (domain.Session, error) {
	if email == "" || !strings.Contains(email, "@") {
		return m.session, ErrInvalidEmail
	}
	m.session = domain.Session{
		Kind: domain.SessionTemporary,
		Identity: &domain.Identity{
			Email:       email,
			DisplayName: "Guest (" + email + ")",
			Role:        domain.RoleGuest,
		},
		LoginTime: m.now(),
	}
	return m.session, nil
}

// Logout unconditionally resets the session to unauthenticated.
func (m *Manager) Logout() {
	m.session = domain.Session{Kind: domain.SessionUnauthenticated}
}

// Session returns the current session value.
func (m *Manager) Session() domain.Session {
	return m.session
}

// CurrentUser returns the session identity, or nil when unauthenticated.
func (m *Manager) CurrentUser() *domain.Identity {
	return m.session.Identity
}
