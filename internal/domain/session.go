package domain

import "time"

// Role of an authenticated user.
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleAnalyst       Role = "Analyst"
	RoleGuest         Role = "Guest"
	// RoleCustom is assigned to the credential entry merged in from the
	// environment at startup.
	RoleCustom Role = "User"
)

// Identity is who a session belongs to. Immutable once assigned.
type Identity struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

// SessionKind is the authorization level of an interactive session.
type SessionKind string

const (
	SessionUnauthenticated SessionKind = "unauthenticated"
	SessionTemporary       SessionKind = "temporary"
	SessionFull            SessionKind = "full"
)

// Session is the per-interactive-context authentication state. Invariant:
// Kind == SessionUnauthenticated exactly when Identity == nil.
type Session struct {
	Kind      SessionKind `json:"kind"`
	Identity  *Identity   `json:"identity,omitempty"`
	LoginTime time.Time   `json:"login_time"`
}

// Authenticated reports whether the session may use the dashboard at all.
func (s Session) Authenticated() bool {
	return s.Kind != SessionUnauthenticated
}

// CanNotify reports whether the session may trigger email notifications.
// Temporary sessions get analysis access but never notification privileges.
func (s Session) CanNotify() bool {
	return s.Kind == SessionFull
}
