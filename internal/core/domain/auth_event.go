package domain

import "time"

// AuthEventKind is the pipeline step that produced an AuthEvent.
type AuthEventKind string

const (
	AuthEventLogin   AuthEventKind = "login"
	AuthEventRefresh AuthEventKind = "refresh"
	AuthEventLogout  AuthEventKind = "logout"
)

// AuthEvent is one entry of the authentication audit trail.
type AuthEvent struct {
	Subject   string
	Kind      AuthEventKind
	Success   bool
	Reason    string // failure message; empty on success
	RemoteIP  string
	Timestamp time.Time
}
