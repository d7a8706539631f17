package services

import (
	"fmt"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

// IntentKind tags an Intent.
type IntentKind int

const (
	IntentSignup IntentKind = iota + 1
	IntentLogin
	IntentRestore
	IntentLogout
)

func (k IntentKind) String() string {
	switch k {
	case IntentSignup:
		return "signup"
	case IntentLogin:
		return "login"
	case IntentRestore:
		return "restore"
	case IntentLogout:
		return "logout"
	default:
		return fmt.Sprintf("intent(%d)", int(k))
	}
}

// Intent is a request to change authentication state. Email and Password
// are only meaningful for signup and login.
type Intent struct {
	Kind     IntentKind
	Email    string
	Password string
}

func SignupIntent(email, password string) Intent {
	return Intent{Kind: IntentSignup, Email: email, Password: password}
}

func LoginIntent(email, password string) Intent {
	return Intent{Kind: IntentLogin, Email: email, Password: password}
}

func RestoreIntent() Intent { return Intent{Kind: IntentRestore} }

func LogoutIntent() Intent { return Intent{Kind: IntentLogout} }

func (i Intent) needsIdentityCall() bool {
	return i.Kind == IntentSignup || i.Kind == IntentLogin
}

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	OutcomeAuthenticated OutcomeKind = iota + 1
	OutcomeFailed
	OutcomeLoggedOut
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeFailed:
		return "failed"
	case OutcomeLoggedOut:
		return "logged_out"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the published result of an intent. Session is set for
// OutcomeAuthenticated; Reason (the user-facing message) and Err for
// OutcomeFailed.
type Outcome struct {
	Kind    OutcomeKind
	Session models.Session
	Reason  string
	Err     error
	// SessionEnded is set on a Failed outcome that also ended the session
	// held before the attempt.
	SessionEnded bool
}

// State is the controller's position in the session lifecycle.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
