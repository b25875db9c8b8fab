package session

import "github.com/openkcm/login-agent/internal/identity"

// Origin records which path produced a login attempt. It is carried through
// to the redirect URL so the receiving surface can distinguish biometric
// replays from freshly typed credentials.
type Origin int

const (
	OriginPassword Origin = iota
	OriginBiometric
)

func (o Origin) String() string {
	if o == OriginBiometric {
		return "biometric"
	}

	return "password"
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseFailed
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseFailed:
		return "failed"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "idle"
	}
}

// User-visible failure reasons. The wording is part of the product surface
// and matches the companion backend's expectations.
const (
	ReasonLoginFailed        = "Login failed"
	ReasonInvalidCredentials = "User name or password is incorrect."
)

// State is the single session state the presentation layer renders. Failed
// and Authenticated are terminal for an attempt; the next Login call replaces
// the whole value.
type State struct {
	Phase  Phase
	Origin Origin
	// Reason is the user-visible message when Phase is PhaseFailed.
	Reason string
	// Err carries the failure taxonomy sentinel for programmatic callers.
	Err error
	// Result holds the issued tokens when Phase is PhaseAuthenticated. It is
	// never persisted; only the originating credential is.
	Result identity.AuthorizationResult
}
