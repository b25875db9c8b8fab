// Package biometric wraps the on-device user-presence check that gates replay
// of a cached credential. The gate composes hardware detection, enrollment
// detection and a one-shot interactive prompt; platform specifics live behind
// the Device and Prompter interfaces.
package biometric

import (
	"context"

	slogctx "github.com/veqryn/slog-context"
)

type Outcome int

const (
	OutcomeUnavailable Outcome = iota
	OutcomeNotEnrolled
	OutcomeGranted
	OutcomeDenied
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeNotEnrolled:
		return "not_enrolled"
	case OutcomeGranted:
		return "granted"
	case OutcomeDenied:
		return "denied"
	default:
		return "error"
	}
}

// Device reports the static capabilities of the platform biometric facility.
type Device interface {
	Available(ctx context.Context) bool
	Enrolled(ctx context.Context) bool
}

// PromptRequest configures the interactive prompt shown to the user.
type PromptRequest struct {
	Message       string
	FallbackLabel string
}

// Prompter runs the one-shot user-presence prompt. The boolean result is only
// meaningful when err is nil.
type Prompter interface {
	Prompt(ctx context.Context, req PromptRequest) (bool, error)
}

type Gate struct {
	device   Device
	prompter Prompter
	request  PromptRequest
}

func NewGate(device Device, prompter Prompter, request PromptRequest) *Gate {
	return &Gate{
		device:   device,
		prompter: prompter,
		request:  request,
	}
}

// Check runs the precondition chain and, only when both preconditions hold,
// the interactive prompt. The ordering is deliberate: the user must never see
// a prompt that cannot succeed.
func (g *Gate) Check(ctx context.Context) Outcome {
	if !g.device.Available(ctx) {
		return OutcomeUnavailable
	}

	if !g.device.Enrolled(ctx) {
		return OutcomeNotEnrolled
	}

	granted, err := g.prompter.Prompt(ctx, g.request)
	if err != nil {
		slogctx.Error(ctx, "Biometric prompt failed", "error", err)
		return OutcomeError
	}

	if !granted {
		return OutcomeDenied
	}

	return OutcomeGranted
}
