package biometricmock

import (
	"context"

	"github.com/openkcm/login-agent/internal/biometric"
)

type DeviceOption func(*Device)

// Device is a scripted biometric facility that records which checks ran.
type Device struct {
	available bool
	enrolled  bool

	AvailableCalls, EnrolledCalls int
}

func WithAvailable(available bool) DeviceOption {
	return func(d *Device) { d.available = available }
}

func WithEnrolled(enrolled bool) DeviceOption {
	return func(d *Device) { d.enrolled = enrolled }
}

var _ = biometric.Device(&Device{})

func NewDevice(opts ...DeviceOption) *Device {
	d := &Device{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d
}

func (d *Device) Available(_ context.Context) bool {
	d.AvailableCalls++
	return d.available
}

func (d *Device) Enrolled(_ context.Context) bool {
	d.EnrolledCalls++
	return d.enrolled
}

type PrompterOption func(*Prompter)

type Prompter struct {
	granted bool
	err     error

	PromptCalls int
	LastRequest biometric.PromptRequest
}

func WithGranted(granted bool) PrompterOption {
	return func(p *Prompter) { p.granted = granted }
}

func WithPromptError(err error) PrompterOption {
	return func(p *Prompter) { p.err = err }
}

var _ = biometric.Prompter(&Prompter{})

func NewPrompter(opts ...PrompterOption) *Prompter {
	p := &Prompter{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

func (p *Prompter) Prompt(_ context.Context, req biometric.PromptRequest) (bool, error) {
	p.PromptCalls++
	p.LastRequest = req

	if p.err != nil {
		return false, p.err
	}

	return p.granted, nil
}
