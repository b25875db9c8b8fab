package handoffmock

import (
	"context"

	"github.com/openkcm/login-agent/internal/handoff"
)

type OpenerOption func(*Opener)

// Opener records dispatched URLs instead of opening them.
type Opener struct {
	canOpen bool
	openErr error

	OpenedURLs []string
}

func WithCanOpen(canOpen bool) OpenerOption {
	return func(o *Opener) { o.canOpen = canOpen }
}

func WithOpenError(err error) OpenerOption {
	return func(o *Opener) { o.openErr = err }
}

var _ = handoff.Opener(&Opener{})

func NewOpener(opts ...OpenerOption) *Opener {
	o := &Opener{canOpen: true}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return o
}

func (o *Opener) CanOpen(context.Context, string) bool {
	return o.canOpen
}

func (o *Opener) Open(_ context.Context, rawURL string) error {
	if o.openErr != nil {
		return o.openErr
	}

	o.OpenedURLs = append(o.OpenedURLs, rawURL)

	return nil
}
