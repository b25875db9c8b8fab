// Package handoff performs the token hand-off: it checks that the runtime
// environment has a handler for the redirect URL and opens it. Opening is
// fire and forget; what the receiving surface does with the URL is its own
// business.
package handoff

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/login-agent/internal/serviceerr"
)

// Opener abstracts the platform URL-opening facility.
type Opener interface {
	CanOpen(ctx context.Context, rawURL string) bool
	Open(ctx context.Context, rawURL string) error
}

type Dispatcher struct {
	opener Opener
}

func NewDispatcher(opener Opener) *Dispatcher {
	return &Dispatcher{opener: opener}
}

// Dispatch hands the URL to the registered handler. A missing handler is
// reported as serviceerr.ErrNoHandler with the unreachable URL so the caller
// can surface a usable diagnostic.
func (d *Dispatcher) Dispatch(ctx context.Context, rawURL string) error {
	if !d.opener.CanOpen(ctx, rawURL) {
		return fmt.Errorf("%w: %s", serviceerr.ErrNoHandler, rawURL)
	}

	if err := d.opener.Open(ctx, rawURL); err != nil {
		return fmt.Errorf("opening redirect url: %w", err)
	}

	slogctx.Info(ctx, "Dispatched redirect url")

	return nil
}

// ExecOpener opens URLs through the platform opener binary, or a configured
// override.
type ExecOpener struct {
	command string
}

func NewExecOpener(command string) *ExecOpener {
	if command == "" {
		command = platformOpenCommand()
	}

	return &ExecOpener{command: command}
}

var _ = Opener(&ExecOpener{})

func (o *ExecOpener) CanOpen(_ context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return false
	}

	_, err = exec.LookPath(o.command)

	return err == nil
}

// Open starts the handler without waiting for it: there is no response
// channel back from the receiving surface.
func (o *ExecOpener) Open(ctx context.Context, rawURL string) error {
	args := []string{rawURL}
	if o.command == "rundll32" {
		args = []string{"url.dll,FileProtocolHandler", rawURL}
	}

	cmd := exec.CommandContext(ctx, o.command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", o.command, err)
	}

	go func() {
		// Reap the child; its exit status is deliberately ignored.
		_ = cmd.Wait()
	}()

	return nil
}

func platformOpenCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "rundll32"
	default:
		return "xdg-open"
	}
}
