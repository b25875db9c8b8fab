// Package biometrichelper drives an external helper binary that talks to the
// platform biometric facility, pinentry style. The helper protocol is three
// subcommands: "capability" and "enrolled" answer with their exit status, and
// "prompt" blocks on the interactive check, exiting 0 for granted and 1 for
// denied.
package biometrichelper

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/openkcm/login-agent/internal/biometric"
)

type Helper struct {
	command string
}

func New(command string) *Helper {
	return &Helper{command: command}
}

var _ = biometric.Device(&Helper{})
var _ = biometric.Prompter(&Helper{})

// Available reports false when no helper is configured or the binary cannot
// be resolved, so a misconfigured device degrades to "no biometrics" instead
// of failing later at prompt time.
func (h *Helper) Available(ctx context.Context) bool {
	if h.command == "" {
		return false
	}
	if _, err := exec.LookPath(h.command); err != nil {
		return false
	}

	return h.probe(ctx, "capability")
}

func (h *Helper) Enrolled(ctx context.Context) bool {
	return h.probe(ctx, "enrolled")
}

func (h *Helper) Prompt(ctx context.Context, req biometric.PromptRequest) (bool, error) {
	cmd := exec.CommandContext(ctx, h.command, "prompt",
		"--message", req.Message,
		"--fallback-label", req.FallbackLabel,
	)

	err := cmd.Run()
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}

	return false, fmt.Errorf("running biometric helper prompt: %w", err)
}

func (h *Helper) probe(ctx context.Context, subcommand string) bool {
	return exec.CommandContext(ctx, h.command, subcommand).Run() == nil
}
