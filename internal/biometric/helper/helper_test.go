package biometrichelper_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/login-agent/internal/biometric"
	biometrichelper "github.com/openkcm/login-agent/internal/biometric/helper"
)

// writeHelper drops an executable shell script acting as the helper binary.
func writeHelper(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("helper scripts are POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "biometric-helper")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))

	return path
}

func TestAvailable_NoCommandConfigured(t *testing.T) {
	h := biometrichelper.New("")
	assert.False(t, h.Available(t.Context()))
}

func TestAvailable_MissingBinary(t *testing.T) {
	h := biometrichelper.New(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.False(t, h.Available(t.Context()))
}

func TestAvailable_CapabilityProbe(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   bool
	}{
		{name: "Capability present", script: `[ "$1" = capability ] && exit 0; exit 2`, want: true},
		{name: "Capability absent", script: `exit 2`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := biometrichelper.New(writeHelper(t, tt.script))
			assert.Equal(t, tt.want, h.Available(t.Context()))
		})
	}
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		name        string
		script      string
		wantGranted bool
		errAssert   assert.ErrorAssertionFunc
	}{
		{name: "Granted", script: "exit 0", wantGranted: true, errAssert: assert.NoError},
		{name: "Denied", script: "exit 1", wantGranted: false, errAssert: assert.NoError},
		{name: "Helper crash", script: "exit 3", wantGranted: false, errAssert: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := biometrichelper.New(writeHelper(t, tt.script))

			granted, err := h.Prompt(t.Context(), biometric.PromptRequest{Message: "m", FallbackLabel: "f"})
			tt.errAssert(t, err)
			assert.Equal(t, tt.wantGranted, granted)
		})
	}
}

func TestPrompt_PassesConfiguredStrings(t *testing.T) {
	out := filepath.Join(t.TempDir(), "args")
	h := biometrichelper.New(writeHelper(t, `printf '%s' "$*" > `+out))

	_, err := h.Prompt(t.Context(), biometric.PromptRequest{
		Message:       "Authenticate with Face ID or Touch ID",
		FallbackLabel: "Use Passcode",
	})
	require.NoError(t, err)

	args, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "prompt --message Authenticate with Face ID or Touch ID --fallback-label Use Passcode", string(args))
}
