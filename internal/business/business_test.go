package business

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/login-agent/internal/config"
	"github.com/openkcm/login-agent/internal/serviceerr"
	"github.com/openkcm/login-agent/internal/session"
)

func TestNewStore_File(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		CredentialStore: config.CredentialStore{
			Backend: config.StoreBackendFile,
			File: config.FileStore{
				Path:    filepath.Join(dir, "credentials"),
				KeyPath: filepath.Join(dir, "credentials.key"),
			},
		},
	}

	store, closeFn, err := newStore(cfg)
	require.NoError(t, err)
	require.NotNil(t, store)

	defer closeFn()

	// A never-written slot reads as absent.
	_, ok, err := store.Get(t.Context())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewStore_UnknownBackend(t *testing.T) {
	cfg := &config.Config{
		CredentialStore: config.CredentialStore{Backend: "keychain"},
	}

	_, _, err := newStore(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keychain")
}

func TestNewGate(t *testing.T) {
	cfg := &config.Config{
		Biometric: config.Biometric{
			HelperCommand: "",
			PromptMessage: "Authenticate with Face ID or Touch ID",
			FallbackLabel: "Use Passcode",
		},
	}

	gate := newGate(cfg)
	require.NotNil(t, gate)

	// An unset helper command means no biometric capability.
	assert.Equal(t, "unavailable", gate.Check(t.Context()).String())
}

func TestStateError(t *testing.T) {
	tests := []struct {
		name    string
		state   session.State
		wantErr error
	}{
		{
			name:  "Authenticated is not an error",
			state: session.State{Phase: session.PhaseAuthenticated},
		},
		{
			name: "Failed carries its sentinel",
			state: session.State{
				Phase:  session.PhaseFailed,
				Reason: session.ReasonInvalidCredentials,
				Err:    serviceerr.ErrInvalidCredentials,
			},
			wantErr: serviceerr.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := stateError(tt.state)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Contains(t, err.Error(), tt.state.Reason)
		})
	}
}
