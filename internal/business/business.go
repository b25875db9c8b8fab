// Package business wires configuration into the components each command
// needs: credential store backend, identity client, biometric gate, redirect
// dispatcher and the session manager on top of them.
package business

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/login-agent/internal/biometric"
	biometrichelper "github.com/openkcm/login-agent/internal/biometric/helper"
	"github.com/openkcm/login-agent/internal/config"
	"github.com/openkcm/login-agent/internal/credstore"
	credstorefile "github.com/openkcm/login-agent/internal/credstore/file"
	credstorevalkey "github.com/openkcm/login-agent/internal/credstore/valkey"
	"github.com/openkcm/login-agent/internal/handoff"
	"github.com/openkcm/login-agent/internal/identity"
	"github.com/openkcm/login-agent/internal/serviceerr"
	"github.com/openkcm/login-agent/internal/session"
)

// LoginMain runs one password-origin login attempt end to end.
func LoginMain(ctx context.Context, cfg *config.Config, identifier, secret string) error {
	manager, closeFn, err := initSessionManager(cfg)
	if err != nil {
		return fmt.Errorf("initialising the session manager: %w", err)
	}

	defer closeFn()

	state := manager.Login(ctx, identifier, secret, session.OriginPassword)

	return stateError(state)
}

// ReloginMain runs the biometric gate and, only on a granted outcome, replays
// the cached credential as a biometric-origin login.
func ReloginMain(ctx context.Context, cfg *config.Config) error {
	manager, closeFn, err := initSessionManager(cfg)
	if err != nil {
		return fmt.Errorf("initialising the session manager: %w", err)
	}

	defer closeFn()

	// The presence probe comes first so the user is never prompted when no
	// replay is possible anyway.
	if !manager.HasCachedCredential(ctx) {
		return serviceerr.ErrNoCachedCredential
	}

	gate := newGate(cfg)

	switch outcome := gate.Check(ctx); outcome {
	case biometric.OutcomeGranted:
	case biometric.OutcomeUnavailable:
		return fmt.Errorf("%w: biometric authentication is not available on this device", serviceerr.ErrBiometricRejected)
	case biometric.OutcomeNotEnrolled:
		return fmt.Errorf("%w: no biometric credentials are enrolled on this device", serviceerr.ErrBiometricRejected)
	case biometric.OutcomeDenied:
		// The cache stays; the user may retry the prompt.
		return fmt.Errorf("%w: biometric authentication was denied", serviceerr.ErrBiometricRejected)
	default:
		return fmt.Errorf("%w: biometric prompt failed", serviceerr.ErrBiometricRejected)
	}

	state, err := manager.ReplayFromCache(ctx)
	if err != nil {
		return fmt.Errorf("replaying cached credential: %w", err)
	}

	return stateError(state)
}

// StatusMain reports whether a cached credential exists. The missing case is
// serviceerr.ErrNoCachedCredential so the command layer can map it to a
// distinct exit status.
func StatusMain(ctx context.Context, cfg *config.Config) error {
	manager, closeFn, err := initSessionManager(cfg)
	if err != nil {
		return fmt.Errorf("initialising the session manager: %w", err)
	}

	defer closeFn()

	if !manager.HasCachedCredential(ctx) {
		return serviceerr.ErrNoCachedCredential
	}

	slogctx.Info(ctx, "A cached credential is present")

	return nil
}

// LogoutMain clears the credential slot.
func LogoutMain(ctx context.Context, cfg *config.Config) error {
	store, closeFn, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("initialising the credential store: %w", err)
	}

	defer closeFn()

	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing the credential store: %w", err)
	}

	slogctx.Info(ctx, "Cleared the cached credential")

	return nil
}

func initSessionManager(cfg *config.Config) (_ *session.Manager, closeFn func(), _ error) {
	store, closeFn, err := newStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialising the credential store: %w", err)
	}

	identityClient := identity.NewClient(cfg.Identity.BaseURL, nil)
	dispatcher := handoff.NewDispatcher(handoff.NewExecOpener(cfg.Redirect.OpenCommand))

	manager, err := session.NewManager(cfg.Redirect.BaseURL, identityClient, store, dispatcher)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("creating session manager: %w", err)
	}

	return manager, closeFn, nil
}

func newStore(cfg *config.Config) (credstore.Store, func(), error) {
	switch cfg.CredentialStore.Backend {
	case config.StoreBackendValKey:
		valkeyOpts, err := config.MakeValKeyOption(cfg.CredentialStore.ValKey)
		if err != nil {
			return nil, nil, fmt.Errorf("making valkey options from config: %w", err)
		}

		valkeyClient, err := valkey.NewClient(valkeyOpts)
		if err != nil {
			return nil, nil, fmt.Errorf("creating a new valkey client: %w", err)
		}

		return credstorevalkey.New(valkeyClient, cfg.CredentialStore.ValKey.Prefix), valkeyClient.Close, nil
	case config.StoreBackendFile:
		store := credstorefile.New(cfg.CredentialStore.File.Path, cfg.CredentialStore.File.KeyPath)

		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown credential store backend: %q", cfg.CredentialStore.Backend)
	}
}

func newGate(cfg *config.Config) *biometric.Gate {
	helper := biometrichelper.New(cfg.Biometric.HelperCommand)

	return biometric.NewGate(helper, helper, biometric.PromptRequest{
		Message:       cfg.Biometric.PromptMessage,
		FallbackLabel: cfg.Biometric.FallbackLabel,
	})
}

func stateError(state session.State) error {
	if state.Phase == session.PhaseAuthenticated {
		return nil
	}

	if state.Err != nil {
		return fmt.Errorf("%s: %w", state.Reason, state.Err)
	}

	return fmt.Errorf("login did not authenticate: %s", state.Reason)
}
