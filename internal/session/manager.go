// Package session owns the login lifecycle: issuing attempts against the
// identity endpoint, maintaining the credential cache that enables biometric
// replay, and handing the resulting tokens off to the redirect surface.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/login-agent/internal/credential"
	"github.com/openkcm/login-agent/internal/credstore"
	"github.com/openkcm/login-agent/internal/identity"
	"github.com/openkcm/login-agent/internal/serviceerr"
	"github.com/openkcm/login-agent/pkg/handoff"
)

// Authenticator is the slice of the identity client the manager needs.
type Authenticator interface {
	Authenticate(ctx context.Context, body []byte) (identity.Response, error)
}

// Dispatcher performs the redirect hand-off for a built URL.
type Dispatcher interface {
	Dispatch(ctx context.Context, rawURL string) error
}

const (
	presenceKey = "present"
	presenceTTL = 2 * time.Second
)

type Manager struct {
	authenticator Authenticator
	store         credstore.Store
	dispatcher    Dispatcher

	redirectBase string
	now          func() time.Time

	// presence memoises the store probe behind HasCachedCredential; the
	// presentation layer polls it on every render.
	presence *gocache.Cache

	attempts metric.Int64Counter

	mu    sync.Mutex
	state State
	seq   uint64
}

type ManagerOption func(*Manager)

// WithClock overrides the date-stamp source.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(
	redirectBaseURL string,
	authenticator Authenticator,
	store credstore.Store,
	dispatcher Dispatcher,
	opts ...ManagerOption,
) (*Manager, error) {
	meter := otel.Meter("login-agent/session")

	attempts, err := meter.Int64Counter(
		"auth.login_count",
		metric.WithDescription("Resolved login attempts"),
		metric.WithUnit("attempt"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating login_count meter: %w", err)
	}

	m := &Manager{
		authenticator: authenticator,
		store:         store,
		dispatcher:    dispatcher,
		redirectBase:  redirectBaseURL,
		now:           time.Now,
		presence:      gocache.New(presenceTTL, time.Minute),
		attempts:      attempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m, nil
}

// State returns the state of the most recently resolved or pending attempt.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Login runs one attempt end to end and returns its terminal state. A second
// Login issued while another is pending is neither queued nor rejected; the
// sequence guard below keeps the slower resolution from overwriting the
// shared state of the newer attempt.
func (m *Manager) Login(ctx context.Context, identifier, secret string, origin Origin) State {
	seq := m.beginAttempt(origin)
	ctx = slogctx.With(ctx, "attempt_id", uuid.NewString(), "origin", origin.String())

	body, err := credential.New(identifier, secret, m.now()).EncodeBody()
	if err != nil {
		slogctx.Error(ctx, "Failed to encode login request body", "error", err)
		return m.resolve(ctx, seq, State{
			Phase:  PhaseFailed,
			Origin: origin,
			Reason: ReasonLoginFailed,
			Err:    serviceerr.ErrTransportFailure,
		})
	}

	resp, err := m.authenticator.Authenticate(ctx, body)
	if err != nil {
		slogctx.Error(ctx, "Login request failed", "error", err)

		// A replay the server rejects outright must not be retried forever
		// with stale credentials. Fresh logins keep the cache untouched on
		// transport trouble.
		if origin == OriginBiometric {
			m.clearCache(ctx)
		}

		return m.resolve(ctx, seq, State{
			Phase:  PhaseFailed,
			Origin: origin,
			Reason: ReasonLoginFailed,
			Err:    serviceerr.ErrTransportFailure,
		})
	}

	switch resp.Kind {
	case identity.KindEmpty:
		m.clearCache(ctx)

		return m.resolve(ctx, seq, State{
			Phase:  PhaseFailed,
			Origin: origin,
			Reason: ReasonInvalidCredentials,
			Err:    serviceerr.ErrInvalidCredentials,
		})

	case identity.KindMalformed:
		slogctx.Error(ctx, "Identity endpoint returned an unusable response body")

		return m.resolve(ctx, seq, State{
			Phase:  PhaseFailed,
			Origin: origin,
			Reason: ReasonLoginFailed,
			Err:    serviceerr.ErrMalformedResponse,
		})
	}

	// Cache before dispatch: if the process is suspended mid-redirect the
	// credential is already durable for a future biometric replay. A failed
	// write is logged and otherwise ignored; the session stands regardless.
	if err := m.store.Put(ctx, body); err != nil {
		slogctx.Error(ctx, "Failed to persist credential cache", "error", err)
	}
	m.presence.Delete(presenceKey)

	url := handoff.BuildURL(m.redirectBase, resp.Result.AccessToken, resp.Result.RefreshToken, origin == OriginBiometric)

	if err := m.dispatcher.Dispatch(ctx, url); err != nil {
		if errors.Is(err, serviceerr.ErrNoHandler) {
			// No fallback transport exists for the hand-off.
			return m.resolve(ctx, seq, State{
				Phase:  PhaseFailed,
				Origin: origin,
				Reason: fmt.Sprintf("Don't know how to open this URL: %s", url),
				Err:    serviceerr.ErrNoHandler,
			})
		}

		// The hand-off is fire and forget; a handler that launched but
		// stumbled is not this session's failure.
		slogctx.Error(ctx, "Redirect dispatch reported an error", "error", err)
	}

	return m.resolve(ctx, seq, State{
		Phase:  PhaseAuthenticated,
		Origin: origin,
		Result: resp.Result,
	})
}

// ReplayFromCache re-issues the cached credential as a biometric-origin login.
// An empty cache returns serviceerr.ErrNoCachedCredential without touching
// state or network.
func (m *Manager) ReplayFromCache(ctx context.Context) (State, error) {
	blob, ok, err := m.store.Get(ctx)
	if err != nil {
		return State{}, fmt.Errorf("reading credential cache: %w", err)
	}
	if !ok {
		return State{}, serviceerr.ErrNoCachedCredential
	}

	cred, err := credential.DecodeBody(blob)
	if err != nil {
		// A slot that no longer parses is useless for replay; drop it.
		slogctx.Warn(ctx, "Cached credential is corrupt, clearing", "error", err)
		m.clearCache(ctx)

		return State{}, serviceerr.ErrNoCachedCredential
	}

	return m.Login(ctx, cred.Name, cred.Pass, OriginBiometric), nil
}

// HasCachedCredential reports whether a biometric replay is possible. It only
// probes the store; no prompt, no network.
func (m *Manager) HasCachedCredential(ctx context.Context) bool {
	if cached, ok := m.presence.Get(presenceKey); ok {
		return cached.(bool)
	}

	_, present, err := m.store.Get(ctx)
	if err != nil {
		slogctx.Warn(ctx, "Credential cache probe failed", "error", err)
		present = false
	}

	m.presence.Set(presenceKey, present, gocache.DefaultExpiration)

	return present
}

func (m *Manager) beginAttempt(origin Origin) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.state = State{Phase: PhasePending, Origin: origin}

	return m.seq
}

// resolve applies an attempt's terminal state unless a newer attempt has been
// issued since; the stale result is still returned to its own caller.
func (m *Manager) resolve(ctx context.Context, seq uint64, state State) State {
	m.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("origin", state.Origin.String()),
		attribute.String("outcome", state.Phase.String()),
	))

	m.mu.Lock()
	defer m.mu.Unlock()

	if seq != m.seq {
		slogctx.Info(ctx, "Discarding stale attempt resolution", "seq", seq, "latest", m.seq)
		return state
	}

	m.state = state

	return state
}

func (m *Manager) clearCache(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		// Cache trouble never fails the login flow.
		slogctx.Error(ctx, "Failed to clear credential cache", "error", err)
	}

	m.presence.Delete(presenceKey)
}
