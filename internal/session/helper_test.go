package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	credstoremock "github.com/openkcm/login-agent/internal/credstore/mock"
	"github.com/openkcm/login-agent/internal/handoff"
	handoffmock "github.com/openkcm/login-agent/internal/handoff/mock"
	"github.com/openkcm/login-agent/internal/identity"
	"github.com/openkcm/login-agent/internal/session"
)

func dispatcherFor(opener *handoffmock.Opener) session.Dispatcher {
	return handoff.NewDispatcher(opener)
}

const (
	testRedirectBase = "companion://login"
	testDate         = "2024-03-07"
)

func testClock() time.Time {
	return time.Date(2024, time.March, 7, 10, 30, 0, 0, time.UTC)
}

type authStep struct {
	resp identity.Response
	err  error
}

// scriptedAuth answers Authenticate calls from a fixed script and records
// the bodies it was handed. The optional hook runs before each answer, which
// lets a test interleave a second attempt mid-flight.
type scriptedAuth struct {
	steps  []authStep
	bodies []string
	hook   func(call int)
}

func (a *scriptedAuth) Authenticate(_ context.Context, body []byte) (identity.Response, error) {
	call := len(a.bodies)
	a.bodies = append(a.bodies, string(body))

	if a.hook != nil {
		a.hook(call)
	}

	if call >= len(a.steps) {
		return identity.Response{}, nil
	}

	return a.steps[call].resp, a.steps[call].err
}

func validResponse(access, refresh string) identity.Response {
	return identity.Response{
		Kind: identity.KindValid,
		Result: identity.AuthorizationResult{
			AccessToken:  access,
			RefreshToken: refresh,
		},
	}
}

func newManager(
	t *testing.T,
	auth *scriptedAuth,
	store *credstoremock.Store,
	opener *handoffmock.Opener,
) *session.Manager {
	t.Helper()

	manager, err := session.NewManager(
		testRedirectBase,
		auth,
		store,
		dispatcherFor(opener),
		session.WithClock(testClock),
	)
	require.NoError(t, err)

	return manager
}
