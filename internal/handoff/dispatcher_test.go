package handoff_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/login-agent/internal/handoff"
	handoffmock "github.com/openkcm/login-agent/internal/handoff/mock"
	"github.com/openkcm/login-agent/internal/serviceerr"
)

func TestDispatch(t *testing.T) {
	opener := handoffmock.NewOpener()
	dispatcher := handoff.NewDispatcher(opener)

	err := dispatcher.Dispatch(t.Context(), "companion://login?token=A|0&refresh_token=B")
	require.NoError(t, err)
	assert.Equal(t, []string{"companion://login?token=A|0&refresh_token=B"}, opener.OpenedURLs)
}

func TestDispatch_NoHandler(t *testing.T) {
	opener := handoffmock.NewOpener(handoffmock.WithCanOpen(false))
	dispatcher := handoff.NewDispatcher(opener)

	err := dispatcher.Dispatch(t.Context(), "companion://login?token=A|0&refresh_token=B")
	assert.True(t, errors.Is(err, serviceerr.ErrNoHandler))
	// The diagnostic names the unreachable URL.
	assert.Contains(t, err.Error(), "companion://login?token=A|0&refresh_token=B")
	assert.Empty(t, opener.OpenedURLs)
}

func TestDispatch_OpenFailure(t *testing.T) {
	opener := handoffmock.NewOpener(handoffmock.WithOpenError(errors.New("fork failed")))
	dispatcher := handoff.NewDispatcher(opener)

	err := dispatcher.Dispatch(t.Context(), "companion://login?token=A|0&refresh_token=B")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, serviceerr.ErrNoHandler))
}

func TestExecOpener_CanOpen(t *testing.T) {
	tests := []struct {
		name    string
		command string
		rawURL  string
		want    bool
	}{
		{name: "Schemeless url", command: "true", rawURL: "not-a-url", want: false},
		{name: "Missing opener binary", command: "definitely-not-a-binary-xyz", rawURL: "companion://x", want: false},
		{name: "Resolvable binary and scheme", command: "true", rawURL: "companion://x", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := handoff.NewExecOpener(tt.command)
			assert.Equal(t, tt.want, opener.CanOpen(t.Context(), tt.rawURL))
		})
	}
}
