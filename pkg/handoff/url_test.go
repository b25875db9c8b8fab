package handoff_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/login-agent/pkg/handoff"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name      string
		biometric bool
		want      string
	}{
		{
			name:      "Password origin",
			biometric: false,
			want:      "companion://login?token=A|0&refresh_token=B",
		},
		{
			name:      "Biometric origin",
			biometric: true,
			want:      "companion://login?token=A|1&refresh_token=B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handoff.BuildURL("companion://login", "A", "B", tt.biometric)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	url := handoff.BuildURL("companion://login", "tok1", "ref1", true)

	parsed, err := handoff.Parse(url)
	require.NoError(t, err)

	want := handoff.Handoff{
		AccessToken:  "tok1",
		RefreshToken: "ref1",
		Biometric:    true,
	}
	if diff := cmp.Diff(want, parsed); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "No query", raw: "companion://login"},
		{name: "No refresh token", raw: "companion://login?token=A|0"},
		{name: "No token", raw: "companion://login?other=A|0&refresh_token=B"},
		{name: "No origin flag", raw: "companion://login?token=A&refresh_token=B"},
		{name: "Unknown origin flag", raw: "companion://login?token=A|2&refresh_token=B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handoff.Parse(tt.raw)
			assert.Error(t, err)
		})
	}
}
