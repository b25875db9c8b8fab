package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openkcm/login-agent/internal/config"
)

func validConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Identity.BaseURL = "https://id.example.com"
	cfg.Redirect.BaseURL = "companion://login"
	cfg.CredentialStore.Backend = config.StoreBackendFile

	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*config.Config)
		errAssert assert.ErrorAssertionFunc
	}{
		{
			name:      "Valid",
			mutate:    func(*config.Config) {},
			errAssert: assert.NoError,
		},
		{
			name:      "Missing identity base URL",
			mutate:    func(cfg *config.Config) { cfg.Identity.BaseURL = "" },
			errAssert: assert.Error,
		},
		{
			name:      "Missing redirect base URL",
			mutate:    func(cfg *config.Config) { cfg.Redirect.BaseURL = "" },
			errAssert: assert.Error,
		},
		{
			name:      "Unknown store backend",
			mutate:    func(cfg *config.Config) { cfg.CredentialStore.Backend = "postgres" },
			errAssert: assert.Error,
		},
		{
			name:      "ValKey backend",
			mutate:    func(cfg *config.Config) { cfg.CredentialStore.Backend = config.StoreBackendValKey },
			errAssert: assert.NoError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			tt.errAssert(t, config.Validate(cfg))
		})
	}
}
