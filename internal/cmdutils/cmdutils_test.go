package cmdutils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openkcm/login-agent/internal/config"
)

func TestCobraCommand(t *testing.T) {
	t.Run("creates command with correct properties", func(t *testing.T) {
		businessFunc := func(ctx context.Context, cfg *config.Config) error {
			return nil
		}

		wrapperFunc := func(ctx context.Context, fn func(context.Context, *config.Config) error, cfg *config.Config) error {
			return fn(ctx, cfg)
		}

		cmd := CobraCommand("test-cmd", "short desc", "long description", "v1.0.0", wrapperFunc, businessFunc)

		assert.Equal(t, "test-cmd", cmd.Use)
		assert.Equal(t, "short desc", cmd.Short)
		assert.Equal(t, "long description", cmd.Long)
		assert.NotNil(t, cmd.RunE)
	})

	t.Run("RunE returns error when config loading fails", func(t *testing.T) {
		businessFunc := func(ctx context.Context, cfg *config.Config) error {
			return nil
		}

		wrapperFunc := func(ctx context.Context, fn func(context.Context, *config.Config) error, cfg *config.Config) error {
			return fn(ctx, cfg)
		}

		cmd := CobraCommand("test", "short", "long", "v1.0.0", wrapperFunc, businessFunc)

		// Execute will fail because no config file exists
		err := cmd.Execute()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "loading config")
	})
}
