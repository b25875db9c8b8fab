package login

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openkcm/login-agent/internal/business"
	"github.com/openkcm/login-agent/internal/cmdutils"
	"github.com/openkcm/login-agent/internal/config"
)

func Cmd(buildInfo string) *cobra.Command {
	var (
		identifier  string
		secretStdin bool
		secretFile  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login Agent password login",
		Long:  "Authenticates with an identifier and secret and dispatches the redirect hand-off.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := readSecret(cmd.InOrStdin(), secretStdin, secretFile)
			if err != nil {
				return err
			}

			cfg, err := cmdutils.LoadConfig(buildInfo)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			return cmdutils.RunAsInstrumentedJob(cmd.Context(), func(ctx context.Context, cfg *config.Config) error {
				return business.LoginMain(ctx, cfg, identifier, secret)
			}, cfg)
		},
	}

	cmd.Flags().StringVar(&identifier, "identifier", "", "account identifier (user name)")
	cmd.Flags().BoolVar(&secretStdin, "secret-stdin", false, "read the secret from stdin")
	cmd.Flags().StringVar(&secretFile, "secret-file", "", "read the secret from a file")
	_ = cmd.MarkFlagRequired("identifier")

	return cmd
}

// readSecret picks exactly one secret source. A trailing newline is stripped
// so `echo` and files edited by hand both work; interior whitespace is kept.
func readSecret(stdin io.Reader, fromStdin bool, file string) (string, error) {
	if fromStdin == (file != "") {
		return "", errors.New("exactly one of --secret-stdin and --secret-file is required")
	}

	var (
		raw []byte
		err error
	)

	if fromStdin {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(file)
	}

	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}

	secret := strings.TrimRight(string(raw), "\r\n")
	if secret == "" {
		return "", errors.New("the secret must not be empty")
	}

	return secret, nil
}
