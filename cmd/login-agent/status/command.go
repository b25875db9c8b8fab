package status

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/login-agent/internal/business"
	"github.com/openkcm/login-agent/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"status",
		"Login Agent credential cache status",
		"Reports whether a cached credential exists; exits non-zero when the cache is empty.",
		buildInfo,
		cmdutils.RunAsJob,
		business.StatusMain,
	)
}
