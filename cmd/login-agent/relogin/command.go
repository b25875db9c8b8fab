package relogin

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/login-agent/internal/business"
	"github.com/openkcm/login-agent/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"relogin",
		"Login Agent biometric re-login",
		"Runs the biometric gate and replays the cached credential as a new login attempt.",
		buildInfo,
		cmdutils.RunAsInstrumentedJob,
		business.ReloginMain,
	)
}
