package logout

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/login-agent/internal/business"
	"github.com/openkcm/login-agent/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"logout",
		"Login Agent logout",
		"Clears the cached credential so no biometric re-login is possible until the next password login.",
		buildInfo,
		cmdutils.RunAsJob,
		business.LogoutMain,
	)
}
