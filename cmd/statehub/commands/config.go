package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/statehub/cmd/statehub/handlers"
)

// SaveConfig returns the save-config command.
func SaveConfig(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "save-config",
		Short: "Save the effective configuration to the config file",
		Long: `Save the effective configuration, including --api, --console and
--token overrides and the SHAPI and SHTOKEN environment variables, to
$STATEHUB_HOME/config.yaml (default ~/.statehub/config.yaml).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.SaveConfig(cmd.Context(), *g)
		},
	}
}
