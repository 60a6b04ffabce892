// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/statehub/cmd/statehub/handlers"
)

// Root returns the root command for the statehub CLI.
//
// Global flags are bound to a single handlers.Globals value shared by
// every subcommand.
func Root() *cobra.Command {
	g := &handlers.Globals{}

	cmd := &cobra.Command{
		Use:           "statehub",
		Short:         "Manage statehub states, clusters and volumes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&g.JSON, "json", false, "Print results as JSON")
	flags.BoolVarP(&g.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&g.API, "api", "", "Management API address (env SHAPI)")
	flags.StringVar(&g.Console, "console", "", "Management console address")
	flags.StringVar(&g.Token, "token", "", "Management API token (env SHTOKEN)")
	flags.StringVar(&g.Kubeconfig, "kubeconfig", "", "Path to the kubeconfig file")
	flags.StringVar(&g.KubeContext, "context", "", "Kubeconfig context to use")
	flags.StringVar(&g.MetricsFile, "metrics-file", "", "Write metrics in the textfile format to this path")

	// Cluster workflows
	cmd.AddCommand(RegisterCluster(g))
	cmd.AddCommand(UnregisterCluster(g))
	cmd.AddCommand(AddLocation(g))
	cmd.AddCommand(RemoveLocation(g))

	// States
	cmd.AddCommand(CreateState(g))
	cmd.AddCommand(DeleteState(g))
	cmd.AddCommand(ListStates(g))
	cmd.AddCommand(ShowState(g))
	cmd.AddCommand(SetOwner(g))
	cmd.AddCommand(UnsetOwner(g))

	// Clusters
	cmd.AddCommand(ListClusters(g))
	cmd.AddCommand(ShowCluster(g))

	// Volumes
	cmd.AddCommand(CreateVolume(g))
	cmd.AddCommand(DeleteVolume(g))
	cmd.AddCommand(SetVolume(g))
	cmd.AddCommand(ListVolumes(g))

	// Kubernetes helpers
	cmd.AddCommand(ListRegions(g))
	cmd.AddCommand(KubeHelpers(g)...)

	// Utility commands
	cmd.AddCommand(SaveConfig(g))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
