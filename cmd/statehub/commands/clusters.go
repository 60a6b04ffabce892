package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/statehub/cmd/statehub/handlers"
)

// ListClusters returns the list-clusters command.
func ListClusters(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list-clusters",
		Aliases: []string{"lc"},
		Short:   "List registered clusters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ListClusters(cmd.Context(), *g)
		},
	}
}

// ShowCluster returns the show-cluster command.
func ShowCluster(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:     "show-cluster [name]",
		Aliases: []string{"sc"},
		Short:   "Show a cluster, its helm commands and visible states",
		Long: `Show a registered cluster.

The name defaults to the cluster of the current kubeconfig context.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return handlers.ShowCluster(cmd.Context(), *g, name)
		},
	}
}
