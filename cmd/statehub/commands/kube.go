package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/statehub/cmd/statehub/handlers"
)

// ListRegions returns the list-regions command.
func ListRegions(g *handlers.Globals) *cobra.Command {
	var zone bool

	cmd := &cobra.Command{
		Use:     "list-regions",
		Aliases: []string{"lr"},
		Short:   "List the cluster nodes grouped by region",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ListRegions(cmd.Context(), *g, zone)
		},
	}

	cmd.Flags().BoolVar(&zone, "zone", false, "Group by availability zone instead")

	return cmd
}

// KubeHelpers returns the hidden Kubernetes helper commands used when
// debugging a registration.
func KubeHelpers(g *handlers.Globals) []*cobra.Command {
	var allNamespaces bool

	listPods := &cobra.Command{
		Use:    "list-pods [namespace]",
		Short:  "List pods",
		Hidden: true,
		Args:   cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns := ""
			if len(args) == 1 && !allNamespaces {
				ns = args[0]
			}
			return handlers.ListPods(cmd.Context(), *g, ns)
		},
	}
	listPods.Flags().BoolVarP(&allNamespaces, "all-namespaces", "A", false, "List pods of every namespace")

	return []*cobra.Command{
		{
			Use:    "create-namespace [namespace]",
			Short:  "Get or create a namespace",
			Hidden: true,
			Args:   cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ns := ""
				if len(args) == 1 {
					ns = args[0]
				}
				return handlers.CreateNamespace(cmd.Context(), *g, ns)
			},
		},
		{
			Use:    "save-cluster-token <namespace> <token>",
			Short:  "Store a cluster token secret",
			Hidden: true,
			Args:   cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return handlers.SaveClusterToken(cmd.Context(), *g, args[0], args[1])
			},
		},
		{
			Use:    "setup-configmap <cluster> [namespace] [default-state]",
			Short:  "Store the statehub configmap",
			Hidden: true,
			Args:   cobra.RangeArgs(1, 3),
			RunE: func(cmd *cobra.Command, args []string) error {
				ns, state := "", ""
				if len(args) > 1 {
					ns = args[1]
				}
				if len(args) > 2 {
					state = args[2]
				}
				return handlers.SetupConfigMap(cmd.Context(), *g, args[0], ns, state)
			},
		},
		{
			Use:    "list-namespaces",
			Short:  "List namespaces",
			Hidden: true,
			Args:   cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return handlers.ListNamespaces(cmd.Context(), *g)
			},
		},
		{
			Use:    "list-nodes",
			Short:  "List nodes",
			Hidden: true,
			Args:   cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return handlers.ListNodes(cmd.Context(), *g)
			},
		},
		listPods,
	}
}
