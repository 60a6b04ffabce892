package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/statehub/cmd/statehub/handlers"
)

// RegisterCluster returns the register-cluster command.
//
// It registers the current Kubernetes cluster, extends the selected states
// to the cluster locations, stores the cluster token and configmap and
// installs the statehub charts.
func RegisterCluster(g *handlers.Globals) *cobra.Command {
	var opts handlers.RegisterClusterOptions

	cmd := &cobra.Command{
		Use:     "register-cluster [name]",
		Aliases: []string{"rc"},
		Short:   "Register the current Kubernetes cluster",
		Long: `Register the current Kubernetes cluster with statehub.

The cluster name defaults to the current kubeconfig context. The cluster
locations are discovered from the node region labels.

Steps:
  1. Resolve the cluster name
  2. Discover the node locations
  3. Resolve the provider
  4. Register the cluster
  5. Extend the states to the cluster locations
  6. Prepare the namespace
  7. Store the cluster token
  8. Store the configmap
  9. Install the helm charts
  10. Claim ownership of unowned states

Steps 1 to 4 abort on failure. A failure after step 4 leaves the completed
steps in place; rerun with --resume to continue from the failed step.

Examples:
  statehub register-cluster
  statehub register-cluster prod --state alfa --state bravo --wait
  statehub register-cluster --no-state --skip-helm`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Name = args[0]
			}
			return handlers.RegisterCluster(cmd.Context(), *g, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.States, "state", nil, "State to make available to the cluster (repeatable, default \"default\")")
	flags.BoolVar(&opts.NoState, "no-state", false, "Do not make any state available to the cluster")
	flags.StringVar(&opts.DefaultStorageClass, "default-storage-class", "", "State backing the default storage class (default: first --state)")
	flags.BoolVar(&opts.NoDefaultStorageClass, "no-default-storage-class", false, "Do not set a default storage class")
	flags.BoolVar(&opts.NoStateOwner, "no-state-owner", false, "Do not claim ownership of unowned states")
	flags.StringVarP(&opts.Namespace, "namespace", "n", "", "Namespace for the statehub resources (default from config)")
	flags.BoolVar(&opts.SkipHelm, "skip-helm", false, "Do not install the helm charts")
	flags.StringVar(&opts.Provider, "provider", "", "Kubernetes provider: eks, aks, kops or generic (default: detected)")
	flags.BoolVar(&opts.Wait, "wait", false, "Wait until every added location is provisioned")
	flags.BoolVar(&opts.Resume, "resume", false, "Skip the steps completed by a previous failed run")

	cmd.MarkFlagsMutuallyExclusive("no-state", "state")
	cmd.MarkFlagsMutuallyExclusive("no-state", "default-storage-class")
	cmd.MarkFlagsMutuallyExclusive("no-default-storage-class", "default-storage-class")

	return cmd
}

// UnregisterCluster returns the unregister-cluster command.
func UnregisterCluster(g *handlers.Globals) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "unregister-cluster <name>",
		Aliases: []string{"uc"},
		Short:   "Unregister a cluster and release the states it owns",
		Long: `Unregister a cluster.

Every state owned by the cluster is released first, then the cluster
record is deleted. Make sure all pods using statehub volumes are
terminated and the statehub helm releases are uninstalled.

WARNING: the cluster can no longer use any state once unregistered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.UnregisterCluster(cmd.Context(), *g, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation")

	return cmd
}
