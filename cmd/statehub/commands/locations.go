package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/imamik/statehub/cmd/statehub/handlers"
	"github.com/imamik/statehub/internal/location"
)

// locationCandidates lists every supported location in its shortest
// unambiguous form that starts with prefix.
func locationCandidates(prefix string) []string {
	var out []string
	for _, l := range location.All() {
		for _, c := range []string{l.Unambiguous(), l.Qualified()} {
			if strings.HasPrefix(c, prefix) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// completeLocationArg completes the positional argument at pos with
// location names.
func completeLocationArg(pos int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != pos {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return locationCandidates(toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

func completeLocationFlag(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return locationCandidates(toComplete), cobra.ShellCompDirectiveNoFileComp
}

// AddLocation returns the add-location command.
func AddLocation(g *handlers.Globals) *cobra.Command {
	var (
		cluster   string
		waitReady bool
	)

	cmd := &cobra.Command{
		Use:     "add-location <state> [location]",
		Aliases: []string{"al"},
		Short:   "Make a state available in a location",
		Long: `Make a state available in a location, or in every location of a cluster.

Locations are region codes, optionally qualified with the vendor
(aws:us-east-1, azure:eastus2). Without --wait a state can only gain one
location at a time.

Examples:
  statehub add-location alfa us-east-1
  statehub add-location alfa azure:eastus2 --wait
  statehub add-location alfa --cluster prod --wait`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeLocationArg(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := ""
			if len(args) == 2 {
				loc = args[1]
			}
			return handlers.AddLocation(cmd.Context(), *g, args[0], loc, cluster, waitReady)
		},
	}

	cmd.Flags().StringVar(&cluster, "cluster", "", "Add every location of this cluster")
	cmd.Flags().BoolVar(&waitReady, "wait", false, "Wait until the location is provisioned")

	return cmd
}

// RemoveLocation returns the remove-location command.
func RemoveLocation(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:               "remove-location <state> <location>",
		Aliases:           []string{"rl"},
		Short:             "Remove a location from a state",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeLocationArg(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.RemoveLocation(cmd.Context(), *g, args[0], args[1])
		},
	}
}
