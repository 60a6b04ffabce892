package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/statehub/cmd/statehub/handlers"
)

// CreateState returns the create-state command.
func CreateState(g *handlers.Globals) *cobra.Command {
	var (
		owner     string
		locations []string
	)

	cmd := &cobra.Command{
		Use:     "create-state <name>",
		Aliases: []string{"cs"},
		Short:   "Create a new state",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.CreateState(cmd.Context(), *g, args[0], owner, locations)
		},
	}

	cmd.Flags().StringVarP(&owner, "owner", "o", "", "Cluster owning the state")
	cmd.Flags().StringArrayVarP(&locations, "location", "l", nil, "Initial location (repeatable)")
	_ = cmd.RegisterFlagCompletionFunc("location", completeLocationFlag)

	return cmd
}

// DeleteState returns the delete-state command.
func DeleteState(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:     "delete-state <name>",
		Aliases: []string{"ds"},
		Short:   "Delete a state",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.DeleteState(cmd.Context(), *g, args[0])
		},
	}
}

// ListStates returns the list-states command.
func ListStates(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list-states",
		Aliases: []string{"ls"},
		Short:   "List all states",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ListStates(cmd.Context(), *g)
		},
	}
}

// ShowState returns the show-state command.
func ShowState(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:     "show-state <name>",
		Aliases: []string{"ss"},
		Short:   "Show a state and the clusters that can use it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ShowState(cmd.Context(), *g, args[0])
		},
	}
}

// SetOwner returns the set-owner command.
func SetOwner(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "set-owner <state> <cluster>",
		Short: "Make a cluster the owner of a state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.SetOwner(cmd.Context(), *g, args[0], args[1])
		},
	}
}

// UnsetOwner returns the unset-owner command.
func UnsetOwner(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "unset-owner <state> <cluster>",
		Short: "Release the ownership of a state",
		Long: `Release the ownership of a state.

The cluster must be the current owner of the state.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.UnsetOwner(cmd.Context(), *g, args[0], args[1])
		},
	}
}
