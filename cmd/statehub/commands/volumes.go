package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/imamik/statehub/cmd/statehub/handlers"
)

// CreateVolume returns the create-volume command.
func CreateVolume(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:     "create-volume <state> <volume> <size-gi> <fs>",
		Aliases: []string{"cv"},
		Short:   "Create a volume in a state",
		Long: `Create a volume in a state.

Supported file systems: ext, ext2, ext3, ext4, jfs, swap, fat, fat32.

Example:
  statehub create-volume alfa data 10 ext4`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil || size == 0 {
				return fmt.Errorf("invalid volume size %q, expected a positive number of GiB", args[2])
			}
			return handlers.CreateVolume(cmd.Context(), *g, args[0], args[1], size, args[3])
		},
	}
}

// DeleteVolume returns the delete-volume command.
func DeleteVolume(g *handlers.Globals) *cobra.Command {
	var waitGone bool

	cmd := &cobra.Command{
		Use:     "delete-volume <state> <volume>",
		Aliases: []string{"dv"},
		Short:   "Delete a volume",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.DeleteVolume(cmd.Context(), *g, args[0], args[1], waitGone)
		},
	}

	cmd.Flags().BoolVar(&waitGone, "wait", false, "Wait until the volume is deleted")

	return cmd
}

// SetVolume returns the set-volume command.
func SetVolume(g *handlers.Globals) *cobra.Command {
	var primary string

	cmd := &cobra.Command{
		Use:     "set-volume <state> <volume>",
		Aliases: []string{"sv"},
		Short:   "Set the active location of a volume",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.SetVolume(cmd.Context(), *g, args[0], args[1], primary)
		},
	}

	cmd.Flags().StringVar(&primary, "primary", "", "Location to make active (required)")
	_ = cmd.MarkFlagRequired("primary")
	_ = cmd.RegisterFlagCompletionFunc("primary", completeLocationFlag)

	return cmd
}

// ListVolumes returns the list-volumes command.
func ListVolumes(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list-volumes <state>",
		Aliases: []string{"lv"},
		Short:   "List the volumes of a state",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ListVolumes(cmd.Context(), *g, args[0])
		},
	}
}
