// Package cli holds the cobra commands of the postnav binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/postnav/internal/version"
)

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "postnav",
		Short:         "postnav - Markdown posts with a navigation list",
		Version:       version.String(),
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newRenderCmd())

	return cmd
}
