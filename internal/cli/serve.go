package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/postnav/internal/app"
	"github.com/MrSnakeDoc/postnav/internal/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (configured through POSTNAV_* variables)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	a, err := app.New(config.Load())
	if err != nil {
		return err
	}
	return a.Run()
}
