// Package app implements the operator-facing commands.
package app

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	storageDir string
	modelsDir  string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "go-evolution-admin",
		Short: "go-evolution-admin manages Evolution API messaging instances",
		Long: `go-evolution-admin manages a fleet of Evolution API messaging instances
through their lifecycle: creation, connection, persona assignment, group
joins and teardown, keeping a local registry reconciled with the gateway.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&storageDir, "storage-dir", "./storage", "Directory for config, registry and photo blobs")
	rootCmd.PersistentFlags().StringVar(&modelsDir, "models-dir", "./models", "Directory holding candidate profile photos")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
}

// Execute runs the root command under the given signal context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
