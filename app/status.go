package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/lifecycle"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Probe the instance's connection state",
	Long: `Status asks the gateway for the instance's live connection state and
persists the local flag when it changed, picking up disconnects made
outside this tool.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}

		connected, err := lifecycle.New(rt.gw, rt.store, rt.reg).CheckStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Bold(args[0]), ui.Connection(connected))

		return nil
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(statusCmd)
}
