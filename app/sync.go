package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/reconcile"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the local registry against the gateway",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}

		result, err := rt.syncRegistry(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if !result.Changed() {
			fmt.Fprintln(out, ui.InfoMsg("registry already up to date"))
			return nil
		}

		fmt.Fprintln(out, ui.SuccessMsg("registry reconciled: %d added, %d updated", result.Inserted, result.Updated))

		return nil
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(syncCmd)
}

func (r *runtime) syncRegistry(cmd *cobra.Command) (reconcile.Result, error) {
	return reconcile.New(r.gw, r.store).Sync(cmd.Context(), r.reg)
}
