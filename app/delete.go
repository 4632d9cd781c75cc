package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/lifecycle"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

var (
	deleteYes bool

	deleteCmd = &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an instance from the gateway and the local registry",
		Long: `Delete removes the instance remotely, deletes its photo blob from the
store and drops the registry record. The remote delete failing does not
keep the local record around.`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}
)

func init() { //nolint: gochecknoinits
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	out := cmd.OutOrStdout()

	if _, err = rt.record(name); err != nil {
		return err
	}

	if !deleteYes {
		answer := promptLine(cmd, fmt.Sprintf("delete instance %q? (y/N)", name))
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(out, ui.InfoMsg("aborted"))
			return nil
		}
	}

	if err = lifecycle.New(rt.gw, rt.store, rt.reg).Delete(cmd.Context(), name); err != nil {
		return err
	}

	fmt.Fprintln(out, ui.SuccessMsg("instance %q deleted", name))

	return nil
}
