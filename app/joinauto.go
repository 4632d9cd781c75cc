package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/invitesource"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

var joinAutoCmd = &cobra.Command{
	Use:   "join-auto <name>",
	Short: "Join groups found by the invite-code scraper",
	Long: `Join-auto collects invite codes from the group directory's friendship
and romance categories and joins them with the same batch flow as join.`,
	Args: cobra.ExactArgs(1),
	RunE: runJoinAuto,
}

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(joinAutoCmd)
}

func runJoinAuto(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	out := cmd.OutOrStdout()

	rec, err := rt.record(name)
	if err != nil {
		return err
	}

	if !rec.Connected {
		return fmt.Errorf("instance %q is not connected", name)
	}

	fmt.Fprintln(out, ui.InfoMsg("collecting invite codes, this can take a minute..."))

	codes, err := invitesource.New().CollectCodes(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(out, ui.SuccessMsg("collected %d invite code(s)", len(codes)))

	return joinAndReport(cmd, rt, rec, codes)
}
