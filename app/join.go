package app

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/groups"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/instance"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

var joinCmd = &cobra.Command{
	Use:   "join <name> [links...]",
	Short: "Join groups from pasted invite links",
	Long: `Join accepts invite links or bare 22-character codes, either as
arguments or one per line on stdin, and joins them sequentially with a
pause between attempts. Failed items are reported, not retried; re-run
the batch to retry.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJoin,
}

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
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

	lines := args[1:]
	if len(lines) == 0 {
		fmt.Fprintln(out, ui.InfoMsg("paste invite links, one per line (EOF to finish):"))
		lines = readLines(cmd.InOrStdin())
	}

	codes := groups.ExtractInviteCodes(lines)
	if len(codes) == 0 {
		return fmt.Errorf("no valid invite codes found")
	}

	fmt.Fprintln(out, ui.InfoMsg("joining %d group(s)...", len(codes)))

	return joinAndReport(cmd, rt, rec, codes)
}

func readLines(in io.Reader) []string {
	var lines []string

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// joinAndReport runs the batch and prints the per-item accounting plus
// the tail of the group list matching the number of successes.
func joinAndReport(cmd *cobra.Command, rt *runtime, rec *instance.Record, codes []string) error {
	out := cmd.OutOrStdout()

	if rec.IsBusiness != nil && *rec.IsBusiness {
		fmt.Fprintln(out, ui.WarnMsg("business account: group invites may be rejected"))
	}

	orchestrator := groups.New(rt.gw)

	report := orchestrator.JoinAll(cmd.Context(), rec.Name, codes)

	fmt.Fprintln(out, ui.SuccessMsg("joined: %d", report.Successes()))

	if report.Failures() > 0 {
		fmt.Fprintln(out, ui.ErrorMsg("failed: %d", report.Failures()))
	}

	if report.Successes() == 0 {
		return nil
	}

	recent, err := orchestrator.RecentGroups(cmd.Context(), rec.Name, report.Successes())
	if err != nil {
		fmt.Fprintln(out, ui.WarnMsg("could not list groups: %v", err))
		return nil
	}

	for _, group := range recent {
		subject := group.Subject
		if subject == "" {
			subject = "(unnamed)"
		}

		fmt.Fprintf(out, "  • %s (%d members)\n", subject, group.Size)
	}

	return nil
}
