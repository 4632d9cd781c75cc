package app

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked instances",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if len(rt.reg) == 0 {
			fmt.Fprintln(out, ui.InfoMsg("no instances tracked"))
			return nil
		}

		names := make([]string, 0, len(rt.reg))
		connected := 0

		for name, rec := range rt.reg {
			names = append(names, name)
			if rec.Connected {
				connected++
			}
		}

		sort.Strings(names)

		fmt.Fprintln(out, ui.Bold(fmt.Sprintf(
			"Total: %d | Connected: %d | Disconnected: %d",
			len(names), connected, len(names)-connected,
		)))

		for _, name := range names {
			rec := rt.reg[name]

			fmt.Fprintf(out, "\n%s\n", ui.Header(name))

			pairs := [][2]string{
				{"status", ui.Connection(rec.Connected)},
				{"origin", string(rec.Origin)},
			}

			if rec.HasPersona() {
				pairs = append(pairs,
					[2]string{"persona", rec.Persona.Name},
					[2]string{"age", strconv.Itoa(rec.Persona.Age)},
					[2]string{"city", rec.Persona.City},
					[2]string{"profession", rec.Persona.Profession},
					[2]string{"photo", rec.PhotoID},
				)
			} else {
				pairs = append(pairs, [2]string{"persona", "not configured"})
			}

			fmt.Fprint(out, ui.KeyValues("  ", pairs...))
		}

		return nil
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(listCmd)
}
