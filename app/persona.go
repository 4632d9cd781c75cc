package app

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/persona"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

var personaCmd = &cobra.Command{
	Use:   "persona <name>",
	Short: "Generate and apply a persona to a connected instance",
	Long: `Persona picks an unused photo, generates a profile identity and applies
photo, name and bio to the instance. An instance that already has a
persona is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}

		pipeline := persona.New(rt.gw, rt.store, persona.NewChatGenerator(rt.cfg.Generator), rt.reg, modelsDir)

		result, err := pipeline.Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printPersonaResult(cmd.OutOrStdout(), result)

		return nil
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(personaCmd)
}

func printPersonaResult(out io.Writer, result *persona.Result) {
	if result.AlreadyConfigured {
		fmt.Fprintln(out, ui.WarnMsg("this instance already has a persona configured"))
		return
	}

	fmt.Fprintln(out, ui.SuccessMsg("persona configured"))
	fmt.Fprint(out, ui.KeyValues("  ",
		[2]string{"name", result.Persona.Name},
		[2]string{"age", strconv.Itoa(result.Persona.Age)},
		[2]string{"city", result.Persona.City},
		[2]string{"profession", result.Persona.Profession},
		[2]string{"bio", result.Persona.Bio},
		[2]string{"photo", result.PhotoID},
	))

	if result.IsBusiness {
		fmt.Fprintln(out, ui.WarnMsg("business account: set the profile name manually in the app"))
	}
}
