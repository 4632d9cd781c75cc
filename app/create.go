package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/lifecycle"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/persona"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

var (
	createWaitTimeout time.Duration
	createNoPersona   bool

	createCmd = &cobra.Command{
		Use:   "create <name>",
		Short: "Create an instance, connect it and assign a persona",
		Long: `Create registers a new instance on the gateway, shows the connect QR
code, waits for the connection to open and then runs the persona
pipeline, mirroring the full onboarding flow.`,
		Args: cobra.ExactArgs(1),
		RunE: runCreate,
	}
)

func init() { //nolint: gochecknoinits
	createCmd.Flags().DurationVar(&createWaitTimeout, "timeout", lifecycle.DefaultWaitTimeout, "How long to wait for the connection")
	createCmd.Flags().BoolVar(&createNoPersona, "no-persona", false, "Skip persona assignment after connecting")

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	manager := lifecycle.New(rt.gw, rt.store, rt.reg)

	if _, err = manager.Create(ctx, name, rt.createOptions()); err != nil {
		return err
	}

	fmt.Fprintln(out, ui.SuccessMsg("instance %q created", name))

	payload, err := manager.Connect(ctx, name)
	if err != nil {
		return err
	}

	displayQR(out, payload)

	fmt.Fprintln(out, ui.InfoMsg("waiting for the connection to open..."))

	connected, err := manager.WaitForConnection(ctx, name, createWaitTimeout)
	if err != nil {
		return err
	}

	if !connected {
		fmt.Fprintln(out, ui.WarnMsg("connection not established within %s; retry with: connect %s", createWaitTimeout, name))
		return nil
	}

	fmt.Fprintln(out, ui.SuccessMsg("instance %q connected", name))

	if createNoPersona {
		return nil
	}

	pipeline := persona.New(rt.gw, rt.store, persona.NewChatGenerator(rt.cfg.Generator), rt.reg, modelsDir)

	result, err := pipeline.Run(ctx, name)
	if err != nil {
		return err
	}

	printPersonaResult(out, result)

	return nil
}
