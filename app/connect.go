package app

import (
	"fmt"
	"io"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/gateway"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/lifecycle"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

var (
	connectWaitTimeout time.Duration

	connectCmd = &cobra.Command{
		Use:   "connect <name>",
		Short: "Request a fresh QR code and wait for the connection",
		Args:  cobra.ExactArgs(1),
		RunE:  runConnect,
	}
)

func init() { //nolint: gochecknoinits
	connectCmd.Flags().DurationVar(&connectWaitTimeout, "timeout", lifecycle.DefaultWaitTimeout, "How long to wait for the connection")

	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	manager := lifecycle.New(rt.gw, rt.store, rt.reg)

	payload, err := manager.Connect(ctx, name)
	if err != nil {
		return err
	}

	displayQR(out, payload)

	fmt.Fprintln(out, ui.InfoMsg("waiting for the connection to open..."))

	connected, err := manager.WaitForConnection(ctx, name, connectWaitTimeout)
	if err != nil {
		return err
	}

	if !connected {
		fmt.Fprintln(out, ui.WarnMsg("connection not established within %s; run connect again to retry", connectWaitTimeout))
		return nil
	}

	fmt.Fprintln(out, ui.SuccessMsg("instance %q connected", name))

	return nil
}

// displayQR renders the scannable code in the terminal, falling back
// to the gateway's web UI when no code could be extracted.
func displayQR(out io.Writer, payload *gateway.QRPayload) {
	code := payload.ExtractCode()
	if code == "" {
		fmt.Fprintln(out, ui.WarnMsg("no QR code in the gateway response; view it in the gateway web UI"))
		return
	}

	fmt.Fprintln(out, ui.InfoMsg("scan the QR code with the messaging app:"))
	qrterminal.GenerateHalfBlock(code, qrterminal.L, out)
}
