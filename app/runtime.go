package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/config"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/gateway"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/instance"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/logger"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/storage"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

// errSetupNeeded directs the operator to the setup command.
var errSetupNeeded = errors.New("configuration incomplete, run: go-evolution-admin setup")

// runtime bundles everything a command needs. It is constructed once
// per invocation and passed explicitly; there are no ambient
// singletons besides the global logger.
type runtime struct {
	cfg   *config.Config
	store *storage.Store
	reg   instance.Registry
	gw    *gateway.Client
}

// newRuntime loads config and registry and wires the gateway client.
// It fails with setup guidance when required settings are missing.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	if err := logger.Init(logLevel, filepath.Join(storageDir, "logs")); err != nil {
		return nil, err
	}

	store, err := storage.New(storageDir)
	if err != nil {
		return nil, err
	}

	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.NeedsSetup() {
		return nil, errSetupNeeded
	}

	cfg.ApplyDefaults()

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	reg, err := store.LoadRegistry()
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:   cfg,
		store: store,
		reg:   reg,
		gw:    gateway.New(cfg.Gateway.BaseURL, cfg.Gateway.Credential),
	}

	rt.trackLocalIP(cmd.OutOrStdout())

	return rt, nil
}

// trackLocalIP records the current outbound IP and advises when the
// gateway URL still embeds a previous one. The rewrite itself is an
// explicit action (config update-ip), never automatic.
func (r *runtime) trackLocalIP(out io.Writer) {
	ip := config.DetectLocalIP()

	if suggested, ok := r.cfg.RewriteForIP(ip); ok {
		fmt.Fprintln(out, ui.WarnMsg("local IP changed: %s → %s", r.cfg.LastDetectedIP, ip))
		fmt.Fprintln(out, ui.InfoMsg("suggested gateway URL: %s (apply with: config update-ip)", suggested))

		return
	}

	if r.cfg.LastDetectedIP != ip {
		r.cfg.LastDetectedIP = ip
		if err := r.store.SaveConfig(r.cfg); err != nil {
			log.Warn().Err(err).Msg("could not persist detected IP")
		}
	}
}

// createOptions builds the instance-create payload settings from config.
func (r *runtime) createOptions() gateway.CreateOptions {
	opts := gateway.CreateOptions{Defaults: r.cfg.Defaults}

	if r.cfg.Webhook.Enabled && r.cfg.Webhook.URL != "" {
		opts.WebhookURL = r.cfg.Webhook.URL
	}

	return opts
}

// record fetches a registry entry or reports the unknown name.
func (r *runtime) record(name string) (*instance.Record, error) {
	rec, ok := r.reg[name]
	if !ok {
		return nil, fmt.Errorf("instance %q not found", name)
	}

	return rec, nil
}

// promptLine reads one trimmed answer from the command's input.
func promptLine(cmd *cobra.Command, label string) string {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return ""
	}

	return strings.TrimSpace(scanner.Text())
}
