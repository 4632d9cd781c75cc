package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/config"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/logger"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/storage"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect or change the stored configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE:  runConfigShow,
	}

	configResetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Clear the configuration; run setup afterwards",
		RunE:  runConfigReset,
	}

	configUpdateIPCmd = &cobra.Command{
		Use:   "update-ip",
		Short: "Rewrite the gateway URL after a local IP change",
		RunE:  runConfigUpdateIP,
	}
)

func init() { //nolint: gochecknoinits
	configCmd.AddCommand(configShowCmd, configResetCmd, configUpdateIPCmd)
	rootCmd.AddCommand(configCmd)
}

func openConfigStore() (*storage.Store, *config.Config, error) {
	if err := logger.Init(logLevel, ""); err != nil {
		return nil, nil, err
	}

	store, err := storage.New(storageDir)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	return store, cfg, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	_, cfg, err := openConfigStore()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	webhook := "disabled"
	if cfg.Webhook.Enabled {
		webhook = cfg.Webhook.URL
	}

	fmt.Fprint(out, ui.KeyValues("",
		[2]string{"gateway URL", cfg.Gateway.BaseURL},
		[2]string{"gateway credential", mask(cfg.Gateway.Credential)},
		[2]string{"generator model", cfg.Generator.Model},
		[2]string{"generator key", mask(cfg.Generator.APIKey)},
		[2]string{"webhook", webhook},
		[2]string{"last detected IP", cfg.LastDetectedIP},
	))

	return nil
}

func runConfigReset(cmd *cobra.Command, _ []string) error {
	store, _, err := openConfigStore()
	if err != nil {
		return err
	}

	if err = store.SaveConfig(&config.Config{}); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMsg("configuration cleared; run setup to reconfigure"))

	return nil
}

func runConfigUpdateIP(cmd *cobra.Command, _ []string) error {
	store, cfg, err := openConfigStore()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ip := config.DetectLocalIP()

	rewritten, ok := cfg.RewriteForIP(ip)
	if !ok {
		cfg.LastDetectedIP = ip
		if err = store.SaveConfig(cfg); err != nil {
			return err
		}

		fmt.Fprintln(out, ui.InfoMsg("gateway URL does not embed a previous IP; nothing to rewrite"))

		return nil
	}

	cfg.Gateway.BaseURL = rewritten
	cfg.LastDetectedIP = ip

	if err = store.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintln(out, ui.SuccessMsg("gateway URL updated to %s", rewritten))

	return nil
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}

	return secret[:2] + "****" + secret[len(secret)-2:]
}
