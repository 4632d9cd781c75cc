package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/config"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/logger"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/storage"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/ui"
)

var (
	setupGatewayURL  string
	setupGatewayKey  string
	setupGenKey      string
	setupGenModel    string
	setupGenBaseURL  string
	setupWebhookURL  string

	setupCmd = &cobra.Command{
		Use:   "setup",
		Short: "Configure gateway and generator credentials",
		Long: `Setup fills in the required configuration: the Evolution API base URL
and credential, and the persona generator API key. Missing values are
prompted for; flags skip the prompts.`,
		RunE: runSetup,
	}
)

func init() { //nolint: gochecknoinits
	setupCmd.Flags().StringVar(&setupGatewayURL, "gateway-url", "", "Evolution API base URL")
	setupCmd.Flags().StringVar(&setupGatewayKey, "gateway-credential", "", "Evolution API global credential")
	setupCmd.Flags().StringVar(&setupGenKey, "generator-key", "", "Persona generator API key")
	setupCmd.Flags().StringVar(&setupGenModel, "generator-model", "", "Persona generator model")
	setupCmd.Flags().StringVar(&setupGenBaseURL, "generator-url", "", "Persona generator base URL")
	setupCmd.Flags().StringVar(&setupWebhookURL, "webhook-url", "", "Webhook URL passed at instance creation")

	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(logLevel, ""); err != nil {
		return err
	}

	store, err := storage.New(storageDir)
	if err != nil {
		return err
	}

	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	ip := config.DetectLocalIP()

	if setupGatewayURL != "" {
		cfg.Gateway.BaseURL = config.NormalizeBaseURL(setupGatewayURL)
	}

	if cfg.Gateway.BaseURL == "" {
		suggested := config.SuggestedBaseURL(ip)
		fmt.Fprintln(out, ui.InfoMsg("detected local IP: %s", ip))

		answer := prompt(in, out, fmt.Sprintf("Evolution API URL [%s]", suggested))
		if answer == "" {
			answer = suggested
		}

		cfg.Gateway.BaseURL = config.NormalizeBaseURL(answer)
	}

	if setupGatewayKey != "" {
		cfg.Gateway.Credential = setupGatewayKey
	}

	for cfg.Gateway.Credential == "" {
		cfg.Gateway.Credential = prompt(in, out, "Evolution API global credential")
		if cfg.Gateway.Credential == "" {
			fmt.Fprintln(out, ui.ErrorMsg("credential cannot be empty"))
		}
	}

	if setupGenKey != "" {
		cfg.Generator.APIKey = setupGenKey
	}

	for cfg.Generator.APIKey == "" {
		cfg.Generator.APIKey = prompt(in, out, "Persona generator API key")
		if cfg.Generator.APIKey == "" {
			fmt.Fprintln(out, ui.ErrorMsg("API key cannot be empty"))
		}
	}

	if setupGenModel != "" {
		cfg.Generator.Model = setupGenModel
	}

	if setupGenBaseURL != "" {
		cfg.Generator.BaseURL = setupGenBaseURL
	}

	if setupWebhookURL != "" {
		cfg.Webhook.URL = setupWebhookURL
		cfg.Webhook.Enabled = true
	}

	cfg.ApplyDefaults()
	cfg.LastDetectedIP = ip

	if err = cfg.Validate(); err != nil {
		return err
	}

	if err = store.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintln(out, ui.SuccessMsg("configuration saved to %s", store.Dir()))

	return nil
}

func prompt(in *bufio.Scanner, out io.Writer, label string) string {
	fmt.Fprintf(out, "%s: ", label)

	if !in.Scan() {
		return ""
	}

	return strings.TrimSpace(in.Text())
}
