// Package config defines the tool's singleton configuration document
// and its validation rules.
package config

import (
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	// DefaultGeneratorModel is used when no generator model was configured.
	DefaultGeneratorModel = "gemini-2.5-flash"
	// DefaultGeneratorBaseURL points at the OpenAI-compatible Gemini endpoint.
	DefaultGeneratorBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	// DefaultGatewayPort is the port suggested during setup.
	DefaultGatewayPort = "8080"
)

// Gateway holds the Evolution API endpoint settings.
type Gateway struct {
	BaseURL    string `json:"base_url"   validate:"required,url"`
	Credential string `json:"credential" validate:"required"`
}

// Generator holds the persona generator (chat-completion API) settings.
type Generator struct {
	APIKey  string `json:"api_key" validate:"required"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url"`
}

// Webhook holds the optional webhook passed at instance creation.
type Webhook struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
}

// Config is the singleton configuration document.
type Config struct {
	Gateway   Gateway   `json:"gateway"`
	Generator Generator `json:"generator"`
	Webhook   Webhook   `json:"webhook"`

	// Defaults are behavioral flags passed verbatim into the
	// instance-create payload.
	Defaults map[string]any `json:"defaults"`

	LastDetectedIP string `json:"last_detected_ip,omitempty"`
}

// NeedsSetup reports whether any required setting is still missing.
func (c *Config) NeedsSetup() bool {
	return c.Gateway.BaseURL == "" ||
		c.Gateway.Credential == "" ||
		c.Generator.APIKey == ""
}

// Validate checks a configured document. Once NeedsSetup is false this
// must never fail.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	return nil
}

// ApplyDefaults fills unset generator settings and the behavioral flags.
func (c *Config) ApplyDefaults() {
	if c.Generator.Model == "" {
		c.Generator.Model = DefaultGeneratorModel
	}

	if c.Generator.BaseURL == "" {
		c.Generator.BaseURL = DefaultGeneratorBaseURL
	}

	if c.Defaults == nil {
		c.Defaults = map[string]any{
			"reject_call":       false,
			"msg_call":          "",
			"groups_ignore":     true,
			"always_online":     false,
			"read_messages":     false,
			"read_status":       false,
			"sync_full_history": false,
		}
	}
}

// NormalizeBaseURL defaults the scheme to http and trims trailing slashes.
func NormalizeBaseURL(raw string) string {
	url := strings.TrimSpace(raw)
	if url == "" {
		return ""
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	return strings.TrimRight(url, "/")
}

// DetectLocalIP resolves the machine's outbound IP. It falls back to
// localhost when no route is available; no packet is actually sent.
func DetectLocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "localhost"
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "localhost"
	}

	return addr.IP.String()
}

// SuggestedBaseURL builds the gateway URL proposed during setup.
func SuggestedBaseURL(ip string) string {
	return "http://" + net.JoinHostPort(ip, DefaultGatewayPort)
}

// RewriteForIP returns the gateway URL with the previous IP replaced by
// the current one, and whether a rewrite applies at all. A rewrite only
// applies when the URL embeds the previously detected IP.
func (c *Config) RewriteForIP(currentIP string) (string, bool) {
	if c.LastDetectedIP == "" || c.LastDetectedIP == currentIP {
		return "", false
	}

	if !strings.Contains(c.Gateway.BaseURL, c.LastDetectedIP) {
		return "", false
	}

	return strings.ReplaceAll(c.Gateway.BaseURL, c.LastDetectedIP, currentIP), true
}
