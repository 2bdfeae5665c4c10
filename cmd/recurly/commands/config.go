package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/recurly-client/internal/constants"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
	"github.com/fivetwenty-io/recurly-client/pkg/recurlyclient"
)

// Config represents the CLI configuration.
type Config struct {
	Subdomain   string `json:"subdomain,omitempty"    yaml:"subdomain,omitempty"`
	BaseURL     string `json:"base_url,omitempty"     yaml:"base_url,omitempty"`
	APIKey      string `json:"api_key,omitempty"      yaml:"api_key,omitempty"`
	AccessToken string `json:"access_token,omitempty" yaml:"access_token,omitempty"`
	APIVersion  string `json:"api_version,omitempty"  yaml:"api_version,omitempty"`
	Output      string `json:"output"                 yaml:"output"`
	Debug       bool   `json:"debug"                  yaml:"debug"`
	RetryMax    int    `json:"retry_max"              yaml:"retry_max"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the site, credentials and output settings used by the recurly CLI",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigSetKeyCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with credentials masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.APIKey = maskSecret(config.APIKey)
			config.AccessToken = maskSecret(config.AccessToken)

			handled, err := writeStructured(cmd.OutOrStdout(), config)
			if handled {
				return err
			}

			return renderProperties(cmd.OutOrStdout(), [][]string{
				{"Subdomain", orNA(config.Subdomain)},
				{"Base URL", orNA(config.BaseURL)},
				{"API Key", orNA(config.APIKey)},
				{"Access Token", orNA(config.AccessToken)},
				{"API Version", orNA(config.APIVersion)},
				{"Output", orNA(config.Output)},
				{"Debug", strconv.FormatBool(config.Debug)},
				{"Retry Max", strconv.Itoa(config.RetryMax)},
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value and save it to the config file.

Keys: subdomain, base_url, api_key, access_token, api_version, output, debug, retry_max`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			config := loadConfig()

			err := setConfigValue(config, key, value)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			viper.Set(key, value)
			printf(cmd, "Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			config := loadConfig()

			err := unsetConfigValue(config, key)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			viper.Set(key, "")
			printf(cmd, "Unset %s\n", key)

			return nil
		},
	}
}

func newConfigSetKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key",
		Short: "Store the API key",
		Long:  "Read the site's private API key without echoing it and save it to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readSecret(cmd, "API key: ")
			if err != nil {
				return fmt.Errorf("failed to read API key: %w", err)
			}

			config := loadConfig()

			err = setConfigValue(config, "api_key", key)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			viper.Set("api_key", key)
			printf(cmd, "Saved API key %s\n", maskSecret(key))

			return nil
		},
	}
}

// readSecret reads one line from the command's input, without echo when the
// input is a terminal.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	if file, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)

		secret, err := term.ReadPassword(int(file.Fd()))

		_, _ = fmt.Fprintln(cmd.ErrOrStderr())

		if err != nil {
			return "", err
		}

		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "subdomain":
		config.Subdomain = value
	case "base_url":
		config.BaseURL = value
	case "api_key":
		config.APIKey = value
	case "access_token":
		config.AccessToken = value
	case "api_version":
		config.APIVersion = value
	case "output":
		switch value {
		case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			config.Output = value
		default:
			return fmt.Errorf("%w: %q", constants.ErrInvalidOutputFormat, value)
		}
	case "debug":
		debug, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: debug must be true or false", constants.ErrInvalidConfigValue)
		}

		config.Debug = debug
	case "retry_max":
		retryMax, err := strconv.Atoi(value)
		if err != nil || retryMax < 0 {
			return fmt.Errorf("%w: retry_max must be a non-negative integer", constants.ErrInvalidConfigValue)
		}

		config.RetryMax = retryMax
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func unsetConfigValue(config *Config, key string) error {
	switch key {
	case "subdomain":
		config.Subdomain = ""
	case "base_url":
		config.BaseURL = ""
	case "api_key":
		config.APIKey = ""
	case "access_token":
		config.AccessToken = ""
	case "api_version":
		config.APIVersion = ""
	case "output":
		config.Output = constants.FormatTable
	case "debug":
		config.Debug = false
	case "retry_max":
		config.RetryMax = 0
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}

	if len(secret) <= constants.VisibleKeySuffix {
		return constants.MaskedSecret
	}

	return constants.MaskedSecret + secret[len(secret)-constants.VisibleKeySuffix:]
}

func loadConfig() *Config {
	return &Config{
		Subdomain:   viper.GetString("subdomain"),
		BaseURL:     viper.GetString("base_url"),
		APIKey:      viper.GetString("api_key"),
		AccessToken: viper.GetString("access_token"),
		APIVersion:  viper.GetString("api_version"),
		Output:      outputFormat(),
		Debug:       viper.GetBool("debug"),
		RetryMax:    viper.GetInt("retry_max"),
	}
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".recurly")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateClient creates a client for the configured site.
func CreateClient() (recurly.Client, error) {
	config := loadConfig()

	if config.Subdomain == "" && config.BaseURL == "" {
		return nil, fmt.Errorf("%w, use 'recurly config set subdomain NAME' first", constants.ErrNoSiteConfigured)
	}

	clientConfig := &recurly.Config{
		Subdomain:   config.Subdomain,
		BaseURL:     config.BaseURL,
		APIKey:      config.APIKey,
		AccessToken: config.AccessToken,
		APIVersion:  config.APIVersion,
		RetryMax:    config.RetryMax,
		Debug:       config.Debug,
	}

	if config.RetryMax > 0 {
		clientConfig.RetryWaitMin = constants.DefaultRetryWaitMin
		clientConfig.RetryWaitMax = constants.DefaultRetryWaitMax
	}

	if config.Debug || viper.GetBool("verbose") {
		level := slog.LevelInfo
		if config.Debug {
			level = slog.LevelDebug
		}

		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		clientConfig.Logger = recurly.NewSlogLogger(slog.New(handler))
	}

	client, err := recurlyclient.New(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
