package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	configDir     = ".foodshare"
	configFile    = "config.json"
	defaultServer = "http://localhost:3000"
)

// Config holds CLI configuration persisted to disk.
type Config struct {
	Server string `json:"server"`
}

func configDirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

func ensureConfigDir() (string, error) {
	dir, err := configDirPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}
	return dir, nil
}

// SaveConfig persists CLI config to ~/.foodshare/config.json.
func SaveConfig(cfg Config) error {
	dir, err := ensureConfigDir()
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, b, 0600); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// LoadConfig reads CLI config from ~/.foodshare/config.json.
func LoadConfig() (Config, error) {
	dir, err := configDirPath()
	if err != nil {
		return Config{}, err
	}

	b, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("corrupt config file: %w", err)
	}
	return cfg, nil
}

// resolveServer picks the server URL: flag, then environment, then the
// saved config, then the local default.
func resolveServer() (string, error) {
	if serverFlag != "" {
		return serverFlag, nil
	}
	if env := os.Getenv("FOODSHARE_SERVER"); env != "" {
		return env, nil
	}
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Server != "" {
		return cfg.Server, nil
	}
	return defaultServer, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI settings",
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server URL",
	Short: "Save the default server URL",
	Long: `Save the server URL used when --server and FOODSHARE_SERVER are unset.

Examples:
  foodshare config set-server https://foodshare.example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := SaveConfig(Config{Server: args[0]}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Server set to %s\n", args[0])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the server URL in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := resolveServer()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), server)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetServerCmd)
	configCmd.AddCommand(configShowCmd)
}
