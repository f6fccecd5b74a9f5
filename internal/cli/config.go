package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/recipeview/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage recipeview configuration",
	Long: `Manage recipeview configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (RECIPEVIEW_*)
3. Config file (~/.recipeview/config.yaml)
4. Service environment (PORT, SIDE_COLUMN_PATTERN, ...) and defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		if f := viper.ConfigFileUsed(); f != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", f)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}
		path, err := writeDefaultConfig(filepath.Join(home, ".recipeview"))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created default configuration: %s\n", path)
		return nil
	},
}

// writeDefaultConfig creates dir/config.yaml holding config.Default. An
// existing file is never overwritten.
func writeDefaultConfig(dir string) (string, error) {
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(config.Default())
	if err != nil {
		return "", fmt.Errorf("error marshaling config: %w", err)
	}
	header := "# recipeview configuration\n# RECIPEVIEW_* environment variables and CLI flags take precedence.\n\n"
	if err := os.WriteFile(path, append([]byte(header), yamlData...), 0o644); err != nil {
		return "", fmt.Errorf("error writing config: %w", err)
	}
	return path, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
