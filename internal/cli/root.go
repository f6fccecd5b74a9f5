package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/recipeview/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "recipeview",
	Short: "Structure Markdown recipes into an interactive cooking view",
	Long: `recipeview turns a Markdown recipe into sections with a main and a side
column: checkable ingredient lists, selectable steps and quantities that
follow one shared scale factor.

Recipes can also be imported from text, CSV, HTML, DOCX and PDF files.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.recipeview/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringSlice("hidden-tags", nil, "tags whose lone lines are removed before rendering")
	rootCmd.PersistentFlags().String("side-pattern", config.DefaultSideColumnPattern, "headings matching this pattern open the side column")
	rootCmd.PersistentFlags().Bool("title-heading", true, "use the first level-1 heading as the recipe title")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("hidden_tags", rootCmd.PersistentFlags().Lookup("hidden-tags"))
	_ = viper.BindPFlag("side_column_pattern", rootCmd.PersistentFlags().Lookup("side-pattern"))
	_ = viper.BindPFlag("treat_first_heading_as_title", rootCmd.PersistentFlags().Lookup("title-heading"))
}

// initConfig reads in the config file and RECIPEVIEW_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".recipeview"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("RECIPEVIEW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file, RECIPEVIEW_* variables and flags over
// the environment defaults of config.Load.
func loadConfig(v *viper.Viper) (config.Config, error) {
	cfg := config.Load()

	if v.IsSet("port") {
		cfg.Port = v.GetString("port")
	}
	if v.IsSet("api_key") {
		cfg.APIKey = v.GetString("api_key")
	}
	if v.IsSet("hidden_tags") {
		cfg.HiddenTags = splitList(v.GetStringSlice("hidden_tags"))
	}
	if v.IsSet("side_column_pattern") {
		cfg.SideColumnPattern = v.GetString("side_column_pattern")
	}
	if v.IsSet("treat_first_heading_as_title") {
		cfg.TreatFirstHeadingAsTitle = v.GetBool("treat_first_heading_as_title")
	}
	if v.IsSet("show_bullets_in_side_column") {
		cfg.ShowBulletsInSideColumn = v.GetBool("show_bullets_in_side_column")
	}
	if v.IsSet("max_upload_bytes") {
		cfg.MaxUploadBytes = v.GetInt64("max_upload_bytes")
	}
	if v.IsSet("cache_ttl") {
		cfg.CacheTTL = v.GetDuration("cache_ttl")
	}
	if v.IsSet("pdf_fallback_pdftotext") {
		cfg.PDFFallbackPdftotext = v.GetBool("pdf_fallback_pdftotext")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// splitList accepts both YAML lists and comma-separated strings.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
