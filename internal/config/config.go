package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/recipeview/internal/recipe"
)

// DefaultSideColumnPattern sends ingredient and equipment headings to the
// side column.
const DefaultSideColumnPattern = "equipment|ingredients|mise en place"

type Config struct {
	Port string `yaml:"port"`

	// Auth. Requests are unauthenticated when empty.
	APIKey string `yaml:"-"`

	// Recipe structuring
	HiddenTags               []string `yaml:"hidden_tags"`
	SideColumnPattern        string   `yaml:"side_column_pattern"`
	TreatFirstHeadingAsTitle bool     `yaml:"treat_first_heading_as_title"`
	ShowBulletsInSideColumn  bool     `yaml:"show_bullets_in_side_column"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Parsed view cache
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:                     "8090",
		SideColumnPattern:        DefaultSideColumnPattern,
		TreatFirstHeadingAsTitle: true,
		ShowBulletsInSideColumn:  true,
		MaxUploadBytes:           5 << 20,
		CacheTTL:                 10 * time.Minute,
		PDFFallbackPdftotext:     true,
	}
}

func Load() Config {
	def := Default()
	cfg := Config{
		Port: envOr("PORT", def.Port),

		APIKey: os.Getenv("RECIPEVIEW_API_KEY"),

		HiddenTags:               envList("HIDDEN_TAGS"),
		SideColumnPattern:        envOr("SIDE_COLUMN_PATTERN", def.SideColumnPattern),
		TreatFirstHeadingAsTitle: envBool("TREAT_FIRST_HEADING_AS_TITLE", def.TreatFirstHeadingAsTitle),
		ShowBulletsInSideColumn:  envBool("SHOW_BULLETS_IN_SIDE_COLUMN", def.ShowBulletsInSideColumn),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", def.MaxUploadBytes),

		CacheTTL: envDuration("CACHE_TTL", def.CacheTTL),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", def.PDFFallbackPdftotext),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := regexp.Compile("(?i)" + c.SideColumnPattern); err != nil {
		return fmt.Errorf("SIDE_COLUMN_PATTERN is invalid: %w", err)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// RecipeOptions returns the structuring options for the recipe parser.
func (c Config) RecipeOptions() recipe.Options {
	return recipe.Options{
		HiddenTags:               c.HiddenTags,
		SideColumnPattern:        c.SideColumnPattern,
		TreatFirstHeadingAsTitle: c.TreatFirstHeadingAsTitle,
		ShowBulletsInSideColumn:  c.ShowBulletsInSideColumn,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty entries.
func envList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
