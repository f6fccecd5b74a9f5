package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "RECIPEVIEW_API_KEY", "HIDDEN_TAGS", "SIDE_COLUMN_PATTERN",
		"TREAT_FIRST_HEADING_AS_TITLE", "SHOW_BULLETS_IN_SIDE_COLUMN",
		"MAX_UPLOAD_BYTES", "CACHE_TTL", "PDF_FALLBACK_PDFTOTEXT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.SideColumnPattern != DefaultSideColumnPattern {
		t.Errorf("expected default side pattern, got %q", cfg.SideColumnPattern)
	}
	if !cfg.TreatFirstHeadingAsTitle || !cfg.ShowBulletsInSideColumn || !cfg.PDFFallbackPdftotext {
		t.Errorf("expected boolean defaults to be true: %+v", cfg)
	}
	if cfg.MaxUploadBytes != 5<<20 {
		t.Errorf("expected 5 MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("expected 10m cache ttl, got %s", cfg.CacheTTL)
	}
	if len(cfg.HiddenTags) != 0 || cfg.APIKey != "" {
		t.Errorf("expected no hidden tags and no api key: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("RECIPEVIEW_API_KEY", "secret")
	t.Setenv("HIDDEN_TAGS", "recipe, #draft,,")
	t.Setenv("SIDE_COLUMN_PATTERN", "tools")
	t.Setenv("TREAT_FIRST_HEADING_AS_TITLE", "false")
	t.Setenv("MAX_UPLOAD_BYTES", "-1")
	t.Setenv("CACHE_TTL", "not-a-duration")

	cfg := Load()
	if cfg.Port != "9000" || cfg.APIKey != "secret" || cfg.SideColumnPattern != "tools" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.HiddenTags) != 2 || cfg.HiddenTags[0] != "recipe" || cfg.HiddenTags[1] != "#draft" {
		t.Errorf("expected [recipe #draft], got %q", cfg.HiddenTags)
	}
	if cfg.TreatFirstHeadingAsTitle {
		t.Error("expected title heading disabled")
	}
	if cfg.MaxUploadBytes != 5<<20 {
		t.Errorf("expected invalid upload limit replaced by default, got %d", cfg.MaxUploadBytes)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("expected unparsable ttl replaced by default, got %s", cfg.CacheTTL)
	}

	opts := cfg.RecipeOptions()
	if opts.SideColumnPattern != "tools" || opts.TreatFirstHeadingAsTitle || len(opts.HiddenTags) != 2 {
		t.Errorf("unexpected recipe options %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.SideColumnPattern = "(unclosed"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid side pattern")
	}

	cfg = Default()
	cfg.SideColumnPattern = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected empty side pattern to be valid, got %v", err)
	}

	cfg = Default()
	cfg.Port = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty port")
	}
}
