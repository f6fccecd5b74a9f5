package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/recipeview/internal/dom"
	"github.com/dgallion1/recipeview/internal/importer"
	"github.com/dgallion1/recipeview/internal/recipe"
	"github.com/dgallion1/recipeview/internal/scale"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	parseScale string
	parseJSON  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Structure a recipe file and print it",
	Long: `Import FILE (Markdown, text, CSV, HTML, DOCX or PDF), structure it into
sections and columns, and print the result at the requested scale.

Examples:
  recipeview parse pancakes.md
  recipeview parse pancakes.md --scale 3/2
  recipeview parse card.docx --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		factor, err := scale.Parse(parseScale)
		if err != nil {
			return err
		}

		path := args[0]
		imp, err := importer.ForFile(path, cfg.PDFFallbackPdftotext)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open recipe: %w", err)
		}
		defer f.Close()
		doc, err := imp.Import(f, path)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}

		p, err := recipe.NewParser(nil, cfg.RecipeOptions(), cliLogger())
		if err != nil {
			return err
		}
		r, err := p.Parse(doc.Markdown)
		if err != nil {
			return err
		}
		defer r.Close()
		if err := r.Scale.Set(factor); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if parseJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(r.Snapshot())
		}
		writeOutline(out, r, doc.Title)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseScale, "scale", "s", "1", `scale factor, e.g. "2", "1/2" or "1.5"`)
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print the structured recipe as JSON")
	rootCmd.AddCommand(parseCmd)
}

func cliLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// writeOutline prints the recipe as plain text, one line per component.
func writeOutline(w io.Writer, r *recipe.Recipe, fallbackTitle string) {
	title := r.Title
	if title == "" {
		title = fallbackTitle
	}
	if title != "" {
		fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len([]rune(title))))
	}
	fmt.Fprintf(w, "scale: %s\n", r.Scale.Get().RatString())

	for i, sec := range r.Sections {
		fmt.Fprintf(w, "\n[section %d]\n", i+1)
		for _, col := range []struct {
			name  string
			comps []recipe.Component
		}{{"side", sec.Side}, {"main", sec.Main}} {
			for _, c := range col.comps {
				fmt.Fprintf(w, "  %-4s %-26s %s\n", col.name, c.Kind, summary(c))
			}
		}
	}
}

func summary(c recipe.Component) string {
	var parts []string
	for _, n := range c.Nodes() {
		if text := strings.Join(strings.Fields(dom.TextContent(n)), " "); text != "" {
			parts = append(parts, text)
		}
	}
	rs := []rune(strings.Join(parts, " / "))
	if len(rs) > 72 {
		return string(rs[:69]) + "..."
	}
	return string(rs)
}
