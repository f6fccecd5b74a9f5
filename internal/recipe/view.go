package recipe

import (
	"github.com/dgallion1/recipeview/internal/dom"
)

// View is a JSON-safe snapshot of a recipe at its current scale.
type View struct {
	Title         string         `json:"title"`
	ThumbnailPath string         `json:"thumbnail_path,omitempty"`
	Scale         string         `json:"scale"`
	StepGroup     string         `json:"step_group"`
	Frontmatter   map[string]any `json:"frontmatter,omitempty"`
	Sections      []SectionView  `json:"sections"`
	Quantities    []QuantityView `json:"quantities"`
}

type SectionView struct {
	ContainsHeader bool            `json:"contains_header"`
	Side           []ComponentView `json:"side"`
	Main           []ComponentView `json:"main"`
}

type ComponentView struct {
	Kind       string   `json:"kind"`
	OrigIndex  int      `json:"orig_index"`
	Tag        string   `json:"tag,omitempty"`
	StepKind   string   `json:"step_kind,omitempty"`
	Group      string   `json:"group,omitempty"`
	SourceLine *int     `json:"source_line,omitempty"`
	Bullets    *bool    `json:"bullets,omitempty"`
	HTML       []string `json:"html"`
}

type QuantityView struct {
	Value  string `json:"value"`
	Scaled string `json:"scaled"`
	Format string `json:"format"`
	Unit   string `json:"unit,omitempty"`
	Text   string `json:"text"`
}

// Snapshot renders r into a View.
func (r *Recipe) Snapshot() View {
	v := View{
		Title:         r.Title,
		ThumbnailPath: r.ThumbnailPath,
		Scale:         r.Scale.Get().RatString(),
		StepGroup:     r.StepGroup,
		Frontmatter:   r.Frontmatter,
		Sections:      make([]SectionView, 0, len(r.Sections)),
		Quantities:    make([]QuantityView, 0, len(r.Quantities)),
	}
	for _, sec := range r.Sections {
		v.Sections = append(v.Sections, SectionView{
			ContainsHeader: sec.ContainsHeader,
			Side:           componentViews(sec.Side),
			Main:           componentViews(sec.Main),
		})
	}
	for _, c := range r.Quantities {
		q := c.Quantity
		v.Quantities = append(v.Quantities, QuantityView{
			Value:  q.Match.Value.RatString(),
			Scaled: q.Value().RatString(),
			Format: q.Match.Format.String(),
			Unit:   q.Match.Unit,
			Text:   q.Text(),
		})
	}
	return v
}

func componentViews(comps []Component) []ComponentView {
	out := make([]ComponentView, 0, len(comps))
	for _, c := range comps {
		cv := ComponentView{
			Kind:      c.Kind.String(),
			OrigIndex: c.OrigIndex,
		}
		switch c.Kind {
		case KindLeaf:
			cv.Tag = c.Leaf.Tag
		case KindCheckableIngredientList:
			line, bullets := c.Ingredients.SourceLine, c.Ingredients.Bullets
			cv.SourceLine = &line
			cv.Bullets = &bullets
		case KindSelectableStepList:
			cv.StepKind = string(c.Steps.Kind)
			cv.Group = c.Steps.Group
		}
		for _, n := range c.Nodes() {
			cv.HTML = append(cv.HTML, dom.Render(n))
		}
		out = append(out, cv)
	}
	return out
}
