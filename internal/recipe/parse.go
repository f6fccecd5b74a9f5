package recipe

import (
	"fmt"
	"log/slog"
	"regexp"
	"sync/atomic"

	"github.com/dgallion1/recipeview/internal/render"
	"golang.org/x/net/html"
)

// Renderer turns Markdown source into a detached container whose element
// children are the document's top-level blocks. Lines consisting only of a
// hidden tag are dropped before rendering.
type Renderer interface {
	Render(source string, hiddenTags []string) (*html.Node, error)
}

// stepGroups numbers the radio groups handed out to parsed recipes. It only
// ever increases, so every recipe in the process gets a distinct group.
var stepGroups atomic.Uint64

func nextStepGroup() string {
	return fmt.Sprintf("selectable-steps-%d", stepGroups.Add(1)-1)
}

// Parser renders, classifies and annotates recipes with fixed options.
type Parser struct {
	renderer Renderer
	opts     Options
	side     *regexp.Regexp
	log      *slog.Logger
}

// NewParser validates opts. A nil renderer means the goldmark renderer; a
// nil logger discards.
func NewParser(renderer Renderer, opts Options, log *slog.Logger) (*Parser, error) {
	side, err := compileSidePattern(opts.SideColumnPattern)
	if err != nil {
		return nil, err
	}
	if renderer == nil {
		renderer = render.NewMarkdownRenderer()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Parser{
		renderer: renderer,
		opts:     opts,
		side:     side,
		log:      log,
	}, nil
}

// Options returns the options the parser was built with.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse renders source, classifies the blocks and injects quantity
// placeholders. The returned recipe owns its node tree and scale store.
func (p *Parser) Parse(source string) (*Recipe, error) {
	container, err := p.renderer.Render(source, p.opts.HiddenTags)
	if err != nil {
		return nil, fmt.Errorf("render recipe: %w", err)
	}
	if container == nil {
		return nil, fmt.Errorf("render recipe: renderer returned no tree")
	}

	r := classify(container, source, p.opts, p.side, nextStepGroup())
	InjectQuantities(r)

	p.log.Debug("parsed recipe",
		"title", r.Title,
		"sections", len(r.Sections),
		"quantities", len(r.Quantities),
		"step_group", r.StepGroup,
	)
	return r, nil
}
