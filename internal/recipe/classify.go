package recipe

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/recipeview/internal/dom"
	"github.com/dgallion1/recipeview/internal/render"
	"github.com/dgallion1/recipeview/internal/scale"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// noThreshold means no heading level sends the side column back to main.
const noThreshold = 7

// Options controls classification.
type Options struct {
	HiddenTags               []string // Applied by the renderer.
	SideColumnPattern        string   // Case-insensitive; empty never matches.
	TreatFirstHeadingAsTitle bool
	ShowBulletsInSideColumn  bool
}

func compileSidePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("side column pattern: %w", err)
	}
	return re, nil
}

// Classify walks the element children of container once and sorts them into
// sections and columns. source is the unrendered text, used to find the
// line each ingredient list starts on. group names the radio group shared
// by every step list of the recipe.
func Classify(container *html.Node, source string, opts Options, group string) (*Recipe, error) {
	side, err := compileSidePattern(opts.SideColumnPattern)
	if err != nil {
		return nil, err
	}
	return classify(container, source, opts, side, group), nil
}

type classifier struct {
	recipe *Recipe
	source string
	opts   Options
	side   *regexp.Regexp
	group  string

	section   int
	column    Column
	sideUntil int

	titleSet     bool
	thumbnailSet bool
}

func classify(container *html.Node, source string, opts Options, side *regexp.Regexp, group string) *Recipe {
	c := &classifier{
		recipe: &Recipe{
			Sections:  []Section{{}},
			Rendered:  container,
			Scale:     scale.NewDefault(),
			StepGroup: group,
		},
		source:    source,
		opts:      opts,
		side:      side,
		group:     group,
		sideUntil: noThreshold,
	}

	// The cursor is captured before each step because a callout is moved
	// out of container while it is being classified.
	i := 0
	for item := nextBlock(container.FirstChild); item != nil; {
		next := nextBlock(item.NextSibling)
		if c.step(item, i) {
			i++
		}
		item = next
	}
	return c.recipe
}

func nextBlock(n *html.Node) *html.Node {
	for ; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return n
		}
	}
	return nil
}

// step classifies one block at index i and reports whether the index
// advances for the next block.
func (c *classifier) step(item *html.Node, i int) bool {
	r := c.recipe

	if dom.IsElement(item, "hr") {
		r.Sections = append(r.Sections, Section{})
		c.section++
		c.column = Main
		c.sideUntil = noThreshold
		return true
	}
	sec := &r.Sections[c.section]

	if level := dom.HeadingLevel(item); level > 0 {
		text := strings.TrimSpace(dom.TextContent(item))
		if c.opts.TreatFirstHeadingAsTitle && level == 1 && c.section == 0 && !sec.ContainsHeader && !c.titleSet {
			r.Title = text
			c.titleSet = true
			return true
		}
		sec.ContainsHeader = true
		if c.side != nil && c.side.MatchString(text) {
			c.column = Side
			c.sideUntil = level
		} else if c.column == Side && level <= c.sideUntil {
			c.column = Main
			c.sideUntil = noThreshold
		}
		// Headings are rendered like any other block.
	}

	if dom.IsElement(item, "pre") && dom.HasClass(item, render.FrontmatterClass) {
		c.frontmatter(item)
		return true
	}

	if c.section == 0 && !c.thumbnailSet && !r.Sections[0].ContainsHeader {
		if img := dom.FindFirst(item, dom.ByTag("img")); img != nil {
			r.ThumbnailPath, _ = dom.Attr(img, "src")
			c.thumbnailSet = true
			return true
		}
	}

	switch {
	case dom.IsElement(item, "ul") && (c.column == Side || !sec.ContainsHeader):
		// Ingredient lists always go to the side column.
		sec.Side = append(sec.Side, Component{
			Kind:      KindCheckableIngredientList,
			OrigIndex: i,
			Ingredients: &IngredientList{
				List:       item,
				Bullets:    c.opts.ShowBulletsInSideColumn,
				SourceLine: listSourceLine(c.source, item, i),
			},
		})
		return true

	case dom.IsElement(item, "ol") && c.column == Main:
		c.push(sec, Component{
			Kind:      KindSelectableStepList,
			OrigIndex: i,
			Steps:     &StepList{Kind: StepsList, Blocks: []*html.Node{item}, Group: c.group},
		})
		return true

	case dom.IsElement(item, "p") && c.column == Main:
		if n := len(sec.Main); n > 0 {
			prev := sec.Main[n-1]
			if prev.Kind == KindSelectableStepList && prev.Steps.Kind == StepsParagraphRun {
				prev.Steps.Blocks = append(prev.Steps.Blocks, item)
				return true
			}
		}
		c.push(sec, Component{
			Kind:      KindSelectableStepList,
			OrigIndex: i,
			Steps:     &StepList{Kind: StepsParagraphRun, Blocks: []*html.Node{item}, Group: c.group},
		})
		return true

	case dom.HasClass(item, render.CalloutClass):
		// Callouts move intact into a wrapper of their own. Moving the
		// block takes it out of the sequence, so the index is not advanced.
		wrapper := dom.NewElement("div")
		dom.Detach(item)
		wrapper.AppendChild(item)
		c.push(sec, Component{
			Kind:      KindLeaf,
			OrigIndex: i,
			Leaf:      &Leaf{Node: wrapper, Tag: "div"},
		})
		return false
	}

	c.push(sec, Component{
		Kind:      KindLeaf,
		OrigIndex: i,
		Leaf:      &Leaf{Node: item, Tag: item.Data},
	})
	return true
}

func (c *classifier) push(sec *Section, comp Component) {
	col := sec.column(c.column)
	*col = append(*col, comp)
}

// frontmatter decodes the YAML block once. Malformed YAML is ignored: the
// block is metadata only and never rendered.
func (c *classifier) frontmatter(item *html.Node) {
	if c.recipe.Frontmatter != nil {
		return
	}
	var meta map[string]any
	if err := yaml.Unmarshal([]byte(dom.TextContent(item)), &meta); err != nil {
		return
	}
	c.recipe.Frontmatter = meta
}
