// Package recipe builds the recipe document model from rendered Markdown:
// sections of main- and side-column components, with quantity expressions
// rewritten into placeholders that follow one shared scale factor.
package recipe

import (
	"math/big"

	"github.com/dgallion1/recipeview/internal/dom"
	"github.com/dgallion1/recipeview/internal/quantity"
	"github.com/dgallion1/recipeview/internal/scale"
	"golang.org/x/net/html"
)

// Kind tags the payload of a Component.
type Kind int

const (
	KindLeaf Kind = iota
	KindCheckableIngredientList
	KindSelectableStepList
	KindScaledQuantity
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindCheckableIngredientList:
		return "checkable-ingredient-list"
	case KindSelectableStepList:
		return "selectable-step-list"
	case KindScaledQuantity:
		return "scaled-quantity"
	}
	return "unknown"
}

// Column is one of the two placement targets within a section.
type Column int

const (
	Main Column = iota
	Side
)

func (c Column) String() string {
	if c == Side {
		return "side"
	}
	return "main"
}

// StepKind distinguishes an ordered list from a run of paragraphs.
type StepKind string

const (
	StepsList         StepKind = "list"
	StepsParagraphRun StepKind = "paragraph-run"
)

// Leaf renders a block verbatim. Node is the block itself, or for callouts a
// wrapper the callout was moved into.
type Leaf struct {
	Node *html.Node
	Tag  string
}

// IngredientList is an unordered list rendered with checkboxes.
type IngredientList struct {
	List       *html.Node
	Bullets    bool
	SourceLine int // Line of the source text the list starts on.
}

// StepList is a selectable sequence of steps. Blocks holds the single <ol>
// for StepsList, or the consecutive <p> blocks for StepsParagraphRun.
// Every StepList of one recipe shares Group.
type StepList struct {
	Kind   StepKind
	Blocks []*html.Node
	Group  string
}

// Component is a tagged union: exactly the payload matching Kind is set.
type Component struct {
	Kind      Kind
	OrigIndex int

	Leaf        *Leaf
	Ingredients *IngredientList
	Steps       *StepList
	Quantity    *ScaledQuantity
}

// Nodes returns the content roots of c.
func (c Component) Nodes() []*html.Node {
	switch c.Kind {
	case KindLeaf:
		return []*html.Node{c.Leaf.Node}
	case KindCheckableIngredientList:
		return []*html.Node{c.Ingredients.List}
	case KindSelectableStepList:
		return c.Steps.Blocks
	case KindScaledQuantity:
		return []*html.Node{c.Quantity.Node}
	}
	return nil
}

// Section is a run of the document between horizontal rules.
type Section struct {
	ContainsHeader bool
	Side           []Component
	Main           []Component
}

func (s *Section) column(c Column) *[]Component {
	if c == Side {
		return &s.Side
	}
	return &s.Main
}

// Recipe is the structured document produced by one parse.
type Recipe struct {
	Title         string
	ThumbnailPath string
	Sections      []Section
	Frontmatter   map[string]any

	// Rendered is the container the blocks were rendered into. Components
	// reference nodes inside it; callouts have been moved out into their
	// own wrappers.
	Rendered *html.Node

	// Scale is shared by every placeholder in Quantities.
	Scale      *scale.Store
	Quantities []Component
	StepGroup  string
}

// Close detaches every placeholder from the scale store. Placeholders keep
// the text of the last scale they saw.
func (r *Recipe) Close() {
	for _, c := range r.Quantities {
		c.Quantity.Release()
	}
}

// ScaledQuantity is a placeholder <span> whose text always shows the
// matched value multiplied by the recipe scale.
type ScaledQuantity struct {
	Node  *html.Node
	Match quantity.Match

	store       *scale.Store
	unsubscribe func()
}

func (q *ScaledQuantity) bind(store *scale.Store) {
	q.store = store
	q.unsubscribe = store.Subscribe(q.render)
}

func (q *ScaledQuantity) render(s *big.Rat) {
	for c := q.Node.FirstChild; c != nil; c = q.Node.FirstChild {
		q.Node.RemoveChild(c)
	}
	q.Node.AppendChild(dom.NewText(q.Match.Display(s)))
}

// Value returns the matched value times the current scale.
func (q *ScaledQuantity) Value() *big.Rat {
	return new(big.Rat).Mul(q.Match.Value, q.store.Get())
}

// Text returns the displayed text at the current scale, unit included.
func (q *ScaledQuantity) Text() string {
	return q.Match.Display(q.store.Get())
}

// Release stops following the scale store.
func (q *ScaledQuantity) Release() {
	if q.unsubscribe != nil {
		q.unsubscribe()
		q.unsubscribe = nil
	}
}
