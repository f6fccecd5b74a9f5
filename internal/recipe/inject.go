package recipe

import (
	"github.com/dgallion1/recipeview/internal/dom"
	"github.com/dgallion1/recipeview/internal/quantity"
	"github.com/dgallion1/recipeview/internal/render"
	"golang.org/x/net/html"
)

// Placeholder attributes.
const (
	AttrQty       = "data-qty"
	AttrQtyValue  = "data-qty-value"
	AttrQtyFormat = "data-qty-format"
	AttrQtyUnit   = "data-qty-unit"
)

// InjectQuantities rewrites every quantity expression in the eligible text
// of r's components into a placeholder bound to r.Scale. Ingredient lists
// are scanned whole; leaves and step lists only inside elements marked
// data-qty-parse. data-qty-no-parse switches scanning off below an element
// until a descendant opts back in.
func InjectQuantities(r *Recipe) {
	s := &scanner{recipe: r}
	for _, sec := range r.Sections {
		for _, col := range [][]Component{sec.Side, sec.Main} {
			for _, c := range col {
				switch c.Kind {
				case KindLeaf:
					s.walk(c.Leaf.Node, false)
				case KindSelectableStepList:
					for _, b := range c.Steps.Blocks {
						s.walk(b, false)
					}
				case KindCheckableIngredientList:
					s.walk(c.Ingredients.List, true)
				}
			}
		}
	}
}

type scanner struct {
	recipe *Recipe
}

func (s *scanner) walk(n *html.Node, eligible bool) {
	switch n.Type {
	case html.ElementNode:
		if dom.HasAttr(n, AttrQty) {
			return
		}
		if dom.HasAttr(n, render.AttrQtyParse) {
			eligible = true
		}
		if dom.HasAttr(n, render.AttrQtyNoParse) {
			eligible = false
		}
	case html.TextNode:
		if eligible {
			s.split(n)
		}
		return
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		s.walk(c, eligible)
		c = next
	}
}

// split replaces text node n by the text before each match, a placeholder
// for the match, and the trailing remainder.
func (s *scanner) split(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	text := quantity.Normalize(n.Data)
	matches := quantity.Matches(text)
	if len(matches) == 0 {
		n.Data = text
		return
	}

	cursor := 0
	for _, m := range matches {
		if m.Index > cursor {
			parent.InsertBefore(dom.NewText(text[cursor:m.Index]), n)
		}
		parent.InsertBefore(s.placeholder(m), n)
		cursor = m.Index + m.Length
	}
	if cursor < len(text) {
		parent.InsertBefore(dom.NewText(text[cursor:]), n)
	}
	parent.RemoveChild(n)
}

func (s *scanner) placeholder(m quantity.Match) *html.Node {
	span := dom.NewElement("span",
		html.Attribute{Key: AttrQty, Val: "true"},
		html.Attribute{Key: AttrQtyValue, Val: m.Value.RatString()},
		html.Attribute{Key: AttrQtyFormat, Val: m.Format.String()},
	)
	if m.Unit != "" {
		dom.SetAttr(span, AttrQtyUnit, m.Unit)
	}

	q := &ScaledQuantity{Node: span, Match: m}
	q.bind(s.recipe.Scale)
	s.recipe.Quantities = append(s.recipe.Quantities, Component{
		Kind:      KindScaledQuantity,
		OrigIndex: len(s.recipe.Quantities),
		Quantity:  q,
	})
	return span
}
