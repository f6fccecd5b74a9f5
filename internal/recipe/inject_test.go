package recipe

import (
	"math/big"
	"testing"

	"github.com/dgallion1/recipeview/internal/dom"
)

func injected(t *testing.T, src string) *Recipe {
	t.Helper()
	r := classifyOrFail(t, src, "", Options{})
	InjectQuantities(r)
	return r
}

func TestInjectQuantities_SplitsText(t *testing.T) {
	r := injected(t, `<h2>Method</h2><p data-qty-parse>Add 1 1/2 cups flour</p>`)
	if len(r.Quantities) != 1 {
		t.Fatalf("expected 1 quantity, got %d", len(r.Quantities))
	}

	q := r.Quantities[0]
	if q.Kind != KindScaledQuantity || q.OrigIndex != 0 {
		t.Errorf("unexpected component kind %s index %d", q.Kind, q.OrigIndex)
	}
	span := q.Quantity.Node
	if v, _ := dom.Attr(span, AttrQtyValue); v != "3/2" {
		t.Errorf("expected value 3/2, got %q", v)
	}
	if f, _ := dom.Attr(span, AttrQtyFormat); f != "mixed" {
		t.Errorf("expected mixed format, got %q", f)
	}
	if u, _ := dom.Attr(span, AttrQtyUnit); u != "cups" {
		t.Errorf("expected unit cups, got %q", u)
	}

	p := r.Sections[0].Main[1].Steps.Blocks[0]
	if got := dom.TextContent(p); got != "Add 1 1/2 cups flour" {
		t.Errorf("expected text unchanged at scale 1, got %q", got)
	}
	if span.Parent != p {
		t.Error("expected placeholder inside the paragraph")
	}
	if span.PrevSibling == nil || span.PrevSibling.Data != "Add " {
		t.Error("expected prefix text before the placeholder")
	}
	if span.NextSibling == nil || span.NextSibling.Data != " flour" {
		t.Error("expected remainder text after the placeholder")
	}
}

func TestInjectQuantities_FollowsScale(t *testing.T) {
	r := injected(t, `<h2>Method</h2><p data-qty-parse>Add 1 1/2 cups flour and 2 eggs</p>`)
	p := r.Sections[0].Main[1].Steps.Blocks[0]

	cases := []struct {
		scale *big.Rat
		want  string
	}{
		{big.NewRat(2, 1), "Add 3 cups flour and 4 eggs"},
		{big.NewRat(1, 2), "Add 3/4 cups flour and 1 eggs"},
		{big.NewRat(1, 1), "Add 1 1/2 cups flour and 2 eggs"},
		{big.NewRat(3, 1), "Add 4 1/2 cups flour and 6 eggs"},
	}
	for _, tc := range cases {
		if err := r.Scale.Set(tc.scale); err != nil {
			t.Fatalf("set %s: %v", tc.scale, err)
		}
		if got := dom.TextContent(p); got != tc.want {
			t.Errorf("scale %s: expected %q, got %q", tc.scale.RatString(), tc.want, got)
		}
	}

	if got := r.Quantities[0].Quantity.Value().RatString(); got != "9/2" {
		t.Errorf("expected scaled value 9/2, got %s", got)
	}
}

func TestInjectQuantities_UnmarkedLeafNotScanned(t *testing.T) {
	r := injected(t, `<h2>x</h2><div>2 cups</div><table><tr><td data-qty-parse>3 tsp</td><td>4 g</td></tr></table>`)
	if len(r.Quantities) != 1 {
		t.Fatalf("expected only the opted-in cell, got %d", len(r.Quantities))
	}
	if got := r.Quantities[0].Quantity.Text(); got != "3 tsp" {
		t.Errorf("expected %q, got %q", "3 tsp", got)
	}
}

func TestInjectQuantities_NoParseAndOptIn(t *testing.T) {
	src := `<h2>x</h2><p data-qty-parse>Use <code data-qty-no-parse>2 cups</code> and 3 eggs</p>` +
		`<pre data-qty-no-parse>4 tsp <span data-qty-parse>5 g</span></pre>`
	r := injected(t, src)

	var got []string
	for _, c := range r.Quantities {
		got = append(got, c.Quantity.Match.Raw)
	}
	if len(got) != 2 || got[0] != "3" || got[1] != "5" {
		t.Errorf("expected quantities [3 5], got %v", got)
	}
}

func TestInjectQuantities_IngredientListScannedWhole(t *testing.T) {
	r := injected(t, `<ul><li>200 g flour</li><li>a pinch of salt</li><li>½ tsp sugar</li></ul>`)
	if len(r.Quantities) != 2 {
		t.Fatalf("expected 2 quantities, got %d", len(r.Quantities))
	}
	if got := r.Quantities[1].Quantity.Match.Value.RatString(); got != "1/2" {
		t.Errorf("expected normalized glyph value 1/2, got %s", got)
	}
	if err := r.Scale.Set(big.NewRat(2, 1)); err != nil {
		t.Fatal(err)
	}
	list := r.Sections[0].Side[0].Ingredients.List
	if got := dom.TextContent(list); got != "400 g flour" + "a pinch of salt" + "1 tsp sugar" {
		t.Errorf("unexpected scaled list %q", got)
	}
}

func TestInjectQuantities_StepListItems(t *testing.T) {
	r := injected(t, `<h2>x</h2><ol><li data-qty-parse>Bake 25 minutes</li><li data-qty-parse>Rest 1/3 hour</li></ol>`)
	if len(r.Quantities) != 2 {
		t.Fatalf("expected 2 quantities, got %d", len(r.Quantities))
	}
	for i, c := range r.Quantities {
		if c.OrigIndex != i {
			t.Errorf("expected quantity index %d, got %d", i, c.OrigIndex)
		}
	}
}

func TestInjectQuantities_NoMatchKeepsNode(t *testing.T) {
	root := blocks(t, `<h2>x</h2><p data-qty-parse>Season to taste</p>`)
	p := dom.Elements(root)[1]
	text := p.FirstChild

	r, err := Classify(root, "", Options{}, "g")
	if err != nil {
		t.Fatal(err)
	}
	InjectQuantities(r)
	if p.FirstChild != text || text.NextSibling != nil {
		t.Error("expected text node without quantities left in place")
	}
}

func TestRecipe_CloseReleasesSubscriptions(t *testing.T) {
	r := injected(t, `<h2>x</h2><p data-qty-parse>1 cup and 2 cups</p>`)
	if n := r.Scale.Subscribers(); n != 2 {
		t.Fatalf("expected 2 subscribers, got %d", n)
	}
	r.Close()
	if n := r.Scale.Subscribers(); n != 0 {
		t.Errorf("expected no subscribers after close, got %d", n)
	}
	r.Close()

	if err := r.Scale.Set(big.NewRat(2, 1)); err != nil {
		t.Fatal(err)
	}
	if got := dom.TextContent(r.Quantities[0].Quantity.Node); got != "1 cup" {
		t.Errorf("expected released placeholder to keep its text, got %q", got)
	}
}
