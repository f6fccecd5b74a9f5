package render

import (
	"regexp"
	"strings"

	"github.com/dgallion1/recipeview/internal/dom"
	"golang.org/x/net/html"
)

// CalloutClass marks a callout container.
const CalloutClass = "callout"

// "[!type]" with an optional fold marker and title.
var calloutHeader = regexp.MustCompile(`^\[!([A-Za-z][\w-]*)\]([+-]?)[ \t]*(.*)$`)

func convertCallouts(root *html.Node) {
	for _, bq := range dom.FindAll(root, dom.ByTag("blockquote")) {
		convertCallout(bq)
	}
}

// convertCallout replaces a blockquote opening with "[!type] Title" by
//
//	<div class="callout" data-callout="type">
//	  <div class="callout-title">Title</div>
//	  <div class="callout-content">...</div>
//	</div>
//
// The blockquote's children are moved into callout-content.
func convertCallout(bq *html.Node) {
	if bq.Parent == nil {
		return
	}
	p := dom.FindFirst(bq, func(n *html.Node) bool { return n.Type == html.ElementNode })
	if !dom.IsElement(p, "p") || p.Parent != bq || p.FirstChild == nil || p.FirstChild.Type != html.TextNode {
		return
	}
	first := p.FirstChild
	line, rest, _ := strings.Cut(first.Data, "\n")
	m := calloutHeader.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return
	}

	kind := strings.ToLower(m[1])
	title := strings.TrimSpace(m[3])
	if title == "" {
		title = strings.ToUpper(kind[:1]) + kind[1:]
	}

	callout := dom.NewElement("div",
		html.Attribute{Key: "class", Val: CalloutClass},
		html.Attribute{Key: "data-callout", Val: kind},
	)
	if m[2] != "" {
		dom.SetAttr(callout, "data-callout-fold", m[2])
	}
	titleEl := dom.NewElement("div", html.Attribute{Key: "class", Val: "callout-title"})
	titleEl.AppendChild(dom.NewText(title))
	content := dom.NewElement("div", html.Attribute{Key: "class", Val: "callout-content"})

	if rest != "" {
		first.Data = rest
	} else {
		p.RemoveChild(first)
		if p.FirstChild != nil && p.FirstChild.Type == html.ElementNode && p.FirstChild.Data == "br" {
			p.RemoveChild(p.FirstChild)
		}
		if strings.TrimSpace(dom.TextContent(p)) == "" && dom.FindFirst(p, dom.ByTag("img")) == nil {
			bq.RemoveChild(p)
		}
	}
	for c := bq.FirstChild; c != nil; c = bq.FirstChild {
		bq.RemoveChild(c)
		content.AppendChild(c)
	}

	callout.AppendChild(titleEl)
	callout.AppendChild(content)
	bq.Parent.InsertBefore(callout, bq)
	bq.Parent.RemoveChild(bq)
}
