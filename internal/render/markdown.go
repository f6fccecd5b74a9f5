// Package render turns recipe Markdown into a container of block nodes.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/recipeview/internal/dom"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

// Eligibility markers consumed by the quantity scanner.
const (
	AttrQtyParse   = "data-qty-parse"
	AttrQtyNoParse = "data-qty-no-parse"
)

// FrontmatterClass marks the block that carries the raw YAML frontmatter.
const FrontmatterClass = "frontmatter"

var (
	qtyParseTags   = map[string]bool{"p": true, "li": true, "td": true, "th": true}
	qtyNoParseTags = map[string]bool{"code": true, "pre": true}
)

// MarkdownRenderer renders Markdown with goldmark (GFM) and parses the
// output into an html.Node tree.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Render drops hidden-tag lines, renders the rest and returns a detached
// <div> whose element children are the top-level blocks.
func (r *MarkdownRenderer) Render(source string, hiddenTags []string) (*html.Node, error) {
	text := FilterHiddenTags(source, hiddenTags)
	frontmatter, body := SplitFrontmatter(text)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	nodes, err := html.ParseFragment(&buf, dom.NewElement("div"))
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}

	container := dom.NewElement("div")
	if frontmatter != "" {
		pre := dom.NewElement("pre", html.Attribute{Key: "class", Val: FrontmatterClass})
		pre.AppendChild(dom.NewText(frontmatter))
		container.AppendChild(pre)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	convertCallouts(container)
	markEligibility(container)
	return container, nil
}

// SplitFrontmatter separates a leading "---" fenced YAML block from the
// body. The fence lines are not part of the returned frontmatter.
func SplitFrontmatter(text string) (frontmatter, body string) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\r") != "---" {
		return "", text
	}
	for i := 1; i < len(lines); i++ {
		switch strings.TrimRight(lines[i], " \t\r") {
		case "---", "...":
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return "", text
}

func markEligibility(root *html.Node) {
	for _, n := range dom.FindAll(root, func(n *html.Node) bool { return n.Type == html.ElementNode }) {
		switch {
		case qtyParseTags[n.Data]:
			dom.SetAttr(n, AttrQtyParse, "")
		case qtyNoParseTags[n.Data]:
			dom.SetAttr(n, AttrQtyNoParse, "")
		}
	}
}
