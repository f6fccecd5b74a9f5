package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/recipeview/internal/dom"
	"golang.org/x/net/html"
)

// HTMLImporter converts the block structure of an HTML page into Markdown:
// headings, paragraphs, lists, rules, quotes, preformatted text, images and
// tables. Page chrome (scripts, navigation, headers, footers) is dropped.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := collapse(doc.Find("title").First().Text())
	if title == "" {
		title = baseTitle(filename)
	}

	doc.Find(pageChrome).Remove()
	var c htmlConverter
	if body := doc.Find("body"); body.Length() > 0 {
		c.children(body.Get(0))
	} else {
		for _, n := range doc.Nodes {
			c.children(n)
		}
	}
	return &Document{Title: title, Markdown: joinBlocks(c.blocks)}, nil
}

// pageChrome selects elements that never hold recipe content.
const pageChrome = "script, style, noscript, template, nav, header, footer, form, aside"

type htmlConverter struct {
	blocks []string
}

func (c *htmlConverter) add(block string) {
	if strings.TrimSpace(block) != "" {
		c.blocks = append(c.blocks, block)
	}
}

func (c *htmlConverter) children(n *html.Node) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.block(ch)
	}
}

func (c *htmlConverter) block(n *html.Node) {
	if n.Type == html.TextNode {
		c.add(collapse(n.Data))
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	if level := dom.HeadingLevel(n); level > 0 {
		c.add(strings.Repeat("#", level) + " " + inline(n))
		return
	}

	switch n.Data {
	case "p":
		c.add(inline(n))
	case "ul", "ol":
		c.add(list(n))
	case "hr":
		c.add("---")
	case "blockquote":
		var inner htmlConverter
		inner.children(n)
		c.add(quote(strings.Join(inner.blocks, "\n\n")))
	case "pre":
		c.add("```\n" + strings.Trim(dom.TextContent(n), "\n") + "\n```")
	case "img":
		c.add(image(n))
	case "table":
		c.add(table(n))
	default:
		c.children(n)
	}
}

func list(n *html.Node) string {
	ordered := n.Data == "ol"
	var lines []string
	for _, li := range dom.Elements(n) {
		if li.Data != "li" {
			continue
		}
		marker := "- "
		if ordered {
			marker = strconv.Itoa(len(lines)+1) + ". "
		}
		lines = append(lines, marker+inline(li))
	}
	return strings.Join(lines, "\n")
}

func quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight("> "+l, " ")
	}
	return strings.Join(lines, "\n")
}

func table(n *html.Node) string {
	var rows [][]string
	for _, tr := range dom.FindAll(n, dom.ByTag("tr")) {
		var cells []string
		for _, cell := range dom.Elements(tr) {
			if cell.Data == "td" || cell.Data == "th" {
				cells = append(cells, strings.ReplaceAll(inline(cell), "|", `\|`))
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return ""
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	var b strings.Builder
	for i, r := range rows {
		for len(r) < width {
			r = append(r, "")
		}
		b.WriteString("| " + strings.Join(r, " | ") + " |\n")
		if i == 0 {
			b.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func image(n *html.Node) string {
	src, _ := dom.Attr(n, "src")
	if src == "" {
		return ""
	}
	alt, _ := dom.Attr(n, "alt")
	return fmt.Sprintf("![%s](%s)", alt, src)
}

// inline flattens the inline content of n to one line of text. Images are
// kept, nested lists are flattened and other markup is dropped.
func inline(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "img":
				b.WriteString(" " + image(n) + " ")
				return
			case "br", "li":
				b.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapse(b.String())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
