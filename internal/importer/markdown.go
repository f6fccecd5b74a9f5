package importer

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/recipeview/internal/render"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MarkdownImporter passes Markdown through with line endings normalized.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	src = bytes.TrimPrefix(src, utf8BOM)
	md := strings.ReplaceAll(string(src), "\r\n", "\n")

	title := firstHeading(md)
	if title == "" {
		title = baseTitle(filename)
	}
	return &Document{Title: title, Markdown: md}, nil
}

// firstHeading returns the text of the first top-level H1, ignoring any
// frontmatter block.
func firstHeading(md string) string {
	_, body := render.SplitFrontmatter(md)
	src := []byte(body)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return strings.TrimSpace(string(inlineText(h, src)))
		}
	}
	return ""
}

func inlineText(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.Write(inlineText(c, src))
	}
	return buf.Bytes()
}
