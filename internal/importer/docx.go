package importer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXImporter converts Word paragraphs into Markdown. Heading styles become
// ATX headings and numbered or bulleted paragraphs become list items.
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader, filename string) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	out := &Document{}
	var blocks, items []string
	flushList := func() {
		if len(items) > 0 {
			blocks = append(blocks, strings.Join(items, "\n"))
			items = nil
		}
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		if level := docxHeadingLevel(para); level > 0 {
			flushList()
			if level == 1 && out.Title == "" {
				out.Title = text
			}
			blocks = append(blocks, strings.Repeat("#", level)+" "+text)
			continue
		}
		if docxIsListItem(para) {
			items = append(items, "- "+text)
			continue
		}
		flushList()
		blocks = append(blocks, text)
	}
	flushList()

	if out.Title == "" {
		out.Title = baseTitle(filename)
	}
	out.Markdown = joinBlocks(blocks)
	return out, nil
}

// docxHeadingLevel maps "Title", "Heading1" and "heading 1" styles to a
// heading level.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	n, ok := strings.CutPrefix(style, "heading")
	if !ok || len(n) != 1 || n[0] < '1' || n[0] > '6' {
		return 0
	}
	return int(n[0] - '0')
}

func docxIsListItem(para *docx.Paragraph) bool {
	if para.Properties == nil {
		return false
	}
	if para.Properties.NumProperties != nil {
		return true
	}
	if para.Properties.Style != nil {
		return strings.HasPrefix(strings.ToLower(para.Properties.Style.Val), "list")
	}
	return false
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
