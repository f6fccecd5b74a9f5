package importer

import (
	"bufio"
	"io"
	"strings"
)

// TextImporter turns plain text into Markdown paragraphs. Lines within a
// paragraph are kept, so bullet and numbered lines still form lists.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Document{
		Title:    baseTitle(filename),
		Markdown: joinBlocks(paragraphs),
	}, nil
}
