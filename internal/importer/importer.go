// Package importer converts uploaded recipe documents into Markdown the
// recipe parser understands.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Document is an imported recipe.
type Document struct {
	// Title comes from the file's own metadata or first heading, else the
	// file name. It is a fallback for recipes without a title heading.
	Title    string
	Markdown string
}

// Importer converts raw document bytes into Markdown.
type Importer interface {
	Import(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the importer for a filename. pdftotext enables the
// external pdftotext fallback for PDFs the Go reader cannot handle.
func ForFile(filename string, pdftotext bool) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".txt":
		return &TextImporter{}, nil
	case ".csv":
		return &CSVImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{FallbackPdftotext: pdftotext}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// joinBlocks separates Markdown blocks by a blank line.
func joinBlocks(blocks []string) string {
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}
