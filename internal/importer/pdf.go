package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFImporter extracts the text of a PDF as Markdown paragraphs. It tries
// the Go reader first, then pdftotext when FallbackPdftotext is set.
type PDFImporter struct {
	FallbackPdftotext bool
}

func (p *PDFImporter) Import(r io.Reader, filename string) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	text, err := extractPDFText(raw)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return &Document{
		Title:    baseTitle(filename),
		Markdown: joinBlocks(pdfParagraphs(text)),
	}, nil
}

func extractPDFText(raw []byte) (string, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

// extractPdftotext needs the document on disk.
func extractPdftotext(raw []byte) (string, error) {
	tmp, err := os.CreateTemp("", "recipeview-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", "-layout", tmp.Name(), "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

// pdfParagraphs splits extracted text on page breaks and blank lines.
func pdfParagraphs(text string) []string {
	var out []string
	for _, page := range strings.Split(text, "\f") {
		for _, para := range strings.Split(strings.ReplaceAll(page, "\r\n", "\n"), "\n\n") {
			var lines []string
			for _, l := range strings.Split(para, "\n") {
				if l = strings.TrimSpace(l); l != "" {
					lines = append(lines, l)
				}
			}
			if len(lines) > 0 {
				out = append(out, strings.Join(lines, "\n"))
			}
		}
	}
	return out
}
