package importer

import (
	"fmt"
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	cases := map[string]string{
		"pancakes.md":       "*importer.MarkdownImporter",
		"Pancakes.MARKDOWN": "*importer.MarkdownImporter",
		"notes.txt":         "*importer.TextImporter",
		"shopping.csv":      "*importer.CSVImporter",
		"page.htm":          "*importer.HTMLImporter",
		"page.html":         "*importer.HTMLImporter",
		"scan.pdf":          "*importer.PDFImporter",
		"card.docx":         "*importer.DOCXImporter",
	}
	for name, want := range cases {
		imp, err := ForFile(name, false)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if got := fmt.Sprintf("%T", imp); got != want {
			t.Errorf("%s: expected %s, got %s", name, want, got)
		}
	}
}

func TestForFile_PDFFallbackFlag(t *testing.T) {
	imp, err := ForFile("scan.pdf", true)
	if err != nil {
		t.Fatal(err)
	}
	if !imp.(*PDFImporter).FallbackPdftotext {
		t.Error("expected pdftotext fallback enabled")
	}
}

func TestForFile_Unsupported(t *testing.T) {
	if _, err := ForFile("photo.jpg", false); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("photo.jpg") {
		t.Error("expected .jpg to be unsupported")
	}
	if !IsSupportedExtension("Recipe.DOCX") {
		t.Error("expected extension check to be case-insensitive")
	}
}

func TestBaseTitle(t *testing.T) {
	if got := baseTitle("/tmp/uploads/Banana Bread.md"); got != "Banana Bread" {
		t.Errorf("expected %q, got %q", "Banana Bread", got)
	}
}

func importString(t *testing.T, imp Importer, input, filename string) *Document {
	t.Helper()
	doc, err := imp.Import(strings.NewReader(input), filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}
