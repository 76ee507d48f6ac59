package pdftext

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractFileMissing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "absent.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExtractFileInvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.pdf")
	if err := os.WriteFile(path, []byte("not a pdf file"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ExtractFile(path)
	if err == nil {
		t.Fatal("expected error for invalid PDF content")
	}
}

// Note: extraction from well-formed documents needs a real PDF fixture;
// integration tests with downloaded papers would cover that path.
