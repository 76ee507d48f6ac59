// Package pdftext extracts plain text from downloaded paper PDFs.
package pdftext

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText indicates the PDF yielded no extractable text, typically
// a scanned or image-only document.
var ErrNoText = errors.New("pdftext: no text content extracted")

// ExtractFile reads a PDF from disk and returns its plain text, with
// pages joined by blank lines. Pages that fail to parse are skipped;
// a document where every page fails returns ErrNoText.
func ExtractFile(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("pdftext: opening %s: %w", path, err)
	}
	defer f.Close()

	logger := slog.Default().With("component", "pdftext")

	var builder strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Debug("skipping unparseable page", "path", path, "page", i, "err", err)
			continue
		}

		if text != "" {
			if builder.Len() > 0 {
				builder.WriteString("\n\n")
			}
			builder.WriteString(text)
		}
	}

	extracted := builder.String()
	if strings.TrimSpace(extracted) == "" {
		return "", fmt.Errorf("%w: %s (%d pages)", ErrNoText, path, numPages)
	}

	return extracted, nil
}
