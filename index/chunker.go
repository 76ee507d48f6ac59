package index

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is how much adjacent chunks share.
	DefaultChunkOverlap = 200
)

// SplitText breaks a paper's text into overlapping chunks suitable for
// embedding. Whitespace-only input yields no chunks.
func SplitText(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(DefaultChunkSize),
		textsplitter.WithChunkOverlap(DefaultChunkOverlap),
	)

	chunks, err := splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	// Drop whitespace-only chunks the splitter can produce at edges.
	out := chunks[:0]
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) != "" {
			out = append(out, chunk)
		}
	}
	return out, nil
}
