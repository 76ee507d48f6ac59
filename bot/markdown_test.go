package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paperreader/paperbot/core"
)

func TestFormatSummary(t *testing.T) {
	paper := &core.Paper{
		ID:         "2408.01234",
		SourceLink: "https://huggingface.co/papers/2408.01234",
		PDFLink:    "https://arxiv.org/pdf/2408.01234.pdf",
		Summary: &core.Summary{
			Title:      "Scaling Laws for Test-Time Compute",
			ShortTitle: "Test-Time Scaling",
			Topic:      "inference scaling",
			Abstract:   []string{"first point", "second point"},
			Analysis:   "the analysis paragraph",
			Conclusion: "the conclusion paragraph",
		},
	}

	md := FormatSummary(paper)

	assert.Contains(t, md, "> ### Scaling Laws for Test-Time Compute\n")
	assert.Contains(t, md, "> [huggingface](https://huggingface.co/papers/2408.01234), [pdf](https://arxiv.org/pdf/2408.01234.pdf)\n")
	assert.Contains(t, md, ">#### Topic: inference scaling\n")
	assert.Contains(t, md, ">#### Abstract: \n> - first point\n> - second point\n")
	assert.Contains(t, md, "> the analysis paragraph\n")
	assert.Contains(t, md, "> the conclusion paragraph\n")
}

func TestFormatReply(t *testing.T) {
	reply := FormatReply("Some User", "what datasets were used?", "The paper uses C4 and The Pile.")

	assert.Equal(t,
		"@_**Some User** asked:\n```quote\nwhat datasets were used?\n```\n\nThe paper uses C4 and The Pile.",
		reply)
}
