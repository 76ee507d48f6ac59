package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogFixture = `<!DOCTYPE html>
<html>
<head><title>Daily Papers - Hugging Face</title></head>
<body>
<main>
<article>
  <h3><a href="/papers/2408.01234">Scaling Laws for Test-Time Compute</a></h3>
  <ul>
    <li class="text-gray-600">Alice Zhang</li>
    <li class="text-gray-600">Bob Kumar</li>
    <li class="text-gray-600"> </li>
  </ul>
  <div class="leading-none">42</div>
  <a href="/papers/2408.01234#community">7</a>
</article>
<article>
  <h3><a href="/papers/2408.05678">Sparse Mixture Routing Revisited</a></h3>
  <ul><li class="text-gray-600">Carol Diaz</li></ul>
  <div class="leading-none">not-a-number</div>
</article>
<article>
  <div>malformed entry with no title link</div>
</article>
</main>
</body>
</html>`

func TestParseCatalog(t *testing.T) {
	entries, skipped, err := Parse([]byte(catalogFixture))
	require.NoError(t, err)

	require.Len(t, entries, 2)
	require.Len(t, skipped, 1)
	assert.Equal(t, 2, skipped[0].Index)

	first := entries[0]
	assert.Equal(t, "2408.01234", first.ID)
	assert.Equal(t, "Scaling Laws for Test-Time Compute", first.Title)
	assert.Equal(t, "https://huggingface.co/papers/2408.01234", first.SourceLink)
	assert.Equal(t, "https://arxiv.org/pdf/2408.01234.pdf", first.PDFLink)
	assert.Equal(t, []string{"Alice Zhang", "Bob Kumar"}, first.Authors)
	assert.Equal(t, 42, first.Upvotes)
	assert.Equal(t, 7, first.Comments)

	second := entries[1]
	assert.Equal(t, "2408.05678", second.ID)
	assert.Equal(t, 0, second.Upvotes, "malformed count should read as zero")
	assert.Equal(t, 0, second.Comments, "missing comment link should read as zero")
}

func TestParseEmptyDocument(t *testing.T) {
	entries, skipped, err := Parse([]byte("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, skipped)
}

func TestParseErrorMessage(t *testing.T) {
	perr := &ParseError{Index: 3, Reason: "no title link"}
	assert.Contains(t, perr.Error(), "entry 3")
	assert.Contains(t, perr.Error(), "no title link")
}
