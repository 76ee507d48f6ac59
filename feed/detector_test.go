package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperreader/paperbot/core"
	"github.com/paperreader/paperbot/storage/badger"
)

func newTestDetector(t *testing.T, url string) (*Detector, func()) {
	t.Helper()

	papers, fingerprints, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)

	detector := NewDetector(NewFetcher(WithURL(url)), papers, fingerprints)
	return detector, func() { backend.Close() }
}

func TestDetectNewEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(catalogFixture))
	}))
	defer server.Close()

	detector, cleanup := newTestDetector(t, server.URL)
	defer cleanup()

	entries, err := detector.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2408.01234", entries[0].ID)
}

func TestDetectUnchangedPageShortCircuits(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(catalogFixture))
	}))
	defer server.Close()

	detector, cleanup := newTestDetector(t, server.URL)
	defer cleanup()

	first, err := detector.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)

	// Same content within the same window: nothing new, no reparse.
	second, err := detector.Detect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, int32(2), hits.Load())
}

func TestDetectFiltersKnownPapers(t *testing.T) {
	content := []byte(catalogFixture)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	papers, fingerprints, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = papers.AddPaper(context.Background(), &core.Paper{
		ID:    "2408.01234",
		Title: "Scaling Laws for Test-Time Compute",
	})
	require.NoError(t, err)

	detector := NewDetector(NewFetcher(WithURL(server.URL)), papers, fingerprints)

	entries, err := detector.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2408.05678", entries[0].ID)

	// A changed page triggers a reparse, but known papers stay filtered.
	content = append(content, []byte("<!-- updated -->")...)
	_, err = papers.AddPaper(context.Background(), &core.Paper{
		ID:    "2408.05678",
		Title: "Sparse Mixture Routing Revisited",
	})
	require.NoError(t, err)

	entries, err = detector.Detect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
