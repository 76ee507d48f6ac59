package index

import (
	"math"
	"sort"
	"time"
)

// Chunk is one embedded slice of a paper's text.
type Chunk struct {
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// Index is the persisted semantic index of a single paper. One index
// file exists per paper and is built exactly once.
type Index struct {
	PaperID   string    `json:"paperId"`
	Model     string    `json:"model"`
	Chunks    []Chunk   `json:"chunks"`
	CreatedAt time.Time `json:"createdAt"`
}

// Search returns the texts of the k chunks most similar to the query
// vector, most similar first. Fewer than k chunks returns all of them.
func (idx *Index) Search(queryVec []float32, k int) []string {
	if len(idx.Chunks) == 0 || k <= 0 {
		return nil
	}

	type scored struct {
		text  string
		score float32
	}

	results := make([]scored, 0, len(idx.Chunks))
	for _, chunk := range idx.Chunks {
		results = append(results, scored{
			text:  chunk.Text,
			score: cosineSimilarity(queryVec, chunk.Vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k < len(results) {
		results = results[:k]
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.text
	}
	return texts
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return float32(dot / denom)
}
