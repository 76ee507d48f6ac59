package index

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/paperreader/paperbot/ai"
)

// Builder creates and loads per-paper semantic indexes. Index files
// live under a single directory, one JSON file per paper id.
type Builder struct {
	dir      string
	model    string
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewBuilder creates a Builder that stores index files under dir.
// The model name is recorded in each index for provenance.
func NewBuilder(dir, model string, embedder ai.Embedder) *Builder {
	return &Builder{
		dir:      dir,
		model:    model,
		embedder: embedder,
		logger:   slog.Default().With("component", "index-builder"),
	}
}

// Path returns the index file location for a paper id.
func (b *Builder) Path(paperID string) string {
	return filepath.Join(b.dir, paperID+".json")
}

// Load reads a previously built index. Returns ErrIndexNotFound if the
// paper has no index file.
func (b *Builder) Load(paperID string) (*Index, error) {
	data, err := os.ReadFile(b.Path(paperID))
	if os.IsNotExist(err) {
		return nil, ErrIndexNotFound
	}
	if err != nil {
		return nil, &BuildError{PaperID: paperID, Stage: "load", Err: err}
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &BuildError{PaperID: paperID, Stage: "decode", Err: err}
	}
	return &idx, nil
}

// BuildOrLoad returns the paper's index, building it only if no index
// file exists yet. An existing index is never rebuilt and costs no
// embedding calls. The build is atomic: a crash mid-build leaves no
// index file, so the next run rebuilds from scratch.
func (b *Builder) BuildOrLoad(ctx context.Context, paperID, text string) (*Index, error) {
	idx, err := b.Load(paperID)
	if err == nil {
		b.logger.Debug("index already built", "paper", paperID, "chunks", len(idx.Chunks))
		return idx, nil
	}
	if !errors.Is(err, ErrIndexNotFound) {
		return nil, err
	}

	chunks, err := SplitText(text)
	if err != nil {
		return nil, &BuildError{PaperID: paperID, Stage: "split", Err: err}
	}
	if len(chunks) == 0 {
		return nil, &BuildError{PaperID: paperID, Stage: "split", Err: ErrEmptyText}
	}

	vectors, err := b.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return nil, &BuildError{PaperID: paperID, Stage: "embed", Err: err}
	}

	idx = &Index{
		PaperID:   paperID,
		Model:     b.model,
		Chunks:    make([]Chunk, len(chunks)),
		CreatedAt: time.Now(),
	}
	for i, chunk := range chunks {
		idx.Chunks[i] = Chunk{Text: chunk, Vector: vectors[i]}
	}

	if err := b.persist(idx); err != nil {
		return nil, &BuildError{PaperID: paperID, Stage: "persist", Err: err}
	}

	b.logger.Info("built paper index", "paper", paperID, "chunks", len(idx.Chunks))
	return idx, nil
}

// persist writes the index through a temporary file and renames it into
// place, so readers never observe a partial index.
func (b *Builder) persist(idx *Index) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, idx.PaperID+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, b.Path(idx.PaperID)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
