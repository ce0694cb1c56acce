// Package semantic provides the optional semantic recall collaborator: an
// embedded vector index the composer can consult for similarity hits. The
// engine consumes the Searcher interface; the chromem-backed Index here is
// one implementation, kept behind configuration because composition must
// work with no index at all.
package semantic

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/mnemoslabs/mnemos/internal/embedding"
)

// Result is one similarity hit, score in [0, 1], best first.
type Result struct {
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}

// Searcher answers similarity queries. Implemented by Index; consumed by the
// composer.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Result, error)
}

// Indexer accepts new texts for later recall. Implemented by Index; consumed
// by the recorder.
type Indexer interface {
	Add(ctx context.Context, id, text string) error
}

// Index is a persistent vector index on chromem-go, a pure-Go embedded
// vector database, with a pluggable embedder.
type Index struct {
	db       *chromem.DB
	col      *chromem.Collection
	embedder embedding.Embedder
}

// Open opens (or creates) the index at path. The embedder must stay the same
// across restarts or stored vectors stop being comparable.
func Open(path string, embedder embedding.Embedder) (*Index, error) {
	if embedder == nil {
		return nil, fmt.Errorf("semantic: embedder is required")
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("semantic: open index: %w", err)
	}

	col, err := db.GetOrCreateCollection("memories", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("semantic: open collection: %w", err)
	}

	return &Index{db: db, col: col, embedder: embedder}, nil
}

// Add embeds text and stores it under id. Re-adding an id replaces the
// previous document.
func (ix *Index) Add(ctx context.Context, id, text string) error {
	vec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("semantic: embed: %w", err)
	}

	err = ix.col.AddDocument(ctx, chromem.Document{
		ID:        id,
		Content:   text,
		Embedding: vec,
	})
	if err != nil {
		return fmt.Errorf("semantic: add document: %w", err)
	}
	return nil
}

// Search returns the k most similar stored texts, best first. Fewer than k
// documents in the index is not an error.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Result, error) {
	count := ix.col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		// chromem rejects nResults above the collection size.
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	vec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("semantic: embed query: %w", err)
	}

	hits, err := ix.col.QueryEmbedding(ctx, vec, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("semantic: query: %w", err)
	}

	out := make([]Result, 0, len(hits))
	for _, h := range hits {
		out = append(out, Result{Text: h.Content, Score: h.Similarity})
	}
	return out, nil
}
