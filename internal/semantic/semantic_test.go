package semantic

import (
	"context"
	"testing"

	"github.com/mnemoslabs/mnemos/internal/embedding"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(t.TempDir(), embedding.NewHashEmbedder())
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	return ix
}

func TestSearchEmptyIndex(t *testing.T) {
	ix := newTestIndex(t)

	hits, err := ix.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if hits != nil {
		t.Errorf("expected no hits from an empty index, got %v", hits)
	}
}

func TestAddAndSearch(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)

	texts := []string{
		"a quiet evening by the lake",
		"the long drive through the mountains",
		"rainy sunday with old records",
	}
	for i, text := range texts {
		if err := ix.Add(ctx, string(rune('a'+i)), text); err != nil {
			t.Fatalf("add %q: %v", text, err)
		}
	}

	// The hash embedder is deterministic, so an exact-duplicate query ranks
	// its own document first with similarity ~1.
	hits, err := ix.Search(ctx, texts[1], 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].Text != texts[1] {
		t.Errorf("best hit = %q, want %q", hits[0].Text, texts[1])
	}
	if hits[0].Score < 0.99 {
		t.Errorf("exact duplicate score = %g, want ~1", hits[0].Score)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Errorf("hits not sorted best first: %v", hits)
		}
	}
}

func TestSearchClampsK(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)

	if err := ix.Add(ctx, "only", "the only memory"); err != nil {
		t.Fatalf("add: %v", err)
	}

	hits, err := ix.Search(ctx, "the only memory", 10)
	if err != nil {
		t.Fatalf("k above collection size must not error: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("expected 1 hit, got %d", len(hits))
	}
}

func TestAddReplacesByID(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)

	if err := ix.Add(ctx, "k1", "first version"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := ix.Add(ctx, "k1", "second version"); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	hits, err := ix.Search(ctx, "second version", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected a single document after replacement, got %d", len(hits))
	}
	if hits[0].Text != "second version" {
		t.Errorf("stored text = %q, want replacement", hits[0].Text)
	}
}

func TestOpenRequiresEmbedder(t *testing.T) {
	if _, err := Open(t.TempDir(), nil); err == nil {
		t.Fatal("expected an error opening without an embedder")
	}
}
