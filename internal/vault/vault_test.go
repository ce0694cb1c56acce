package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mnemoslabs/mnemos/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), "test-passphrase")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWriteAndRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, d := range model.Domains {
		if err := s.Write(ctx, d, "greeting", "hello from "+string(d)); err != nil {
			t.Fatalf("write %s: %v", d, err)
		}
		got, err := s.Read(ctx, d, "greeting")
		if err != nil {
			t.Fatalf("read %s: %v", d, err)
		}
		if want := "hello from " + string(d); got != want {
			t.Errorf("read %s: got %q, want %q", d, got, want)
		}
	}
}

func TestReadMissingKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Read(ctx, model.DomainMind, "nope")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOverwriteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Write(ctx, model.DomainMind, "k", "v1")
	if err := s.Write(ctx, model.DomainMind, "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := s.Read(ctx, model.DomainMind, "k")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "v2" {
		t.Errorf("expected v2 after overwrite, got %q", got)
	}

	// No duplication in prefix scans.
	entries, err := s.ReadPrefix(ctx, model.DomainMind, "k", 10)
	if err != nil {
		t.Fatalf("read prefix: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 entry after overwrite, got %d", len(entries))
	}
	if entries[0].Value != "v2" {
		t.Errorf("expected v2 in scan, got %q", entries[0].Value)
	}
}

func TestSoulRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	values := []string{
		"hopeful",
		"",
		"emoji \U0001F525 and accents éàü",
		"multi\nline\nvalue",
	}
	for i, v := range values {
		key := fmt.Sprintf("rt:%d", i)
		if err := s.Write(ctx, model.DomainSoul, key, v); err != nil {
			t.Fatalf("write soul %q: %v", v, err)
		}
		got, err := s.Read(ctx, model.DomainSoul, key)
		if err != nil {
			t.Fatalf("read soul %q: %v", v, err)
		}
		if got != v {
			t.Errorf("soul round trip: got %q, want %q", got, v)
		}
	}
}

func TestSoulStoredCiphertext(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Write(ctx, model.DomainSoul, "secret", "plaintext-value")

	// Read the raw stored bytes directly; they must not contain the value.
	var raw []byte
	err := s.dbs[model.DomainSoul].QueryRowContext(ctx,
		`SELECT value FROM entries WHERE key = ?`, "secret").Scan(&raw)
	if err != nil {
		t.Fatalf("raw read: %v", err)
	}
	if string(raw) == "plaintext-value" {
		t.Error("soul value stored in plaintext")
	}
}

func TestSoulWrongPassphrase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir, "first-key")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Write(ctx, model.DomainSoul, "k", "v")
	s.Close()

	s2, err := Open(dir, "other-key")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	_, err = s2.Read(ctx, model.DomainSoul, "k")
	if !errors.Is(err, model.ErrCrypto) {
		t.Errorf("expected ErrCrypto with wrong passphrase, got %v", err)
	}
}

func TestReadPrefixOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		s.Write(ctx, model.DomainMind, fmt.Sprintf("animal:%d", i), "x")
	}
	s.Write(ctx, model.DomainMind, "plant:0", "y")

	entries, err := s.ReadPrefix(ctx, model.DomainMind, "animal:", 3)
	if err != nil {
		t.Fatalf("read prefix: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if want := fmt.Sprintf("animal:%d", i); e.Key != want {
			t.Errorf("entry %d: got key %q, want %q", i, e.Key, want)
		}
	}
}

func TestReadPrefixEscapesLikeMeta(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Write(ctx, model.DomainMind, "pct%key", "a")
	s.Write(ctx, model.DomainMind, "pctXkey", "b")

	entries, err := s.ReadPrefix(ctx, model.DomainMind, "pct%", 10)
	if err != nil {
		t.Fatalf("read prefix: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "pct%key" {
		t.Errorf("expected only the literal %% key, got %+v", entries)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Write(ctx, model.DomainBody, "k", "v")
	if err := s.Delete(ctx, model.DomainBody, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Read(ctx, model.DomainBody, "k"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, model.DomainBody, "k"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting absent key, got %v", err)
	}
}

func TestDurabilityAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir, "pass")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Write(ctx, model.DomainMind, "persist", "value")
	s.Write(ctx, model.DomainSoul, "persist", "secret")
	s.Close()

	s2, err := Open(dir, "pass")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	if got, _ := s2.Read(ctx, model.DomainMind, "persist"); got != "value" {
		t.Errorf("mind value lost across reopen: got %q", got)
	}
	if got, _ := s2.Read(ctx, model.DomainSoul, "persist"); got != "secret" {
		t.Errorf("soul value lost across reopen: got %q", got)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Write(ctx, model.DomainSoul, "a", "1")
	s.Write(ctx, model.DomainSoul, "b", "2")

	entries, err := s.ExportAll(ctx, model.DomainSoul)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Value != "1" {
		t.Errorf("export should decrypt, got %q", entries[0].Value)
	}

	s2 := newTestStore(t)
	n, err := s2.Import(ctx, entries)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}
	if got, _ := s2.Read(ctx, model.DomainSoul, "b"); got != "2" {
		t.Errorf("imported value mismatch: got %q", got)
	}
}

func TestConcurrentDomains(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var wg sync.WaitGroup
	for _, d := range model.Domains {
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(d model.Domain, i int) {
				defer wg.Done()
				key := fmt.Sprintf("c:%d", i)
				if err := s.Write(ctx, d, key, "v"); err != nil {
					t.Errorf("concurrent write %s/%s: %v", d, key, err)
				}
			}(d, i)
		}
	}
	wg.Wait()

	for _, d := range model.Domains {
		entries, err := s.ReadPrefix(ctx, d, "c:", 100)
		if err != nil {
			t.Fatalf("read prefix %s: %v", d, err)
		}
		if len(entries) != 10 {
			t.Errorf("domain %s: expected 10 entries, got %d", d, len(entries))
		}
	}
}
