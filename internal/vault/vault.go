// Package vault implements the three durable key-value domains (mind, body,
// soul) backing the assistant's permanent memory. Each domain is its own
// SQLite database so writes to one domain never contend with another. The
// soul domain is encrypted at rest; callers always observe plaintext.
package vault

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/mnemoslabs/mnemos/internal/model"
)

// Store owns the three vault domains. Safe for concurrent use; SQLite
// serializes writers per domain file while WAL keeps readers unblocked.
type Store struct {
	dbs    map[model.Domain]*sql.DB
	dir    string
	cipher *soulCipher
}

// Open opens (or creates) the vault databases under dir. The passphrase keys
// the soul domain's cipher and must be stable across restarts, otherwise
// previously stored soul values become unreadable.
func Open(dir, passphrase string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	cipher, err := newSoulCipher(passphrase)
	if err != nil {
		return nil, err
	}

	s := &Store{dbs: make(map[model.Domain]*sql.DB), dir: dir, cipher: cipher}
	for _, d := range model.Domains {
		db, err := openDomainDB(filepath.Join(dir, string(d)+".db"))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open %s vault: %w", d, err)
		}
		s.dbs[d] = db
	}
	return s, nil
}

func openDomainDB(path string) (*sql.DB, error) {
	// synchronous(full): a write that returned is on disk, per the
	// durability contract.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=synchronous(full)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id         TEXT NOT NULL,
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (s *Store) domainDB(d model.Domain) (*sql.DB, error) {
	db, ok := s.dbs[d]
	if !ok {
		return nil, fmt.Errorf("unknown vault domain %q", d)
	}
	return db, nil
}

// Write stores value under (domain, key), replacing any existing value. The
// original id and created_at survive an overwrite; only value and updated_at
// change.
func (s *Store) Write(ctx context.Context, domain model.Domain, key, value string) error {
	db, err := s.domainDB(domain)
	if err != nil {
		return err
	}

	stored := []byte(value)
	if domain == model.DomainSoul {
		stored, err = s.cipher.seal(stored)
		if err != nil {
			return fmt.Errorf("write %s/%s: %w", domain, key, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.ExecContext(ctx,
		`INSERT INTO entries (id, key, value, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		ulid.Make().String(), key, stored, now, now)
	if err != nil {
		return fmt.Errorf("write %s/%s: %w: %w", domain, key, model.ErrStorage, err)
	}
	return nil
}

// Read returns the value stored under (domain, key). A missing key yields
// model.ErrNotFound; soul values are decrypted before return.
func (s *Store) Read(ctx context.Context, domain model.Domain, key string) (string, error) {
	db, err := s.domainDB(domain)
	if err != nil {
		return "", err
	}

	var stored []byte
	err = db.QueryRowContext(ctx, `SELECT value FROM entries WHERE key = ?`, key).Scan(&stored)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("read %s/%s: %w", domain, key, model.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read %s/%s: %w: %w", domain, key, model.ErrStorage, err)
	}

	if domain == model.DomainSoul {
		plain, err := s.cipher.open(stored)
		if err != nil {
			return "", fmt.Errorf("read %s/%s: %w", domain, key, err)
		}
		return string(plain), nil
	}
	return string(stored), nil
}

// ReadPrefix returns up to limit entries whose keys start with prefix, in
// ascending key order. An empty result is not an error.
func (s *Store) ReadPrefix(ctx context.Context, domain model.Domain, prefix string, limit int) ([]model.VaultEntry, error) {
	db, err := s.domainDB(domain)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, key, value, created_at, updated_at FROM entries
		 WHERE key LIKE ? ESCAPE '\'
		 ORDER BY key ASC LIMIT ?`,
		escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("scan %s/%s*: %w: %w", domain, prefix, model.ErrStorage, err)
	}
	defer rows.Close()

	var out []model.VaultEntry
	for rows.Next() {
		e, err := s.scanEntry(rows, domain)
		if err != nil {
			return nil, fmt.Errorf("scan %s/%s*: %w", domain, prefix, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %s/%s*: %w: %w", domain, prefix, model.ErrStorage, err)
	}
	return out, nil
}

// Delete removes (domain, key). Deleting an absent key yields
// model.ErrNotFound so callers can tell a no-op from a removal.
func (s *Store) Delete(ctx context.Context, domain model.Domain, key string) error {
	db, err := s.domainDB(domain)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w: %w", domain, key, model.ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete %s/%s: %w", domain, key, model.ErrNotFound)
	}
	return nil
}

// Close closes all domain databases.
func (s *Store) Close() error {
	var firstErr error
	for _, db := range s.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *Store) scanEntry(row scanner, domain model.Domain) (model.VaultEntry, error) {
	var e model.VaultEntry
	var stored []byte
	var createdAt, updatedAt string

	if err := row.Scan(&e.ID, &e.Key, &stored, &createdAt, &updatedAt); err != nil {
		return e, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	if domain == model.DomainSoul {
		plain, err := s.cipher.open(stored)
		if err != nil {
			return e, err
		}
		stored = plain
	}

	e.Domain = domain
	e.Value = string(stored)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return e, nil
}

// escapeLike escapes LIKE metacharacters so a prefix containing % or _
// matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
