// Package cortex implements the five-layer memory strata (stm, wm, ltm, epm,
// rfm) on a single durable SQLite store. Keys are layer-qualified and
// hierarchical ("epm:dad:1766000000") so a lexicographic prefix scan over
// them selects one subject's slice of one layer, newest first.
package cortex

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/mnemoslabs/mnemos/internal/model"
)

// Strata is the layered memory store. Safe for concurrent use; it never
// auto-evicts — retention is a caller policy (see Prune).
type Strata struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the strata database at path.
func Open(path string) (*Strata, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cortex dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=synchronous(full)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cortex: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS strata (
		id         TEXT NOT NULL,
		layer      TEXT NOT NULL,
		key        TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_strata_layer ON strata(layer);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cortex: %w", err)
	}
	return &Strata{db: db, path: path}, nil
}

// Etch stores payload under key in the given layer, replacing any existing
// payload at that key. The key must carry its layer prefix ("epm:...") so
// prefix recall stays consistent with direct recall.
func (s *Strata) Etch(ctx context.Context, layer model.Layer, key, payload string) error {
	if !strings.HasPrefix(key, string(layer)+":") {
		return fmt.Errorf("etch: key %q does not carry layer prefix %q", key, layer)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO strata (id, layer, key, payload, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
		ulid.Make().String(), string(layer), key, payload, now)
	if err != nil {
		return fmt.Errorf("etch %s: %w: %w", key, model.ErrStorage, err)
	}
	return nil
}

// Recall returns the payload stored under key in the given layer, or
// model.ErrNotFound.
func (s *Strata) Recall(ctx context.Context, layer model.Layer, key string) (string, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM strata WHERE layer = ? AND key = ?`,
		string(layer), key).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("recall %s: %w", key, model.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("recall %s: %w: %w", key, model.ErrStorage, err)
	}
	return payload, nil
}

// RecallPrefix returns at most limit entries whose keys start with prefix,
// most recent first (descending key order; timestamp-suffixed keys are
// zero-padded, see EpochKey, so key order is chronological order). The prefix
// must already encode the layer ("epm:dad:") and the limit is mandatory —
// unbounded recall is not offered.
func (s *Strata) RecallPrefix(ctx context.Context, prefix string, limit int) ([]model.CortexEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("recall %s*: limit must be positive", prefix)
	}
	layer, _, ok := strings.Cut(prefix, ":")
	if !ok {
		return nil, fmt.Errorf("recall %s*: prefix must encode a layer (e.g. %q)", prefix, "epm:")
	}
	if _, err := model.ParseLayer(layer); err != nil {
		return nil, fmt.Errorf("recall %s*: %w", prefix, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, layer, key, payload, created_at FROM strata
		 WHERE key LIKE ? ESCAPE '\'
		 ORDER BY key DESC LIMIT ?`,
		escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("recall %s*: %w: %w", prefix, model.ErrStorage, err)
	}
	defer rows.Close()

	var out []model.CortexEntry
	for rows.Next() {
		var e model.CortexEntry
		var layerStr, createdAt string
		if err := rows.Scan(&e.ID, &layerStr, &e.Key, &e.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("recall %s*: %w: %w", prefix, model.ErrStorage, err)
		}
		e.Layer = model.Layer(layerStr)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recall %s*: %w: %w", prefix, model.ErrStorage, err)
	}
	return out, nil
}

// Prune deletes all but the newest keep entries in a layer. Retention is a
// policy decision made by operators, never by the store itself.
func (s *Strata) Prune(ctx context.Context, layer model.Layer, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM strata WHERE layer = ? AND key NOT IN (
			SELECT key FROM strata WHERE layer = ? ORDER BY key DESC LIMIT ?
		)`,
		string(layer), string(layer), keep)
	if err != nil {
		return 0, fmt.Errorf("prune %s: %w: %w", layer, model.ErrStorage, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Close closes the strata database.
func (s *Strata) Close() error {
	return s.db.Close()
}

// epochWidth pads timestamp key segments to a fixed width so lexicographic
// order matches chronological order. 10 digits covers unix seconds until
// year 2286.
const epochWidth = 10

// EpochKey builds a layer-qualified, timestamp-suffixed key like
// "epm:dad:0000000100", zero-padded so key order is time order.
func EpochKey(layer model.Layer, subject string, t time.Time) string {
	return fmt.Sprintf("%s:%s:%0*d", layer, subject, epochWidth, t.Unix())
}

// ParseEpoch extracts the timestamp from a key's final segment. Returns false
// when the key carries no parsable epoch suffix.
func ParseEpoch(key string) (time.Time, bool) {
	idx := strings.LastIndex(key, ":")
	if idx < 0 {
		return time.Time{}, false
	}
	sec, err := strconv.ParseInt(key[idx+1:], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
