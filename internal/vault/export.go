package vault

import (
	"context"
	"fmt"

	"github.com/mnemoslabs/mnemos/internal/model"
)

// ExportAll returns every entry in a domain in key order, decrypted. Used for
// backups; pair with Import to restore.
func (s *Store) ExportAll(ctx context.Context, domain model.Domain) ([]model.VaultEntry, error) {
	db, err := s.domainDB(domain)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, key, value, created_at, updated_at FROM entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w: %w", domain, model.ErrStorage, err)
	}
	defer rows.Close()

	var out []model.VaultEntry
	for rows.Next() {
		e, err := s.scanEntry(rows, domain)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", domain, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Import writes entries back into their domains. Existing keys are
// overwritten (last writer wins, same as Write).
func (s *Store) Import(ctx context.Context, entries []model.VaultEntry) (int, error) {
	imported := 0
	for _, e := range entries {
		if err := s.Write(ctx, e.Domain, e.Key, e.Value); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
