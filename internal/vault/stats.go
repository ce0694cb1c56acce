package vault

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mnemoslabs/mnemos/internal/model"
)

// Stats holds vault statistics.
type Stats struct {
	Dir     string        `json:"dir"`
	Domains []DomainStats `json:"domains"`
}

// DomainStats holds per-domain counts.
type DomainStats struct {
	Domain    model.Domain `json:"domain"`
	Entries   int          `json:"entries"`
	SizeBytes int64        `json:"size_bytes"`
}

// Stats returns entry counts and file sizes per domain.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Dir: s.dir}
	for _, d := range model.Domains {
		ds := DomainStats{Domain: d}
		s.dbs[d].QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&ds.Entries)
		if info, err := os.Stat(filepath.Join(s.dir, string(d)+".db")); err == nil {
			ds.SizeBytes = info.Size()
		}
		st.Domains = append(st.Domains, ds)
	}
	return st, nil
}
