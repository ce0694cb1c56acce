package cortex

import (
	"context"
	"os"

	"github.com/mnemoslabs/mnemos/internal/model"
)

// Stats holds strata statistics.
type Stats struct {
	Path      string       `json:"path"`
	SizeBytes int64        `json:"size_bytes"`
	Total     int          `json:"total"`
	Layers    []LayerStats `json:"layers"`
}

// LayerStats holds per-layer counts.
type LayerStats struct {
	Layer model.Layer `json:"layer"`
	Count int         `json:"count"`
}

// Stats returns entry counts per layer.
func (s *Strata) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Path: s.path}
	if info, err := os.Stat(s.path); err == nil {
		st.SizeBytes = info.Size()
	}
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strata`).Scan(&st.Total)

	rows, err := s.db.QueryContext(ctx,
		`SELECT layer, COUNT(*) FROM strata GROUP BY layer ORDER BY COUNT(*) DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ls LayerStats
		rows.Scan(&ls.Layer, &ls.Count)
		st.Layers = append(st.Layers, ls)
	}
	return st, nil
}
