package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ralph-groupscholar/website/internal/domain"
)

const impactSignalsSQL = `
SELECT id, category, title, detail, metric, reported_at
FROM ` + signalsTable + `
ORDER BY reported_at DESC, id DESC
LIMIT $1`

// ImpactSignals returns the newest signals first.
func (s *Store) ImpactSignals(ctx context.Context, limit int) ([]domain.ImpactSignal, error) {
	rows, err := s.db.Pool.Query(ctx, impactSignalsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query impact signals: %w", err)
	}
	defer rows.Close()

	out := []domain.ImpactSignal{}
	for rows.Next() {
		var (
			id       int64
			reported time.Time
			sig      domain.ImpactSignal
		)
		if err := rows.Scan(&id, &sig.Category, &sig.Title, &sig.Detail, &sig.Metric, &reported); err != nil {
			return nil, fmt.Errorf("scan impact signal: %w", err)
		}
		sig.ID = domain.FormatID(id)
		sig.ReportedAt = domain.NewTimestamp(reported)
		out = append(out, sig)
	}
	return out, rows.Err()
}
