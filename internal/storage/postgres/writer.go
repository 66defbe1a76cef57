package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ralph-groupscholar/website/internal/domain"
)

const (
	intentsTable = schema + ".intake_intents"
	signalsTable = schema + ".impact_signals"
)

const insertIntentSQL = `
INSERT INTO ` + intentsTable + ` (email, track, focus_note, time_zone, locale, user_agent, source, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
RETURNING id, submitted_at`

// InsertIntent appends one row. id always comes from the database; a zero
// SubmittedAt is replaced by the database clock.
func (s *Store) InsertIntent(ctx context.Context, in domain.IntakeIntent) (domain.IntakeIntent, error) {
	source := in.Source
	if source == "" {
		source = domain.DefaultSource
	}
	var submittedAt *time.Time
	if !in.SubmittedAt.IsZero() {
		t := in.SubmittedAt.UTC()
		submittedAt = &t
	}
	row := s.db.Pool.QueryRow(ctx, insertIntentSQL,
		in.Email, in.Track,
		in.FocusNote, in.TimeZone, in.Locale, in.UserAgent, // NULL when nil
		source, submittedAt,
	)
	out := in
	out.Source = source
	if err := row.Scan(&out.ID, &out.SubmittedAt); err != nil {
		return domain.IntakeIntent{}, fmt.Errorf("insert intent: %w", err)
	}
	out.SubmittedAt = out.SubmittedAt.UTC()
	return out, nil
}
