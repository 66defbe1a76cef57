package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ralph-groupscholar/website/internal/domain"
)

// MixLimit is how many entries trackMix and sourceMix carry.
const MixLimit = 3

// Windows are half-open [start, $1). $1 is the caller's clock.
const pulseCountsSQL = `
SELECT
  COUNT(*)::bigint,
  COUNT(*) FILTER (WHERE submitted_at >= $1::timestamptz - interval '24 hours' AND submitted_at < $1)::bigint,
  COUNT(*) FILTER (WHERE submitted_at >= $1::timestamptz - interval '7 days' AND submitted_at < $1)::bigint,
  COUNT(*) FILTER (WHERE submitted_at >= $1::timestamptz - interval '14 days' AND submitted_at < $1::timestamptz - interval '7 days')::bigint,
  MAX(submitted_at),
  COUNT(*) FILTER (WHERE ` + focusWindow + `)::bigint,
  COALESCE(AVG(char_length(btrim(focus_note))) FILTER (WHERE ` + focusWindow + `), 0)::float8
FROM ` + intentsTable

const window14d = `submitted_at >= $1::timestamptz - interval '14 days' AND submitted_at < $1`

const focusWindow = window14d + ` AND focus_note IS NOT NULL AND char_length(btrim(focus_note)) > 0`

// valueCount is one grouped row of a top-N query.
type valueCount struct {
	Value string
	Count int64
}

// PulseStats reads every aggregate behind the pulse snapshot.
func (s *Store) PulseStats(ctx context.Context, now time.Time) (domain.PulseStats, error) {
	var st domain.PulseStats
	var last *time.Time
	row := s.db.Pool.QueryRow(ctx, pulseCountsSQL, now)
	if err := row.Scan(&st.Total, &st.Last24h, &st.Last7d, &st.Prev7d, &last, &st.FocusNotes, &st.AvgFocusLength); err != nil {
		return st, fmt.Errorf("scan pulse counts: %w", err)
	}
	if last != nil {
		u := last.UTC()
		st.LastSubmittedAt = &u
	}

	tracks, err := s.topValues(ctx, "track", now, MixLimit)
	if err != nil {
		return st, err
	}
	st.TrackMix = make([]domain.TrackCount, 0, len(tracks))
	for _, v := range tracks {
		st.TrackMix = append(st.TrackMix, domain.TrackCount{Track: v.Value, Count: v.Count})
	}

	sources, err := s.topValues(ctx, "source", now, MixLimit)
	if err != nil {
		return st, err
	}
	st.SourceMix = make([]domain.SourceCount, 0, len(sources))
	for _, v := range sources {
		st.SourceMix = append(st.SourceMix, domain.SourceCount{Source: v.Value, Count: v.Count})
	}

	if st.TopTimeZone, err = s.topValue(ctx, "time_zone", now); err != nil {
		return st, err
	}
	if st.TopLocale, err = s.topValue(ctx, "locale", now); err != nil {
		return st, err
	}
	return st, nil
}

// topValues groups the trailing 14 days by column. Ties go to the value seen
// first. column must be one of the fixed names used in this file.
func (s *Store) topValues(ctx context.Context, column string, now time.Time, limit int) ([]valueCount, error) {
	sql := fmt.Sprintf(`
SELECT %[1]s, COUNT(*)::bigint AS cnt
FROM %[2]s
WHERE %[3]s AND %[1]s IS NOT NULL
GROUP BY %[1]s
ORDER BY cnt DESC, MIN(id) ASC
LIMIT $2`, column, intentsTable, window14d)

	rows, err := s.db.Pool.Query(ctx, sql, now, limit)
	if err != nil {
		return nil, fmt.Errorf("query top %s: %w", column, err)
	}
	defer rows.Close()

	var out []valueCount
	for rows.Next() {
		var v valueCount
		if err := rows.Scan(&v.Value, &v.Count); err != nil {
			return nil, fmt.Errorf("scan top %s: %w", column, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) topValue(ctx context.Context, column string, now time.Time) (*string, error) {
	vals, err := s.topValues(ctx, column, now, 1)
	if err != nil || len(vals) == 0 {
		return nil, err
	}
	return &vals[0].Value, nil
}

const timelineSQL = `
SELECT (date_trunc('day', submitted_at AT TIME ZONE 'UTC'))::date AS day, COUNT(*)::bigint AS cnt
FROM ` + intentsTable + `
WHERE submitted_at >= $1 AND submitted_at <= $2
GROUP BY 1
ORDER BY 1 ASC`

// Timeline buckets [from, to] by UTC day. Days without rows are absent.
func (s *Store) Timeline(ctx context.Context, from, to time.Time) ([]domain.TimelineBucket, error) {
	rows, err := s.db.Pool.Query(ctx, timelineSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("query timeline: %w", err)
	}
	defer rows.Close()

	out := []domain.TimelineBucket{}
	for rows.Next() {
		var day time.Time
		var b domain.TimelineBucket
		if err := rows.Scan(&day, &b.Count); err != nil {
			return nil, fmt.Errorf("scan timeline bucket: %w", err)
		}
		b.Day = domain.NewDay(day)
		out = append(out, b)
	}
	return out, rows.Err()
}

// Only the columns the public feed needs are read.
const recentIntentsSQL = `
SELECT id, track, source, time_zone, locale, submitted_at
FROM ` + intentsTable + `
ORDER BY submitted_at DESC, id DESC
LIMIT $1`

// RecentIntents returns the newest rows first. Email, focus note and user agent are left empty.
func (s *Store) RecentIntents(ctx context.Context, limit int) ([]domain.IntakeIntent, error) {
	rows, err := s.db.Pool.Query(ctx, recentIntentsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent intents: %w", err)
	}
	defer rows.Close()

	var out []domain.IntakeIntent
	for rows.Next() {
		var in domain.IntakeIntent
		if err := rows.Scan(&in.ID, &in.Track, &in.Source, &in.TimeZone, &in.Locale, &in.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan recent intent: %w", err)
		}
		in.SubmittedAt = in.SubmittedAt.UTC()
		out = append(out, in)
	}
	return out, rows.Err()
}
