package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ralph-groupscholar/website/internal/domain"
)

/*
Store integration cases (live Postgres via testcontainers):
1) migrations apply and re-apply cleanly
2) InsertIntent assigns id/submitted_at and applies the default source;
   a caller-supplied submitted_at is kept and lands inside the pulse windows
3) PulseStats on an empty table
4) PulseStats windows, mixes and tie-break on a fixed clock
5) Timeline buckets by UTC day inside the window
6) RecentIntents newest first
7) Seed fills empty tables once
*/

// clockTolerance absorbs drift between the test host and the container.
const clockTolerance = 2 * time.Second

func startPostgres(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("website"),
		tcpostgres.WithUsername("website"),
		tcpostgres.WithPassword("website"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := ctr.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Connect(ctx, dsn, 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Ready(ctx))
	require.NoError(t, db.Migrate(ctx, zerolog.Nop()))
	return db
}

func truncate(t *testing.T, db *DB) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(),
		"TRUNCATE "+intentsTable+", "+signalsTable+" RESTART IDENTITY")
	require.NoError(t, err)
}

type row struct {
	track, source string
	at            time.Time
	tz, locale    *string
	note          *string
}

func insertAt(t *testing.T, db *DB, r row) {
	t.Helper()
	source := r.source
	if source == "" {
		source = domain.DefaultSource
	}
	_, err := db.Pool.Exec(context.Background(), `
INSERT INTO `+intentsTable+` (email, track, focus_note, time_zone, locale, source, submitted_at)
VALUES ('seed@example.org', $1, $2, $3, $4, $5, $6)`,
		r.track, r.note, r.tz, r.locale, source, r.at)
	require.NoError(t, err)
}

func sp(s string) *string { return &s }

func TestStore(t *testing.T) {
	db := startPostgres(t)
	store := NewStore(db)
	ctx := context.Background()

	t.Run("migrate is idempotent", func(t *testing.T) {
		require.NoError(t, db.Migrate(ctx, zerolog.Nop()))
		require.NoError(t, store.Ping(ctx))
	})

	t.Run("insert intent", func(t *testing.T) {
		truncate(t, db)
		before := time.Now().UTC()

		got, err := store.InsertIntent(ctx, domain.IntakeIntent{
			Email:     "maya@example.org",
			Track:     "Quiet Focus",
			FocusNote: sp("Weekly accountability"),
		})
		require.NoError(t, err)
		assert.Positive(t, got.ID)
		assert.False(t, got.SubmittedAt.Before(before.Add(-clockTolerance)))
		assert.Equal(t, time.UTC, got.SubmittedAt.Location())
		assert.Equal(t, domain.DefaultSource, got.Source)

		recent, err := store.RecentIntents(ctx, 5)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, got.ID, recent[0].ID)
		assert.Empty(t, recent[0].Email)
		assert.Nil(t, recent[0].FocusNote)
	})

	t.Run("insert intent keeps caller clock", func(t *testing.T) {
		truncate(t, db)
		at := time.Date(2026, 2, 8, 17, 59, 59, 123456000, time.UTC)

		got, err := store.InsertIntent(ctx, domain.IntakeIntent{
			Email:       "andre@example.org",
			Track:       "After Hours",
			Source:      "landing",
			SubmittedAt: at,
		})
		require.NoError(t, err)
		assert.True(t, at.Equal(got.SubmittedAt))

		st, err := store.PulseStats(ctx, at.Add(time.Millisecond))
		require.NoError(t, err)
		assert.EqualValues(t, 1, st.Last24h)
		assert.EqualValues(t, 1, st.Last7d)
	})

	t.Run("pulse on empty table", func(t *testing.T) {
		truncate(t, db)

		st, err := store.PulseStats(ctx, time.Now().UTC())
		require.NoError(t, err)
		assert.Zero(t, st.Total)
		assert.Zero(t, st.Last7d)
		assert.Nil(t, st.LastSubmittedAt)
		assert.Empty(t, st.TrackMix)
		assert.Nil(t, st.TopTimeZone)
		assert.Zero(t, st.AvgFocusLength)
	})

	now := time.Date(2026, 2, 8, 18, 0, 0, 0, time.UTC)

	t.Run("pulse and timeline on fixed clock", func(t *testing.T) {
		truncate(t, db)
		for _, r := range []row{
			{track: "Quiet Focus", at: now.Add(-time.Hour), tz: sp("America/New_York"), locale: sp("en-US"), note: sp(" hello ")},
			{track: "Quiet Focus", at: now.Add(-2 * time.Hour)},
			{track: "Shared Draft", source: "landing", at: now.Add(-3 * time.Hour)},
			{track: "Shared Draft", at: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)},
			{track: "After Hours", at: time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)},
			{track: "After Hours", at: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)},
		} {
			insertAt(t, db, r)
		}

		st, err := store.PulseStats(ctx, now)
		require.NoError(t, err)
		assert.EqualValues(t, 6, st.Total)
		assert.EqualValues(t, 3, st.Last24h)
		assert.EqualValues(t, 4, st.Last7d)
		assert.EqualValues(t, 1, st.Prev7d)
		require.NotNil(t, st.LastSubmittedAt)
		assert.True(t, now.Add(-time.Hour).Equal(*st.LastSubmittedAt))

		// Quiet Focus and Shared Draft tie at 2; the earlier row wins.
		assert.Equal(t, []domain.TrackCount{
			{Track: "Quiet Focus", Count: 2},
			{Track: "Shared Draft", Count: 2},
			{Track: "After Hours", Count: 1},
		}, st.TrackMix)
		assert.Equal(t, []domain.SourceCount{
			{Source: "website", Count: 4},
			{Source: "landing", Count: 1},
		}, st.SourceMix)

		require.NotNil(t, st.TopTimeZone)
		assert.Equal(t, "America/New_York", *st.TopTimeZone)
		require.NotNil(t, st.TopLocale)
		assert.Equal(t, "en-US", *st.TopLocale)
		assert.EqualValues(t, 1, st.FocusNotes)
		assert.InDelta(t, 5.0, st.AvgFocusLength, 1e-9)

		from := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
		buckets, err := store.Timeline(ctx, from, now)
		require.NoError(t, err)
		require.Len(t, buckets, 2)
		assert.Equal(t, "2026-02-03", buckets[0].Day.Format("2006-01-02"))
		assert.EqualValues(t, 1, buckets[0].Count)
		assert.Equal(t, "2026-02-08", buckets[1].Day.Format("2006-01-02"))
		assert.EqualValues(t, 3, buckets[1].Count)

		recent, err := store.RecentIntents(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.EqualValues(t, 1, recent[0].ID)
		assert.EqualValues(t, 2, recent[1].ID)
		require.NotNil(t, recent[0].TimeZone)
		assert.Equal(t, "America/New_York", *recent[0].TimeZone)
	})

	t.Run("seed fills empty tables once", func(t *testing.T) {
		truncate(t, db)

		res, err := db.Seed(ctx, DefaultSignals, DefaultIntents)
		require.NoError(t, err)
		assert.Equal(t, SeedResult{Signals: len(DefaultSignals), Intents: len(DefaultIntents)}, res)

		res, err = db.Seed(ctx, DefaultSignals, DefaultIntents)
		require.NoError(t, err)
		assert.Equal(t, SeedResult{}, res)

		sigs, err := store.ImpactSignals(ctx, 4)
		require.NoError(t, err)
		require.Len(t, sigs, 4)
		assert.Equal(t, "Review Ops", sigs[0].Category)
		assert.Equal(t, "Outcomes", sigs[3].Category)
		assert.NotEmpty(t, sigs[0].ID)

		one, err := store.ImpactSignals(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, one, 1)
	})
}
