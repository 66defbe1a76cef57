package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ralph-groupscholar/website/internal/domain"
	"github.com/ralph-groupscholar/website/internal/fingerprint"
	"github.com/ralph-groupscholar/website/internal/logger"
	"github.com/ralph-groupscholar/website/internal/metrics"
)

// Store is the persistence the service reads and appends to.
type Store interface {
	InsertIntent(ctx context.Context, in domain.IntakeIntent) (domain.IntakeIntent, error)
	PulseStats(ctx context.Context, now time.Time) (domain.PulseStats, error)
	Timeline(ctx context.Context, from, to time.Time) ([]domain.TimelineBucket, error)
	RecentIntents(ctx context.Context, limit int) ([]domain.IntakeIntent, error)
	ImpactSignals(ctx context.Context, limit int) ([]domain.ImpactSignal, error)
}

// Pinger is implemented by stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrInvalidPayload is matched by every validation failure.
var ErrInvalidPayload = errors.New("invalid payload")

// InvalidPayloadError carries the per-field problems.
type InvalidPayloadError struct {
	Errs domain.ValidationErrors
}

func (e *InvalidPayloadError) Error() string { return "invalid payload: " + e.Errs.Error() }

func (e *InvalidPayloadError) Unwrap() error { return ErrInvalidPayload }

const (
	DefaultTimelineDays = 7
	MaxTimelineDays     = 90

	DefaultFeedLimit = 6
	MaxFeedLimit     = 50

	DefaultSignalLimit = 4
)

// Ack is the writer's answer. Stored is false when no store is configured.
type Ack struct {
	OK     bool `json:"ok"`
	Stored bool `json:"stored"`
}

type Service struct {
	store   Store
	now     func() time.Time
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for window computations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService builds the service. A nil store means storage is unconfigured:
// reads serve the fallback payloads and writes are acknowledged unstored.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// StorageConfigured reports whether reads hit a live store.
func (s *Service) StorageConfigured() bool { return s.store != nil }

// Ready pings the store when it supports it.
func (s *Service) Ready(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if p, ok := s.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Submit validates and appends one intent. Validation failures return an
// *InvalidPayloadError and never reach the store.
func (s *Service) Submit(ctx context.Context, in domain.IntentInput) (Ack, error) {
	in.Normalize()
	if errs := domain.ValidateIntent(&in); len(errs) > 0 {
		s.metrics.IntentRecorded(metrics.ResultInvalid)
		return Ack{}, &InvalidPayloadError{Errs: errs}
	}

	log := logger.WithCtx(ctx).With().
		Str("email_fp", fingerprint.Email(in.Email)).
		Str("track", in.Track).
		Logger()

	if s.store == nil {
		s.metrics.IntentRecorded(metrics.ResultUnstored)
		log.Info().Msg("intake intent accepted without storage")
		return Ack{OK: true, Stored: false}, nil
	}

	// same clock as the pulse windows
	row := in.Intent()
	row.SubmittedAt = s.now()
	row, err := s.store.InsertIntent(ctx, row)
	if err != nil {
		s.metrics.IntentRecorded(metrics.ResultFailed)
		log.Error().Err(err).Msg("intake intent insert failed")
		return Ack{}, fmt.Errorf("submit intent: %w", err)
	}
	s.metrics.IntentRecorded(metrics.ResultStored)
	log.Info().Int64("id", row.ID).Str("source", row.Source).Msg("intake intent stored")
	return Ack{OK: true, Stored: true}, nil
}

// Pulse computes the summary snapshot fresh on every call.
func (s *Service) Pulse(ctx context.Context) (domain.PulseSnapshot, error) {
	if s.store == nil {
		s.metrics.FallbackServed("pulse")
		return FallbackPulse(), nil
	}
	stats, err := s.store.PulseStats(ctx, s.now())
	if err != nil {
		return domain.PulseSnapshot{}, fmt.Errorf("pulse: %w", err)
	}
	return domain.NewPulseSnapshot(stats), nil
}

// Timeline buckets the trailing days (today included) by UTC day. days is
// clamped to [1, MaxTimelineDays]; 0 selects the default.
func (s *Service) Timeline(ctx context.Context, days int) ([]domain.TimelineBucket, error) {
	if s.store == nil {
		s.metrics.FallbackServed("timeline")
		return FallbackTimeline(), nil
	}
	from, to := TimelineWindow(s.now(), days)
	buckets, err := s.store.Timeline(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	if buckets == nil {
		buckets = []domain.TimelineBucket{}
	}
	return buckets, nil
}

// TimelineWindow returns [start of the first UTC day, now].
func TimelineWindow(now time.Time, days int) (time.Time, time.Time) {
	days = clamp(days, DefaultTimelineDays, MaxTimelineDays)
	from := domain.StartOfDay(now).AddDate(0, 0, -(days - 1))
	return from, now
}

// Feed returns the newest intents projected for public display.
func (s *Service) Feed(ctx context.Context, limit int) ([]domain.FeedEntry, error) {
	if s.store == nil {
		s.metrics.FallbackServed("feed")
		return FallbackFeed(), nil
	}
	rows, err := s.store.RecentIntents(ctx, clamp(limit, DefaultFeedLimit, MaxFeedLimit))
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	out := make([]domain.FeedEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ProjectFeed(r))
	}
	return out, nil
}

// Signals returns the newest impact signals.
func (s *Service) Signals(ctx context.Context, limit int) ([]domain.ImpactSignal, error) {
	if s.store == nil {
		s.metrics.FallbackServed("signals")
		return FallbackSignals(), nil
	}
	sigs, err := s.store.ImpactSignals(ctx, clamp(limit, DefaultSignalLimit, MaxFeedLimit))
	if err != nil {
		return nil, fmt.Errorf("impact signals: %w", err)
	}
	if sigs == nil {
		sigs = []domain.ImpactSignal{}
	}
	return sigs, nil
}

// clamp maps 0 to def, negatives to 1 and caps at limit.
func clamp(n, def, limit int) int {
	switch {
	case n == 0:
		return def
	case n < 1:
		return 1
	case n > limit:
		return limit
	}
	return n
}
