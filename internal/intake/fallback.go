package intake

import (
	"time"

	"github.com/ralph-groupscholar/website/internal/domain"
)

// Fallback payloads are served when no store is configured. They use the
// same types as live responses, and each call returns a fresh copy.

func at(s string) domain.Timestamp {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return domain.NewTimestamp(t)
}

func day(s string) domain.Day {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return domain.NewDay(t)
}

func str(s string) *string { return &s }

func FallbackPulse() domain.PulseSnapshot {
	last := at("2026-02-08T16:30:00Z")
	return domain.PulseSnapshot{
		Total:           64,
		Last24h:         7,
		Last7d:          31,
		Prev7d:          28,
		DailyAverage7d:  4.4,
		TrendPercent7d:  11,
		TopTrack:        str("Quiet Focus"),
		LastSubmittedAt: &last,
		TrackMix: []domain.TrackCount{
			{Track: "Quiet Focus", Count: 22},
			{Track: "Shared Draft", Count: 18},
			{Track: "After Hours", Count: 14},
		},
		TopSource: str("website"),
		SourceMix: []domain.SourceCount{
			{Source: "website", Count: 28},
			{Source: "apply-section", Count: 21},
			{Source: "landing", Count: 15},
		},
		TopTimeZone:    str("America/New_York"),
		TopLocale:      str("en-US"),
		FocusNotes:     18,
		AvgFocusLength: 64,
	}
}

func FallbackTimeline() []domain.TimelineBucket {
	return []domain.TimelineBucket{
		{Day: day("2026-02-02"), Count: 5},
		{Day: day("2026-02-03"), Count: 8},
		{Day: day("2026-02-04"), Count: 7},
		{Day: day("2026-02-05"), Count: 9},
		{Day: day("2026-02-06"), Count: 10},
		{Day: day("2026-02-07"), Count: 6},
		{Day: day("2026-02-08"), Count: 7},
	}
}

func FallbackFeed() []domain.FeedEntry {
	return []domain.FeedEntry{
		{ID: "fallback-1", Track: "Quiet Focus", Source: "website", Region: str("Brooklyn"), SubmittedAt: at("2026-02-08T16:12:00Z")},
		{ID: "fallback-2", Track: "Shared Draft", Source: "apply-section", Region: str("Oakland"), SubmittedAt: at("2026-02-08T15:46:00Z")},
		{ID: "fallback-3", Track: "After Hours", Source: "website", Region: str("Chicago"), SubmittedAt: at("2026-02-08T14:58:00Z")},
		{ID: "fallback-4", Track: "Quiet Focus", Source: "landing", Region: str("Atlanta"), SubmittedAt: at("2026-02-08T14:22:00Z")},
	}
}

func FallbackSignals() []domain.ImpactSignal {
	return []domain.ImpactSignal{
		{
			ID:         "fallback-1",
			Category:   "Review Ops",
			Title:      "Scholarship review turnaround tightened",
			Detail:     "Median review decision time moved below the 48-hour guardrail across active cohorts.",
			Metric:     "36h median",
			ReportedAt: at("2026-02-07T14:05:00Z"),
		},
		{
			ID:         "fallback-2",
			Category:   "Community",
			Title:      "Mentor coverage expanded",
			Detail:     "New mentor pools now cover late-night sessions in three time zones without overflow.",
			Metric:     "3 zones",
			ReportedAt: at("2026-02-06T19:20:00Z"),
		},
		{
			ID:         "fallback-3",
			Category:   "Retention",
			Title:      "Return-rate uplift on follow-up nudges",
			Detail:     "Personalized touchpoint cadence lifted second-session attendance this month.",
			Metric:     "+12%",
			ReportedAt: at("2026-02-05T16:10:00Z"),
		},
		{
			ID:         "fallback-4",
			Category:   "Outcomes",
			Title:      "Evidence capture stays on schedule",
			Detail:     "Weekly outcome notes landed on time for all live programs in January.",
			Metric:     "100% on-time",
			ReportedAt: at("2026-02-04T11:45:00Z"),
		},
	}
}
