package domain

import (
	"math"
	"time"
)

// TrackCount and SourceCount are one row of a top-N mix.
type TrackCount struct {
	Track string `json:"track"`
	Count int64  `json:"count"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// PulseStats are the raw aggregates read from the store. Windows are
// evaluated against the clock handed to the store.
type PulseStats struct {
	Total           int64
	Last24h         int64
	Last7d          int64
	Prev7d          int64
	LastSubmittedAt *time.Time
	TrackMix        []TrackCount
	SourceMix       []SourceCount
	TopTimeZone     *string
	TopLocale       *string
	FocusNotes      int64
	AvgFocusLength  float64
}

// PulseSnapshot is the summary served by GET /intake-pulse.
type PulseSnapshot struct {
	Total           int64         `json:"total"`
	Last24h         int64         `json:"last24h"`
	Last7d          int64         `json:"last7d"`
	Prev7d          int64         `json:"prev7d"`
	DailyAverage7d  float64       `json:"dailyAverage7d"`
	TrendPercent7d  int64         `json:"trendPercent7d"`
	TopTrack        *string       `json:"topTrack"`
	LastSubmittedAt *Timestamp    `json:"lastSubmittedAt"`
	TrackMix        []TrackCount  `json:"trackMix"`
	TopSource       *string       `json:"topSource"`
	SourceMix       []SourceCount `json:"sourceMix"`
	TopTimeZone     *string       `json:"topTimeZone"`
	TopLocale       *string       `json:"topLocale"`
	FocusNotes      int64         `json:"focusNotes"`
	AvgFocusLength  int64         `json:"avgFocusLength"`
}

// NewPulseSnapshot derives the display fields from raw stats.
func NewPulseSnapshot(s PulseStats) PulseSnapshot {
	p := PulseSnapshot{
		Total:           s.Total,
		Last24h:         s.Last24h,
		Last7d:          s.Last7d,
		Prev7d:          s.Prev7d,
		DailyAverage7d:  DailyAverage(s.Last7d),
		TrendPercent7d:  TrendPercent(s.Last7d, s.Prev7d),
		LastSubmittedAt: TimestampPtr(s.LastSubmittedAt),
		TrackMix:        s.TrackMix,
		SourceMix:       s.SourceMix,
		TopTimeZone:     s.TopTimeZone,
		TopLocale:       s.TopLocale,
		FocusNotes:      s.FocusNotes,
		AvgFocusLength:  int64(roundHalfUp(s.AvgFocusLength)),
	}
	if p.TrackMix == nil {
		p.TrackMix = []TrackCount{}
	}
	if p.SourceMix == nil {
		p.SourceMix = []SourceCount{}
	}
	if len(p.TrackMix) > 0 {
		top := p.TrackMix[0].Track
		p.TopTrack = &top
	}
	if len(p.SourceMix) > 0 {
		top := p.SourceMix[0].Source
		p.TopSource = &top
	}
	return p
}

// TrendPercent is the change of last7d against prev7d in whole percent.
// With no prior week the base is max(last7d, 1), so 0 -> 1 reads as +100.
func TrendPercent(last7d, prev7d int64) int64 {
	base := prev7d
	if prev7d == 0 {
		base = max(last7d, 1)
	}
	return int64(roundHalfUp(float64(last7d-prev7d) / float64(base) * 100))
}

// DailyAverage is last7d/7 rounded to one decimal.
func DailyAverage(last7d int64) float64 {
	return roundHalfUp(float64(last7d)/7*10) / 10
}

// roundHalfUp rounds .5 toward +Inf (-12.5 -> -12).
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
