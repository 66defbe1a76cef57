package domain

import (
	"fmt"
	"strings"
	"time"
)

// isoMillis matches the ISO-8601 form the landing page already parses.
const isoMillis = "2006-01-02T15:04:05.000Z"

const dayLayout = "2006-01-02"

// Timestamp serializes as UTC ISO-8601 with millisecond precision.
type Timestamp struct{ time.Time }

func NewTimestamp(t time.Time) Timestamp { return Timestamp{t.UTC()} }

// TimestampPtr returns nil when t is nil.
func TimestampPtr(t *time.Time) *Timestamp {
	if t == nil {
		return nil
	}
	ts := NewTimestamp(*t)
	return &ts
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(isoMillis) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = parsed.UTC()
	return nil
}

// Day is a UTC calendar day serialized as YYYY-MM-DD.
type Day struct{ time.Time }

func NewDay(t time.Time) Day {
	u := t.UTC()
	return Day{time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.UTC().Format(dayLayout) + `"`), nil
}

func (d *Day) UnmarshalJSON(b []byte) error {
	parsed, err := time.Parse(dayLayout, strings.Trim(string(b), `"`))
	if err != nil {
		return fmt.Errorf("day: %w", err)
	}
	d.Time = parsed
	return nil
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time { return NewDay(t).Time }
