package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// IntakeIntent is one stored row of groupscholar_website.intake_intents.
// SubmittedAt is set by the service clock; a zero value lets the store assign it.
type IntakeIntent struct {
	ID          int64
	Email       string
	Track       string
	FocusNote   *string
	TimeZone    *string
	Locale      *string
	UserAgent   *string
	Source      string
	SubmittedAt time.Time
}

// IntentInput is the payload accepted by the intake writer.
type IntentInput struct {
	Email     string  `json:"email" validate:"required,email,max=160"`
	Track     string  `json:"track" validate:"required,max=80"`
	FocusNote *string `json:"focusNote,omitempty" validate:"omitempty,max=220"`
	TimeZone  *string `json:"timeZone,omitempty" validate:"omitempty,max=120"`
	Locale    *string `json:"locale,omitempty" validate:"omitempty,max=32"`
	UserAgent *string `json:"userAgent,omitempty" validate:"omitempty,max=256"`
	Source    *string `json:"source,omitempty" validate:"omitempty,max=80"`
}

// Column caps (keep in sync with migrations and the validate tags above).
const (
	MaxEmailLen     = 160
	MaxTrackLen     = 80
	MaxFocusNoteLen = 220
	MaxTimeZoneLen  = 120
	MaxLocaleLen    = 32
	MaxUserAgentLen = 256
	MaxSourceLen    = 80

	DefaultSource = "website"
)

// Normalize trims every field, strips NUL bytes and invalid UTF-8, and turns
// blank optional fields into nil.
func (in *IntentInput) Normalize() {
	in.Email = clean(in.Email)
	in.Track = clean(in.Track)
	in.FocusNote = cleanOptional(in.FocusNote)
	in.TimeZone = cleanOptional(in.TimeZone)
	in.Locale = cleanOptional(in.Locale)
	in.UserAgent = cleanOptional(in.UserAgent)
	in.Source = cleanOptional(in.Source)
}

// Intent converts a validated input into a row ready for insertion.
func (in IntentInput) Intent() IntakeIntent {
	source := DefaultSource
	if in.Source != nil {
		source = *in.Source
	}
	return IntakeIntent{
		Email:     in.Email,
		Track:     in.Track,
		FocusNote: in.FocusNote,
		TimeZone:  in.TimeZone,
		Locale:    in.Locale,
		UserAgent: in.UserAgent,
		Source:    source,
	}
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// clean drops invalid UTF-8 and NUL bytes, which Postgres text columns reject.
func clean(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}

func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := clean(*s)
	if v == "" {
		return nil
	}
	return &v
}
