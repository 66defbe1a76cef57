package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() IntentInput {
	return IntentInput{
		Email: "lia.chen@example.org",
		Track: "Quiet Focus",
	}
}

func TestValidateIntent_Valid(t *testing.T) {
	in := validInput()
	in.FocusNote = strp(strings.Repeat("a", MaxFocusNoteLen))
	in.TimeZone = strp("America/Chicago")
	in.Locale = strp("en-US")
	in.Normalize()

	assert.Empty(t, ValidateIntent(&in))
}

func TestValidateIntent_Errors(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*IntentInput)
		field string
	}{
		{"missing email", func(in *IntentInput) { in.Email = "" }, "email"},
		{"bad email", func(in *IntentInput) { in.Email = "not-an-email" }, "email"},
		{"email without domain", func(in *IntentInput) { in.Email = "maya@" }, "email"},
		{"blank track", func(in *IntentInput) { in.Track = "   " }, "track"},
		{"long track", func(in *IntentInput) { in.Track = strings.Repeat("t", MaxTrackLen+1) }, "track"},
		{"long note", func(in *IntentInput) { in.FocusNote = strp(strings.Repeat("n", MaxFocusNoteLen+1)) }, "focusNote"},
		{"long locale", func(in *IntentInput) { in.Locale = strp(strings.Repeat("l", MaxLocaleLen+1)) }, "locale"},
		{"long source", func(in *IntentInput) { in.Source = strp(strings.Repeat("s", MaxSourceLen+1)) }, "source"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)
			in.Normalize()

			errs := ValidateIntent(&in)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs.Fields(), tc.field)
		})
	}
}

func TestValidateIntent_NoteCapCountsRunes(t *testing.T) {
	in := validInput()
	in.FocusNote = strp(strings.Repeat("é", MaxFocusNoteLen))
	in.Normalize()
	assert.Empty(t, ValidateIntent(&in))
}

func TestNormalize(t *testing.T) {
	in := IntentInput{
		Email:     "  maya@example.org ",
		Track:     "\tShared Draft\x00 ",
		FocusNote: strp("   "),
		TimeZone:  strp(" Europe/London "),
		Source:    strp(""),
	}
	in.Normalize()

	assert.Equal(t, "maya@example.org", in.Email)
	assert.Equal(t, "Shared Draft", in.Track)
	assert.Nil(t, in.FocusNote)
	require.NotNil(t, in.TimeZone)
	assert.Equal(t, "Europe/London", *in.TimeZone)
	assert.Nil(t, in.Source)

	row := in.Intent()
	assert.Equal(t, DefaultSource, row.Source)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "éé", Truncate("ééé", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{{Field: "email", Msg: "required"}, {Field: "track", Msg: "required"}}
	assert.Equal(t, "email: required; track: required", errs.Error())
}

func TestNormalize_DropsInvalidUTF8(t *testing.T) {
	in := IntentInput{
		Email:     "maya@example.org",
		Track:     "Quiet\xffFocus",
		UserAgent: strp("Caf\xe9Bot/1.0"),
		Locale:    strp("\xe9\xe9"),
	}
	in.Normalize()

	assert.Equal(t, "QuietFocus", in.Track)
	require.NotNil(t, in.UserAgent)
	assert.Equal(t, "CafBot/1.0", *in.UserAgent)
	assert.True(t, utf8.ValidString(*in.UserAgent))
	assert.Nil(t, in.Locale)
}
