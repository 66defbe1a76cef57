package domain

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// FeedEntry is the public projection of an intent. It carries no contact
// or free-text fields.
type FeedEntry struct {
	ID          string    `json:"id"`
	Track       string    `json:"track"`
	Source      string    `json:"source"`
	Region      *string   `json:"region"`
	SubmittedAt Timestamp `json:"submittedAt"`
}

// TimelineBucket is one UTC day of intake volume.
type TimelineBucket struct {
	Day   Day   `json:"day"`
	Count int64 `json:"count"`
}

// ImpactSignal is static display content seeded once.
type ImpactSignal struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail"`
	Metric     string    `json:"metric"`
	ReportedAt Timestamp `json:"reportedAt"`
}

// FormatID renders a store id the same way fallback ids are rendered (as a string).
func FormatID(id int64) string { return strconv.FormatInt(id, 10) }

// ProjectFeed maps a stored intent onto its public feed entry.
func ProjectFeed(in IntakeIntent) FeedEntry {
	return FeedEntry{
		ID:          FormatID(in.ID),
		Track:       in.Track,
		Source:      in.Source,
		Region:      Region(in.TimeZone, in.Locale),
		SubmittedAt: NewTimestamp(in.SubmittedAt),
	}
}

// Region derives a short place label: the last segment of an IANA zone
// ("America/Los_Angeles" -> "Los Angeles"), else the explicit region subtag
// of the locale ("en-GB" -> "GB"), else nil.
func Region(timeZone, locale *string) *string {
	if timeZone != nil {
		parts := strings.Split(*timeZone, "/")
		name := strings.TrimSpace(strings.ReplaceAll(parts[len(parts)-1], "_", " "))
		if name != "" {
			return &name
		}
	}
	if locale != nil {
		if code := localeRegion(*locale); code != "" {
			return &code
		}
	}
	return nil
}

func localeRegion(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	// inferred regions ("en" -> US) are not shown
	region, conf := tag.Region()
	if conf != language.Exact {
		return ""
	}
	return strings.ToUpper(region.String())
}
