package episode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/episode-pages/app/locale"
)

type TransformOptions struct {
	Locale   locale.Locale
	Location *time.Location
}

// Transform converts an upstream record into an Episode. It is pure: the same
// record and options always produce the same Episode.
func Transform(raw RawEpisode, opts TransformOptions) (Episode, error) {
	requiredFields := []struct {
		name  string
		value string
	}{
		{"id", raw.ID},
		{"title", raw.Title},
		{"published_at", raw.PublishedAt},
		{"file.url", raw.File.URL},
	}

	for _, field := range requiredFields {
		if strings.TrimSpace(field.value) == "" {
			return Episode{}, fmt.Errorf("%w: %s is required", ErrMalformed, field.name)
		}
	}

	duration, err := ParseDuration(string(raw.File.Duration))
	if err != nil {
		return Episode{}, err
	}

	published, err := ParsePublishedAt(raw.PublishedAt)
	if err != nil {
		return Episode{}, err
	}

	return Episode{
		ID:               raw.ID,
		Title:            raw.Title,
		Thumbnail:        raw.Thumbnail,
		Members:          raw.Members,
		Duration:         duration,
		DurationAsString: FormatDuration(duration),
		URL:              raw.File.URL,
		PublishedAt:      FormatPublishedAt(published, opts.Locale, opts.Location),
		Description:      raw.Description,
	}, nil
}

// ParseDuration reads a duration in seconds. Fractional seconds are truncated.
func ParseDuration(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: file.duration is required", ErrMalformed)
	}

	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: file.duration %q is not a number", ErrMalformed, raw)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("%w: file.duration %q is out of range", ErrMalformed, raw)
	}
	if seconds > math.MaxInt32 {
		return 0, fmt.Errorf("%w: file.duration %q is too large", ErrMalformed, raw)
	}

	return int(seconds), nil
}

// FormatDuration renders seconds as zero-padded HH:MM:SS. Hours are not capped.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

var publishedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePublishedAt accepts the ISO-8601 forms the API emits. Timestamps
// without an offset are taken as UTC.
func ParsePublishedAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: published_at %q is not an ISO-8601 timestamp", ErrMalformed, raw)
}

// FormatPublishedAt renders t as "d MMM yy" in the given locale and zone.
func FormatPublishedAt(t time.Time, l locale.Locale, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	if l.Months[0] == "" {
		l = locale.English
	}
	t = t.In(loc)
	return fmt.Sprintf("%d %s %02d", t.Day(), l.Month(int(t.Month())), t.Year()%100)
}
