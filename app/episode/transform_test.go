package episode

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lysyi3m/episode-pages/app/locale"
)

func sampleRaw() RawEpisode {
	return RawEpisode{
		ID:          "abc",
		Title:       "T",
		Thumbnail:   "http://x/thumb.jpg",
		Members:     "M",
		PublishedAt: "2022-01-01T00:00:00Z",
		Description: "<p>d</p>",
		File: RawFile{
			Duration: "60",
			URL:      "http://x",
		},
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3599, "00:59:59"},
		{3725, "01:02:05"},
		{86399, "23:59:59"},
		{360000, "100:00:00"},
		{-5, "00:00:00"},
	}

	for _, test := range tests {
		if got := FormatDuration(test.seconds); got != test.expected {
			t.Errorf("FormatDuration(%d) = %s, expected %s", test.seconds, got, test.expected)
		}
	}
}

func TestParseDuration(t *testing.T) {
	valid := map[string]int{
		"60":    60,
		" 3725": 3725,
		"0":     0,
		"61.9":  61,
	}
	for raw, expected := range valid {
		got, err := ParseDuration(raw)
		if err != nil {
			t.Errorf("ParseDuration(%q) returned error: %v", raw, err)
			continue
		}
		if got != expected {
			t.Errorf("ParseDuration(%q) = %d, expected %d", raw, got, expected)
		}
	}

	invalid := []string{"", "abc", "-1", "NaN", "Inf", "1e20"}
	for _, raw := range invalid {
		if _, err := ParseDuration(raw); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseDuration(%q) expected ErrMalformed, got %v", raw, err)
		}
	}
}

func TestFormatPublishedAt(t *testing.T) {
	ts := time.Date(2022, 3, 11, 10, 0, 0, 0, time.UTC)

	if got := FormatPublishedAt(ts, locale.English, time.UTC); got != "11 Mar 22" {
		t.Errorf("Expected '11 Mar 22', got '%s'", got)
	}
	if got := FormatPublishedAt(ts, locale.BrazilianPortuguese, time.UTC); got != "11 mar 22" {
		t.Errorf("Expected '11 mar 22', got '%s'", got)
	}

	// Zone shifts can move the calendar day
	tokyo := time.FixedZone("JST", 9*60*60)
	late := time.Date(2022, 3, 11, 20, 0, 0, 0, time.UTC)
	if got := FormatPublishedAt(late, locale.English, tokyo); got != "12 Mar 22" {
		t.Errorf("Expected '12 Mar 22', got '%s'", got)
	}

	early := time.Date(2009, 1, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatPublishedAt(early, locale.English, nil); got != "5 Jan 09" {
		t.Errorf("Expected '5 Jan 09', got '%s'", got)
	}
}

func TestParsePublishedAt(t *testing.T) {
	valid := []string{
		"2022-03-11T10:00:00Z",
		"2022-03-11T10:00:00.123-03:00",
		"2022-03-11T10:00:00",
		"2022-03-11 10:00:00",
		"2022-03-11",
	}
	for _, raw := range valid {
		if _, err := ParsePublishedAt(raw); err != nil {
			t.Errorf("ParsePublishedAt(%q) returned error: %v", raw, err)
		}
	}

	if _, err := ParsePublishedAt("yesterday"); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestTransform(t *testing.T) {
	ep, err := Transform(sampleRaw(), TransformOptions{Locale: locale.English, Location: time.UTC})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if ep.ID != "abc" || ep.Title != "T" || ep.Members != "M" {
		t.Errorf("Pass-through fields not preserved: %+v", ep)
	}
	if ep.Duration != 60 {
		t.Errorf("Expected duration 60, got %d", ep.Duration)
	}
	if ep.DurationAsString != "00:01:00" {
		t.Errorf("Expected duration string '00:01:00', got '%s'", ep.DurationAsString)
	}
	if ep.PublishedAt != "1 Jan 22" {
		t.Errorf("Expected published at '1 Jan 22', got '%s'", ep.PublishedAt)
	}
	if ep.Description != "<p>d</p>" {
		t.Errorf("Expected description to pass through, got '%s'", ep.Description)
	}
	if ep.URL != "http://x" {
		t.Errorf("Expected URL 'http://x', got '%s'", ep.URL)
	}
}

func TestTransformIsDeterministic(t *testing.T) {
	opts := TransformOptions{Locale: locale.BrazilianPortuguese, Location: time.UTC}

	first, err := Transform(sampleRaw(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Transform(sampleRaw(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("Expected identical episodes, got %+v and %+v", first, second)
	}
}

func TestTransformMissingFields(t *testing.T) {
	mutations := map[string]func(*RawEpisode){
		"id":           func(r *RawEpisode) { r.ID = "" },
		"title":        func(r *RawEpisode) { r.Title = "  " },
		"published_at": func(r *RawEpisode) { r.PublishedAt = "" },
		"file.url":     func(r *RawEpisode) { r.File.URL = "" },
		"duration":     func(r *RawEpisode) { r.File.Duration = "" },
		"bad date":     func(r *RawEpisode) { r.PublishedAt = "11/03/2022" },
		"bad duration": func(r *RawEpisode) { r.File.Duration = "one hour" },
	}

	for name, mutate := range mutations {
		raw := sampleRaw()
		mutate(&raw)
		if _, err := Transform(raw, TransformOptions{Locale: locale.English}); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}

func TestRawDurationUnmarshal(t *testing.T) {
	tests := []struct {
		input    string
		expected RawDuration
	}{
		{`{"duration": "60"}`, "60"},
		{`{"duration": 3725}`, "3725"},
		{`{"duration": 12.5}`, "12.5"},
		{`{"duration": null}`, ""},
		{`{}`, ""},
	}

	for _, test := range tests {
		var file RawFile
		if err := json.Unmarshal([]byte(test.input), &file); err != nil {
			t.Errorf("Unmarshal(%s) returned error: %v", test.input, err)
			continue
		}
		if file.Duration != test.expected {
			t.Errorf("Unmarshal(%s) = %q, expected %q", test.input, file.Duration, test.expected)
		}
	}

	var file RawFile
	if err := json.Unmarshal([]byte(`{"duration": true}`), &file); err == nil {
		t.Error("Expected error for boolean duration")
	}
}
