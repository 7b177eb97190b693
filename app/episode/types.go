package episode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed reports an upstream record that cannot be turned into an Episode.
var ErrMalformed = errors.New("malformed episode")

// RawEpisode is the record returned by the upstream episode API.
type RawEpisode struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Thumbnail   string  `json:"thumbnail"`
	Members     string  `json:"members"`
	PublishedAt string  `json:"published_at"`
	Description string  `json:"description"`
	File        RawFile `json:"file"`
}

type RawFile struct {
	Duration RawDuration `json:"duration"`
	URL      string      `json:"url"`
	Type     string      `json:"type,omitempty"`
}

// RawDuration holds the duration exactly as sent; the API uses both numbers and numeric strings.
type RawDuration string

func (d *RawDuration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: duration: %v", ErrMalformed, err)
		}
		*d = RawDuration(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: duration: %v", ErrMalformed, err)
	}
	*d = RawDuration(n.String())
	return nil
}

// Episode is the display-ready shape handed to the renderer.
// Values are rebuilt on every generation and never mutated.
type Episode struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Thumbnail        string `json:"thumbnail"`
	Members          string `json:"members"`
	Duration         int    `json:"duration"`
	DurationAsString string `json:"durationAsString"`
	URL              string `json:"url"`
	PublishedAt      string `json:"publishedAt"`
	Description      string `json:"description"`
}
