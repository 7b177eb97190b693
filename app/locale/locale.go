package locale

import (
	"golang.org/x/text/language"
)

// Locale carries the strings a page needs to present dates and controls in one language.
type Locale struct {
	Tag              language.Tag
	Months           [12]string // abbreviated month names, January first
	BackLabel        string
	PlayLabel        string
	NotFoundTitle    string
	UnavailableTitle string
}

var English = Locale{
	Tag:              language.English,
	Months:           [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	BackLabel:        "Back",
	PlayLabel:        "Play episode",
	NotFoundTitle:    "Episode not found",
	UnavailableTitle: "Episode temporarily unavailable",
}

var BrazilianPortuguese = Locale{
	Tag:              language.BrazilianPortuguese,
	Months:           [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
	BackLabel:        "Voltar",
	PlayLabel:        "Tocar episódio",
	NotFoundTitle:    "Episódio não encontrado",
	UnavailableTitle: "Episódio temporariamente indisponível",
}

// supported is ordered by preference; the first entry is the fallback.
var supported = []Locale{English, BrazilianPortuguese}

var matcher = newMatcher()

func newMatcher() language.Matcher {
	tags := make([]language.Tag, 0, len(supported))
	for _, l := range supported {
		tags = append(tags, l.Tag)
	}
	return language.NewMatcher(tags)
}

// Resolve returns the supported locale closest to the given BCP 47 tag.
// Empty or unparseable tags resolve to English.
func Resolve(tag string) Locale {
	if tag == "" {
		return English
	}

	parsed, err := language.Parse(tag)
	if err != nil {
		return English
	}

	_, index, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return English
	}
	return supported[index]
}

// Month returns the abbreviated name for m.
func (l Locale) Month(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return l.Months[m-1]
}

// Lang is the value for the document's lang attribute.
func (l Locale) Lang() string {
	return l.Tag.String()
}
