package locale

import (
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		tag      string
		expected string
	}{
		{"", "en"},
		{"en", "en"},
		{"en-US", "en"},
		{"pt-BR", "pt-BR"},
		{"pt", "pt-BR"},
		{"de", "en"},
		{"not a tag!", "en"},
	}

	for _, test := range tests {
		got := Resolve(test.tag)
		if got.Lang() != test.expected {
			t.Errorf("Resolve(%q) = %s, expected %s", test.tag, got.Lang(), test.expected)
		}
	}
}

func TestMonth(t *testing.T) {
	if English.Month(3) != "Mar" {
		t.Errorf("Expected 'Mar', got '%s'", English.Month(3))
	}
	if BrazilianPortuguese.Month(2) != "fev" {
		t.Errorf("Expected 'fev', got '%s'", BrazilianPortuguese.Month(2))
	}
	if English.Month(0) != "" || English.Month(13) != "" {
		t.Error("Expected empty string for out of range months")
	}
}

func TestPortugueseLabels(t *testing.T) {
	l := Resolve("pt-BR")
	if l.BackLabel != "Voltar" {
		t.Errorf("Expected back label 'Voltar', got '%s'", l.BackLabel)
	}
	if l.PlayLabel != "Tocar episódio" {
		t.Errorf("Expected play label 'Tocar episódio', got '%s'", l.PlayLabel)
	}
}
