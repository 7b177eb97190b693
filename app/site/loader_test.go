package site

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	siteConfig, err := Load(filepath.Join(t.TempDir(), "site.yml"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if siteConfig.Title != DefaultTitle {
		t.Errorf("Expected title '%s', got '%s'", DefaultTitle, siteConfig.Title)
	}
	if siteConfig.Locale != "en" {
		t.Errorf("Expected locale 'en', got '%s'", siteConfig.Locale)
	}
	if siteConfig.RevalidateInterval() != 24*time.Hour {
		t.Errorf("Expected 24h revalidation, got %v", siteConfig.RevalidateInterval())
	}
	if len(siteConfig.Prerender) != 0 {
		t.Errorf("Expected empty prerender list, got %v", siteConfig.Prerender)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	siteConfig, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if siteConfig.HomeURL != "/" {
		t.Errorf("Expected home URL '/', got '%s'", siteConfig.HomeURL)
	}
}

func TestLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
title: "Podcastr"
locale: "pt-BR"
home_url: "https://podcastr.example.com/"
revalidate_seconds: 3600
prerender:
  - "a-importancia-da-contribuicao-em-open-source"
  - " uma-conversa-sobre-programacao-funcional-e-orientacao-a-objetos "
  - "a-importancia-da-contribuicao-em-open-source"
  - ""
`
	path := filepath.Join(tempDir, "site.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	siteConfig, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if siteConfig.Locale != "pt-BR" {
		t.Errorf("Expected locale 'pt-BR', got '%s'", siteConfig.Locale)
	}
	if siteConfig.HomeURL != "https://podcastr.example.com/" {
		t.Errorf("Expected configured home URL, got '%s'", siteConfig.HomeURL)
	}
	if siteConfig.RevalidateInterval() != time.Hour {
		t.Errorf("Expected 1h revalidation, got %v", siteConfig.RevalidateInterval())
	}
	if len(siteConfig.Prerender) != 2 {
		t.Fatalf("Expected 2 prerender slugs after trimming and dedup, got %v", siteConfig.Prerender)
	}
	if siteConfig.Prerender[1] != "uma-conversa-sobre-programacao-funcional-e-orientacao-a-objetos" {
		t.Errorf("Expected trimmed slug, got '%s'", siteConfig.Prerender[1])
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	invalid := map[string]string{
		"negative revalidate": "revalidate_seconds: -1\n",
		"slug with slash":     "prerender:\n  - \"a/b\"\n",
		"bad yaml":            "title: [unterminated\n",
	}

	for name, content := range invalid {
		if _, err := Parse([]byte(content)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
