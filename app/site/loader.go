package site

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default returns the configuration used when no site file is present.
func Default() *Config {
	return &Config{
		Title:             DefaultTitle,
		Locale:            DefaultLocale,
		HomeURL:           DefaultHomeURL,
		RevalidateSeconds: DefaultRevalidateSeconds,
		Prerender:         []string{},
	}
}

// Load reads the site file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("Site configuration not found, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var siteConfig Config
	if err := yaml.Unmarshal(data, &siteConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if siteConfig.Title == "" {
		siteConfig.Title = DefaultTitle
	}
	if siteConfig.Locale == "" {
		siteConfig.Locale = DefaultLocale
	}
	if siteConfig.HomeURL == "" {
		siteConfig.HomeURL = DefaultHomeURL
	}
	if siteConfig.RevalidateSeconds == 0 {
		siteConfig.RevalidateSeconds = DefaultRevalidateSeconds
	}

	prerender := make([]string, 0, len(siteConfig.Prerender))
	seen := make(map[string]bool, len(siteConfig.Prerender))
	for _, slug := range siteConfig.Prerender {
		slug = strings.TrimSpace(slug)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		prerender = append(prerender, slug)
	}
	siteConfig.Prerender = prerender

	if err := validate(&siteConfig); err != nil {
		return nil, fmt.Errorf("invalid site config: %w", err)
	}

	return &siteConfig, nil
}

func validate(siteConfig *Config) error {
	if siteConfig.RevalidateSeconds < 0 {
		return fmt.Errorf("revalidate seconds must be non-negative")
	}

	for i, slug := range siteConfig.Prerender {
		if strings.Contains(slug, "/") {
			return fmt.Errorf("invalid prerender slug at index %d: %s", i, slug)
		}
	}

	return nil
}
