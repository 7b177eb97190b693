package site

import (
	"time"
)

const (
	DefaultTitle             = "Podcastr"
	DefaultLocale            = "en"
	DefaultRevalidateSeconds = 86400
	DefaultHomeURL           = "/"
)

type Config struct {
	Title             string   `yaml:"title"`
	Locale            string   `yaml:"locale"`
	HomeURL           string   `yaml:"home_url"`
	RevalidateSeconds int      `yaml:"revalidate_seconds"`
	Prerender         []string `yaml:"prerender"` // slugs generated at startup
}

func (c *Config) RevalidateInterval() time.Duration {
	return time.Duration(c.RevalidateSeconds) * time.Second
}
