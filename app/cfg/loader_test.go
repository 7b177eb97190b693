package cfg

import (
	"os"
	"testing"
	"time"
)

var envKeys = []string{
	"API_BASE_URL", "REQUEST_TIMEOUT", "RATE_LIMIT", "RATE_BURST", "PORT", "BASE_URL",
	"SITE_CONFIG", "DB_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "WORKER_COUNT", "API_ACCESS_KEY", "USER_AGENT", "TZ", "DEBUG",
}

// clearEnv unsets every configuration variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadArgs([]string{"--api-base-url", "https://api.example.com"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected config, got nil")
	}

	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("Expected API base URL 'https://api.example.com', got '%s'", cfg.APIBaseURL)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.RequestTimeout != 10 {
		t.Errorf("Expected request timeout 10, got %d", cfg.RequestTimeout)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.DBPath != "" {
		t.Errorf("Expected empty DB path, got '%s'", cfg.DBPath)
	}
	if cfg.RedisAddr != "" || cfg.RedisDB != 0 {
		t.Errorf("Expected Redis disabled by default, got addr '%s' db %d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.UserAgent != "Episode Pages/1.0" {
		t.Errorf("Expected default user agent, got '%s'", cfg.UserAgent)
	}
	if cfg.Version == "" {
		t.Error("Expected version to be set")
	}

	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadArgsFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://env.example.com")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/pages.db")
	t.Setenv("API_ACCESS_KEY", "secret")

	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.APIBaseURL != "https://env.example.com" {
		t.Errorf("Expected API base URL from env, got '%s'", cfg.APIBaseURL)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.DBPath != "/tmp/pages.db" {
		t.Errorf("Expected DB path from env, got '%s'", cfg.DBPath)
	}
	if cfg.APIAccessKey != "secret" {
		t.Errorf("Expected API key from env, got '%s'", cfg.APIAccessKey)
	}
}

func TestLoadArgsRequiresAPIBaseURL(t *testing.T) {
	clearEnv(t)

	if _, err := LoadArgs([]string{}); err == nil {
		t.Error("Expected error when API base URL is missing")
	}
}

func TestLoadArgsRejectsInvalidWorkerCount(t *testing.T) {
	clearEnv(t)

	if _, err := LoadArgs([]string{"--api-base-url", "https://api.example.com", "--worker-count", "0"}); err == nil {
		t.Error("Expected error for zero worker count")
	}
}

func TestLoadArgsRejectsTwoCacheBackends(t *testing.T) {
	clearEnv(t)

	args := []string{"--api-base-url", "https://api.example.com", "--db-path", "pages.db", "--redis-addr", "localhost:6379"}
	if _, err := LoadArgs(args); err == nil {
		t.Error("Expected error when both SQLite and Redis are configured")
	}
}

func TestLocation(t *testing.T) {
	cfg := &Cfg{Timezone: "UTC"}
	if cfg.Location() != time.UTC {
		t.Errorf("Expected UTC location, got %v", cfg.Location())
	}

	cfg = &Cfg{Timezone: "Not/AZone"}
	if cfg.Location() != time.UTC {
		t.Errorf("Expected fallback to UTC, got %v", cfg.Location())
	}

	cfg = &Cfg{Timezone: ""}
	if cfg.Location() != time.UTC {
		t.Errorf("Expected UTC for empty timezone, got %v", cfg.Location())
	}
}
