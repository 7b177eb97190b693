package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveGeneration(t *testing.T) {
	m := New()

	m.ObserveGeneration("ok")
	m.ObserveGeneration("ok")
	m.ObserveGeneration("not_found")

	if got := testutil.ToFloat64(m.generations.WithLabelValues("ok")); got != 2 {
		t.Errorf("Expected 2 ok generations, got %v", got)
	}
	if got := testutil.ToFloat64(m.generations.WithLabelValues("not_found")); got != 1 {
		t.Errorf("Expected 1 not_found generation, got %v", got)
	}
}

func TestObserveCacheLookupAndRegeneration(t *testing.T) {
	m := New()

	m.ObserveCacheLookup("hit")
	m.ObserveCacheLookup("stale")
	m.ObserveRegeneration("failure")

	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("stale")); got != 1 {
		t.Errorf("Expected 1 stale lookup, got %v", got)
	}
	if got := testutil.ToFloat64(m.regenerations.WithLabelValues("failure")); got != 1 {
		t.Errorf("Expected 1 failed regeneration, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveUpstreamRequest("200", 150*time.Millisecond)
	m.ObserveCacheLookup("miss")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		`episode_pages_upstream_request_duration_seconds_count{status="200"} 1`,
		`episode_pages_cache_lookups_total{result="miss"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("Expected metrics output to contain %q", name)
		}
	}
}
