package perf

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/seo-auditor/pkg/types"
)

const samplePageSpeedJSON = `{
  "loadingExperience": {
    "overall_category": "FAST",
    "metrics": {
      "LARGEST_CONTENTFUL_PAINT_MS": {"percentile": 1800, "category": "FAST"},
      "INTERACTION_TO_NEXT_PAINT": {"percentile": 140, "category": "FAST"},
      "CUMULATIVE_LAYOUT_SHIFT_SCORE": {"percentile": 4, "category": "FAST"}
    }
  },
  "lighthouseResult": {
    "categories": {
      "performance": {"score": 0.93}
    }
  }
}`

func testAnalyzer(ts *httptest.Server) *Analyzer {
	return &Analyzer{
		Client: ts.Client(),
		APIKey: "psi-key",
		Cfg: types.PerformanceConfig{
			HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "seo-auditor-test/0.1"},
		},
	}
}

func TestAnalyze(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("strategy") != "mobile" {
			t.Errorf("strategy = %q, want default mobile", q.Get("strategy"))
		}
		if q.Get("key") != "psi-key" {
			t.Errorf("key = %q", q.Get("key"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, samplePageSpeedJSON)
	}))
	defer ts.Close()

	old := pagespeedAPIBase
	pagespeedAPIBase = ts.URL
	defer func() { pagespeedAPIBase = old }()

	facts, err := testAnalyzer(ts).Analyze(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if facts.LCPSeconds != 1.8 {
		t.Errorf("LCPSeconds = %f, want 1.8", facts.LCPSeconds)
	}
	if facts.INPMillis != 140 {
		t.Errorf("INPMillis = %f, want 140", facts.INPMillis)
	}
	if facts.CLS != 0.04 {
		t.Errorf("CLS = %f, want 0.04", facts.CLS)
	}
	if facts.Tier != types.TierGood {
		t.Errorf("Tier = %q, want good", facts.Tier)
	}
	if facts.MobileScore != 93 {
		t.Errorf("MobileScore = %d, want 93", facts.MobileScore)
	}
}

func TestAnalyze_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	old := pagespeedAPIBase
	pagespeedAPIBase = ts.URL
	defer func() { pagespeedAPIBase = old }()

	_, err := testAnalyzer(ts).Analyze(context.Background(), "https://example.com/")
	if err == nil || !strings.Contains(err.Error(), "HTTP 403") {
		t.Errorf("expected HTTP 403 error, got %v", err)
	}
}

func TestTierFromCategory(t *testing.T) {
	tests := []struct {
		in   string
		want types.PerfTier
	}{
		{"FAST", types.TierGood},
		{"GOOD", types.TierGood},
		{"AVERAGE", types.TierNeedsImprovement},
		{"SLOW", types.TierPoor},
		{"", types.TierUnknown},
		{"whatever", types.TierUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := tierFromCategory(tt.in); got != tt.want {
				t.Errorf("tierFromCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsConfigured(t *testing.T) {
	if (&Analyzer{}).IsConfigured() {
		t.Error("missing key should not be configured")
	}
	if !(&Analyzer{APIKey: "k"}).IsConfigured() {
		t.Error("key present should be configured")
	}
}
