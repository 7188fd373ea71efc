// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package perf analyzes page performance through the PageSpeed Insights
// API and maps the response into the canonical PerfFacts shape.
package perf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/seo-auditor/internal/httputil"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

// pagespeedAPIBase is the PageSpeed Insights v5 endpoint. Declared as a
// var so tests can substitute an httptest server.
var pagespeedAPIBase = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// Analyzer fetches Core Web Vitals and the mobile performance score.
type Analyzer struct {
	Client *http.Client
	APIKey string
	Cfg    types.PerformanceConfig
}

// New builds an Analyzer with a client honoring the configured timeout.
func New(cfg types.PerformanceConfig) *Analyzer {
	return &Analyzer{
		Client: &http.Client{Timeout: cfg.Timeout},
		APIKey: cfg.APIKey,
		Cfg:    cfg,
	}
}

// IsConfigured reports whether a PageSpeed API key is present.
func (a *Analyzer) IsConfigured() bool { return a.APIKey != "" }

// Analyze runs PageSpeed for pageURL. Failure is non-fatal to the audit:
// the caller records the error and scores the technical pillar without
// performance data.
func (a *Analyzer) Analyze(ctx context.Context, pageURL string) (types.PerfFacts, error) {
	strategy := a.Cfg.Strategy
	if strategy == "" {
		strategy = "mobile"
	}

	params := url.Values{
		"url":      {pageURL},
		"strategy": {strategy},
		"key":      {a.APIKey},
	}
	reqURL := pagespeedAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.PerfFacts{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return types.PerfFacts{}, fmt.Errorf("PageSpeed API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.PerfFacts{}, fmt.Errorf("PageSpeed API returned HTTP %d", resp.StatusCode)
	}

	var pr pagespeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return types.PerfFacts{}, fmt.Errorf("parsing PageSpeed response: %w", err)
	}

	metrics := pr.LoadingExperience.Metrics
	facts := types.PerfFacts{
		LCPSeconds: float64(metrics.LCP.Percentile) / 1000.0,
		INPMillis:  float64(metrics.INP.Percentile),
		CLS:        float64(metrics.CLS.Percentile) / 100.0,
		Tier:       tierFromCategory(pr.LoadingExperience.OverallCategory),
	}
	if pr.LighthouseResult.Categories.Performance.Score > 0 {
		facts.MobileScore = int(pr.LighthouseResult.Categories.Performance.Score*100 + 0.5)
	}
	return facts, nil
}

// tierFromCategory maps the PageSpeed category string onto PerfTier.
func tierFromCategory(category string) types.PerfTier {
	switch strings.ToUpper(category) {
	case "FAST", "GOOD":
		return types.TierGood
	case "AVERAGE", "NEEDS_IMPROVEMENT":
		return types.TierNeedsImprovement
	case "SLOW", "POOR":
		return types.TierPoor
	}
	return types.TierUnknown
}

// PageSpeed Insights API JSON structures.
type pagespeedResponse struct {
	LoadingExperience struct {
		OverallCategory string `json:"overall_category"`
		Metrics         struct {
			LCP pagespeedMetric `json:"LARGEST_CONTENTFUL_PAINT_MS"`
			INP pagespeedMetric `json:"INTERACTION_TO_NEXT_PAINT"`
			CLS pagespeedMetric `json:"CUMULATIVE_LAYOUT_SHIFT_SCORE"`
		} `json:"metrics"`
	} `json:"loadingExperience"`
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
	} `json:"lighthouseResult"`
}

type pagespeedMetric struct {
	Percentile int    `json:"percentile"`
	Category   string `json:"category"`
}
