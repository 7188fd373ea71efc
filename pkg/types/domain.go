// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// URLResult is the per-URL audit outcome inside a domain batch.
type URLResult struct {
	URL      string            `json:"url" yaml:"url"`
	Score    ScoreResult       `json:"score" yaml:"score"`
	Metrics  UnifiedSEOMetrics `json:"metrics" yaml:"metrics"`
	Warnings []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// DomainResult aggregates the audit results for one domain: the averaged
// score across its URLs, the per-URL results, and the recommendations and
// non-fatal warnings generated along the way.
type DomainResult struct {
	Domain          string           `json:"domain" yaml:"domain"`
	URLs            []string         `json:"urls" yaml:"urls"`
	Average         ScoreResult      `json:"average" yaml:"average"`
	Results         []URLResult      `json:"results" yaml:"results"`
	Recommendations []Recommendation `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	Warnings        []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// CompetitorGroup names a competitor domain and the URLs to audit for it.
type CompetitorGroup struct {
	Name string   `json:"name" yaml:"name"`
	URLs []string `json:"urls" yaml:"urls"`
}

// Standing is one domain's position in a ranking.
type Standing struct {
	Domain string  `json:"domain" yaml:"domain"`
	Score  float64 `json:"score" yaml:"score"`
	Total  float64 `json:"total" yaml:"total"`
	Rank   int     `json:"rank" yaml:"rank"`
}

// PillarRanking orders the compared domains for one pillar, best first.
type PillarRanking struct {
	Pillar    Pillar     `json:"pillar" yaml:"pillar"`
	Standings []Standing `json:"standings" yaml:"standings"`
}

// Comparison is the structured comparison of a primary domain against its
// competitors: one ranking per pillar plus an overall ranking by total.
type Comparison struct {
	Primary string          `json:"primary" yaml:"primary"`
	Pillars []PillarRanking `json:"pillars" yaml:"pillars"`
	Overall []Standing      `json:"overall" yaml:"overall"`
}
