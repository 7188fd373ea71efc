// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the seo-auditor pipeline.
// All structures are value objects computed fresh per audit request; nothing
// is mutated after construction.
package types

import "math"

// Pillar identifies one of the five independently scored dimensions.
type Pillar string

const (
	PillarContentStructure  Pillar = "content_structure"
	PillarBrandRanking      Pillar = "brand_ranking"
	PillarWebsiteTechnical  Pillar = "website_technical"
	PillarKeywordVisibility Pillar = "keyword_visibility"
	PillarAITrust           Pillar = "ai_trust"
)

// Pillars lists the pillars in presentation order.
var Pillars = []Pillar{
	PillarContentStructure,
	PillarBrandRanking,
	PillarWebsiteTechnical,
	PillarKeywordVisibility,
	PillarAITrust,
}

// Point budgets per pillar. The sum of per-metric MaxScore values inside a
// pillar always equals that pillar's budget; the pillar score is clamped to
// it before entering the total.
const (
	BudgetContentStructure  = 25.0
	BudgetBrandRanking      = 9.0
	BudgetWebsiteTechnical  = 17.0
	BudgetKeywordVisibility = 23.0
	BudgetAITrust           = 22.0

	// BudgetTotal is the maximum achievable total score.
	BudgetTotal = BudgetContentStructure + BudgetBrandRanking +
		BudgetWebsiteTechnical + BudgetKeywordVisibility + BudgetAITrust
)

// PillarBudget returns the point budget for a pillar.
func PillarBudget(p Pillar) float64 {
	switch p {
	case PillarContentStructure:
		return BudgetContentStructure
	case PillarBrandRanking:
		return BudgetBrandRanking
	case PillarWebsiteTechnical:
		return BudgetWebsiteTechnical
	case PillarKeywordVisibility:
		return BudgetKeywordVisibility
	case PillarAITrust:
		return BudgetAITrust
	}
	return 0
}

// Metric is one scored sub-signal inside a pillar. Value holds the raw
// observation (a number or a short string), Score is always within
// [0, MaxScore], and Recommendation is empty when no points were lost.
type Metric struct {
	Value          any     `json:"value" yaml:"value"`
	Score          float64 `json:"score" yaml:"score"`
	MaxScore       float64 `json:"max_score" yaml:"max_score"`
	Insight        string  `json:"insight" yaml:"insight"`
	Recommendation string  `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// MetricEntry pairs a stable metric key with its scored Metric. Breakdowns
// are slices rather than maps so the metric order is deterministic.
type MetricEntry struct {
	Key string `json:"key" yaml:"key"`
	Metric
}

// PillarBreakdown is the ordered list of scored metrics for one pillar.
type PillarBreakdown []MetricEntry

// Score returns the sum of metric scores in the breakdown.
func (b PillarBreakdown) Score() float64 {
	var sum float64
	for _, e := range b {
		sum += e.Metric.Score
	}
	return sum
}

// MaxTotal returns the sum of metric MaxScore values in the breakdown.
func (b PillarBreakdown) MaxTotal() float64 {
	var sum float64
	for _, e := range b {
		sum += e.MaxScore
	}
	return sum
}

// Get returns the metric stored under key.
func (b PillarBreakdown) Get(key string) (Metric, bool) {
	for _, e := range b {
		if e.Key == key {
			return e.Metric, true
		}
	}
	return Metric{}, false
}

// DataSource records which real upstream sources contributed to a score.
// A false flag means the corresponding provider was skipped, failed, or was
// replaced by a heuristic estimate.
type DataSource struct {
	Moz        bool `json:"moz" yaml:"moz"`
	DataForSEO bool `json:"dataforseo" yaml:"dataforseo"`
	GSC        bool `json:"gsc" yaml:"gsc"`
	PageSpeed  bool `json:"pagespeed" yaml:"pagespeed"`
}

// Or returns the element-wise OR of two DataSource flag sets.
func (d DataSource) Or(other DataSource) DataSource {
	return DataSource{
		Moz:        d.Moz || other.Moz,
		DataForSEO: d.DataForSEO || other.DataForSEO,
		GSC:        d.GSC || other.GSC,
		PageSpeed:  d.PageSpeed || other.PageSpeed,
	}
}

// ScoreResult is the full scored outcome for a single URL (or, after
// aggregation, the average across a domain's URLs). Total is the pillar sum
// rounded exactly once; the pillar fields are kept unrounded so aggregation
// does not accumulate drift.
type ScoreResult struct {
	Total             float64                    `json:"total" yaml:"total"`
	ContentStructure  float64                    `json:"content_structure" yaml:"content_structure"`
	BrandRanking      float64                    `json:"brand_ranking" yaml:"brand_ranking"`
	WebsiteTechnical  float64                    `json:"website_technical" yaml:"website_technical"`
	KeywordVisibility float64                    `json:"keyword_visibility" yaml:"keyword_visibility"`
	AITrust           float64                    `json:"ai_trust" yaml:"ai_trust"`
	Breakdown         map[Pillar]PillarBreakdown `json:"breakdown" yaml:"breakdown"`
	DataSource        DataSource                 `json:"data_source" yaml:"data_source"`
}

// PillarScore returns the score for pillar p.
func (r ScoreResult) PillarScore(p Pillar) float64 {
	switch p {
	case PillarContentStructure:
		return r.ContentStructure
	case PillarBrandRanking:
		return r.BrandRanking
	case PillarWebsiteTechnical:
		return r.WebsiteTechnical
	case PillarKeywordVisibility:
		return r.KeywordVisibility
	case PillarAITrust:
		return r.AITrust
	}
	return 0
}

// RoundTotal computes the once-rounded total from the pillar fields.
func (r ScoreResult) RoundTotal() float64 {
	return math.Round(r.ContentStructure + r.BrandRanking + r.WebsiteTechnical +
		r.KeywordVisibility + r.AITrust)
}

// Priority buckets recommendations by urgency.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Recommendation is an actionable improvement derived from a lost-points
// metric in a ScoreResult.
type Recommendation struct {
	Pillar       Pillar   `json:"pillar" yaml:"pillar"`
	Priority     Priority `json:"priority" yaml:"priority"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Impact       string   `json:"impact" yaml:"impact"`
	MetricName   string   `json:"metric_name" yaml:"metric_name"`
	CurrentScore float64  `json:"current_score" yaml:"current_score"`
	MaxScore     float64  `json:"max_score" yaml:"max_score"`
	PointsLost   float64  `json:"points_lost" yaml:"points_lost"`
}
