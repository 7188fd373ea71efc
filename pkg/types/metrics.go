// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ProviderName identifies which upstream data provider produced a metric
// family, or "estimate" when every provider was unavailable and a heuristic
// fallback was synthesized.
type ProviderName string

const (
	ProviderMoz        ProviderName = "moz"
	ProviderDataForSEO ProviderName = "dataforseo"
	ProviderGSC        ProviderName = "gsc"
	ProviderEstimate   ProviderName = "estimate"
)

// MetricFamily names one of the two independently cascading metric families.
type MetricFamily string

const (
	FamilyKeywords  MetricFamily = "keywords"
	FamilyBacklinks MetricFamily = "backlinks"
)

// KeywordMetrics is the canonical keyword-visibility shape, independent of
// which provider produced it. All fields are zero-coalesced by the
// normalizer; the scoring engine never sees missing values.
type KeywordMetrics struct {
	// TotalKeywords is the number of keywords the domain ranks for.
	TotalKeywords int `json:"total_keywords" yaml:"total_keywords"`

	// AveragePosition is the mean SERP position across ranked keywords.
	// Zero means no position data is available.
	AveragePosition float64 `json:"average_position" yaml:"average_position"`

	// EstimatedTraffic is the estimated monthly organic visits.
	EstimatedTraffic float64 `json:"estimated_traffic" yaml:"estimated_traffic"`

	// IntentMatchPct is the percentage of ranked keywords whose search
	// intent matches the site's discoverability goals (0-100).
	IntentMatchPct float64 `json:"intent_match_pct" yaml:"intent_match_pct"`

	// Trend describes the visibility direction: "up", "stable", or "down".
	Trend string `json:"trend" yaml:"trend"`

	// BrandRank is the best SERP position for the domain's brand keyword.
	// Zero means the brand keyword does not rank.
	BrandRank int `json:"brand_rank" yaml:"brand_rank"`
}

// BacklinkMetrics is the canonical backlink-profile shape, independent of
// which provider produced it.
type BacklinkMetrics struct {
	// DomainRating is the provider's 0-100 proxy for backlink-profile strength.
	DomainRating float64 `json:"domain_rating" yaml:"domain_rating"`

	// TotalBacklinks is the total count of inbound links.
	TotalBacklinks int `json:"total_backlinks" yaml:"total_backlinks"`

	// ReferringDomains is the count of unique linking domains.
	ReferringDomains int `json:"referring_domains" yaml:"referring_domains"`
}

// MetricsSource attributes each metric family to exactly one provider name
// or "estimate"; it is never empty.
type MetricsSource struct {
	Keywords  ProviderName `json:"keywords" yaml:"keywords"`
	Backlinks ProviderName `json:"backlinks" yaml:"backlinks"`
}

// ProviderFailure records one configured-but-failed provider attempt during
// a cascade, structured so warnings can be built without parsing error text.
type ProviderFailure struct {
	Provider ProviderName `json:"provider" yaml:"provider"`
	Family   MetricFamily `json:"family" yaml:"family"`
}

// UnifiedSEOMetrics is the cascade orchestrator's output: canonical keyword
// and backlink metrics, the provider each family came from, and the
// non-fatal errors accumulated along the way.
type UnifiedSEOMetrics struct {
	Keywords  KeywordMetrics    `json:"keywords" yaml:"keywords"`
	Backlinks BacklinkMetrics   `json:"backlinks" yaml:"backlinks"`
	Source    MetricsSource     `json:"source" yaml:"source"`
	Errors    []string          `json:"errors,omitempty" yaml:"errors,omitempty"`
	Failures  []ProviderFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}
