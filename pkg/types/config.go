package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "seo-auditor/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProviderConfig holds credentials and settings for the keyword and
// backlink data providers. A provider with empty credentials is treated as
// unconfigured and skipped by the cascade.
type ProviderConfig struct {
	HTTPConfig `yaml:",inline"`

	// MozToken is the Moz Links API bearer token.
	MozToken string `json:"moz_token,omitempty" yaml:"moz_token,omitempty"`

	// DataForSEOLogin and DataForSEOPassword are the DataForSEO basic-auth
	// credentials.
	DataForSEOLogin    string `json:"dataforseo_login,omitempty" yaml:"dataforseo_login,omitempty"`
	DataForSEOPassword string `json:"dataforseo_password,omitempty" yaml:"dataforseo_password,omitempty"`

	// GSCAPIKey authenticates Search Console Search Analytics queries.
	GSCAPIKey string `json:"gsc_api_key,omitempty" yaml:"gsc_api_key,omitempty"`

	// GSCSiteURL is the verified Search Console property for the audited
	// site (e.g. "sc-domain:example.com").
	GSCSiteURL string `json:"gsc_site_url,omitempty" yaml:"gsc_site_url,omitempty"`
}

// PerformanceConfig holds settings for the PageSpeed performance analyzer.
type PerformanceConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the PageSpeed Insights API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Strategy selects the analysis strategy: "mobile" (default) or "desktop".
	Strategy string `json:"strategy" yaml:"strategy"`
}

// InspectConfig holds settings for the page inspector.
type InspectConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxLinkChecks bounds the number of links sampled for broken-link
	// detection. Zero disables link checking.
	MaxLinkChecks int `json:"max_link_checks" yaml:"max_link_checks"`
}

// AuditConfig holds settings for batch orchestration.
type AuditConfig struct {
	// MaxParallel bounds the number of URLs analyzed concurrently (default 5).
	MaxParallel int `json:"max_parallel" yaml:"max_parallel"`

	// URLTimeout is the total analysis ceiling per URL (default 45s).
	URLTimeout time.Duration `json:"url_timeout" yaml:"url_timeout"`

	// MaxPrimaryURLs caps the primary URL batch (default 30).
	MaxPrimaryURLs int `json:"max_primary_urls" yaml:"max_primary_urls"`

	// MaxCompetitorGroups caps the number of competitor domains (default 4).
	MaxCompetitorGroups int `json:"max_competitor_groups" yaml:"max_competitor_groups"`

	// MaxCompetitorURLs caps the URLs audited per competitor (default 10).
	MaxCompetitorURLs int `json:"max_competitor_urls" yaml:"max_competitor_urls"`

	// RatePerMinute and RateBurst configure the advisory per-caller
	// admission limiter for batch requests.
	RatePerMinute int `json:"rate_per_minute" yaml:"rate_per_minute"`
	RateBurst     int `json:"rate_burst" yaml:"rate_burst"`
}

// HistoryConfig holds settings for the scan-history store.
type HistoryConfig struct {
	// HistoryDir is the directory containing the SQLite database (default
	// ".seo-auditor").
	HistoryDir string `json:"history_dir" yaml:"history_dir"`

	// Keep is the number of scans Prune retains per domain (default 20).
	Keep int `json:"keep" yaml:"keep"`
}

// PipelineConfig groups all stage configurations for the auditor.
type PipelineConfig struct {
	Providers   ProviderConfig    `json:"providers" yaml:"providers"`
	Performance PerformanceConfig `json:"performance" yaml:"performance"`
	Inspect     InspectConfig     `json:"inspect" yaml:"inspect"`
	Audit       AuditConfig       `json:"audit" yaml:"audit"`
	History     HistoryConfig     `json:"history" yaml:"history"`
}
