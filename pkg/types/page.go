// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PageFacts holds the structural facts the page inspector extracts from a
// single URL. It is the fixed contract between the inspector and the
// scoring engine.
type PageFacts struct {
	// URL is the normalized URL that was inspected.
	URL string `json:"url" yaml:"url"`

	// Domain is the registrable domain (eTLD+1) of the URL.
	Domain string `json:"domain" yaml:"domain"`

	// HTTPS reports whether the page was served over TLS.
	HTTPS bool `json:"https" yaml:"https"`

	// WordCount is the visible-text word count of the page body.
	WordCount int `json:"word_count" yaml:"word_count"`

	// HeadingCounts holds the number of headings per level; index 0 is H1.
	HeadingCounts [6]int `json:"heading_counts" yaml:"heading_counts"`

	// SchemaTypes lists the schema.org types found in JSON-LD or microdata.
	SchemaTypes []string `json:"schema_types,omitempty" yaml:"schema_types,omitempty"`

	// HasAuthorSchema reports whether author or credential markup is present.
	HasAuthorSchema bool `json:"has_author_schema" yaml:"has_author_schema"`

	// HasLocalSignals reports local/GEO markup (LocalBusiness, address, geo meta).
	HasLocalSignals bool `json:"has_local_signals" yaml:"has_local_signals"`

	TotalImages   int `json:"total_images" yaml:"total_images"`
	ImagesWithAlt int `json:"images_with_alt" yaml:"images_with_alt"`
	VideoCount    int `json:"video_count" yaml:"video_count"`
	TableCount    int `json:"table_count" yaml:"table_count"`
	ListCount     int `json:"list_count" yaml:"list_count"`

	InternalLinks int `json:"internal_links" yaml:"internal_links"`
	ExternalLinks int `json:"external_links" yaml:"external_links"`

	// BrokenLinks is the number of sampled links that returned an error
	// status. Zero when link checking is disabled.
	BrokenLinks int `json:"broken_links" yaml:"broken_links"`

	// FirstParagraph is the leading paragraph text, used by the
	// direct-answer heuristic.
	FirstParagraph string `json:"first_paragraph,omitempty" yaml:"first_paragraph,omitempty"`

	// AICrawlersAllowed reports whether robots.txt permits the major AI
	// crawlers to fetch the site root.
	AICrawlersAllowed bool `json:"ai_crawlers_allowed" yaml:"ai_crawlers_allowed"`

	// HasLLMsFile reports whether the site serves an llms.txt hint file.
	HasLLMsFile bool `json:"has_llms_file" yaml:"has_llms_file"`

	// SitemapDeclared reports a Sitemap directive in robots.txt or a
	// conventional /sitemap.xml location.
	SitemapDeclared bool `json:"sitemap_declared" yaml:"sitemap_declared"`

	// SitemapReachable reports whether the declared sitemap fetched with a
	// 2xx status.
	SitemapReachable bool `json:"sitemap_reachable" yaml:"sitemap_reachable"`
}

// TotalHeadings returns the number of headings across all levels.
func (f PageFacts) TotalHeadings() int {
	total := 0
	for _, n := range f.HeadingCounts {
		total += n
	}
	return total
}

// PerfTier is the categorical Core Web Vitals assessment.
type PerfTier string

const (
	TierGood             PerfTier = "good"
	TierNeedsImprovement PerfTier = "needs_improvement"
	TierPoor             PerfTier = "poor"
	TierUnknown          PerfTier = "unknown"
)

// PerfFacts holds the performance analyzer's output for a single URL.
type PerfFacts struct {
	// LCPSeconds is the Largest Contentful Paint in seconds.
	LCPSeconds float64 `json:"lcp_seconds" yaml:"lcp_seconds"`

	// INPMillis is the Interaction to Next Paint in milliseconds.
	INPMillis float64 `json:"inp_millis" yaml:"inp_millis"`

	// CLS is the Cumulative Layout Shift score.
	CLS float64 `json:"cls" yaml:"cls"`

	// Tier is the overall Core Web Vitals category.
	Tier PerfTier `json:"tier" yaml:"tier"`

	// MobileScore is the 0-100 mobile performance score.
	MobileScore int `json:"mobile_score" yaml:"mobile_score"`
}
