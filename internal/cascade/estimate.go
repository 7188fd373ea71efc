// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cascade

import "github.com/pdiddy/seo-auditor/pkg/types"

// Heuristic estimates are the degraded fallback when every real provider
// for a family is unavailable. They are deliberately conservative: derived
// only from page-inspection signals, they should under-score rather than
// flatter a site whose real metrics are unknown.

// EstimateKeywords synthesizes keyword metrics from page facts. Position
// data stays zero because nothing on the page reveals SERP placement.
func EstimateKeywords(facts types.PageFacts) types.KeywordMetrics {
	m := types.KeywordMetrics{Trend: "stable"}

	// Rough proxy: substantial pages tend to rank for a handful of terms.
	m.TotalKeywords = facts.WordCount / 300
	if m.TotalKeywords > 10 {
		m.TotalKeywords = 10
	}

	// A page that opens with a concise answer plausibly serves
	// informational intent.
	if facts.FirstParagraph != "" {
		m.IntentMatchPct = 30
	}
	return m
}

// EstimateBacklinks synthesizes a conservative backlink profile from page
// facts. Referring-domain and total counts stay zero; only a floor-level
// authority is granted to sites showing basic trust signals.
func EstimateBacklinks(facts types.PageFacts) types.BacklinkMetrics {
	var m types.BacklinkMetrics
	if facts.HTTPS && facts.WordCount >= 300 {
		m.DomainRating = 10
	} else if facts.HTTPS {
		m.DomainRating = 5
	}
	return m
}
