// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cascade

import (
	"math"
	"strings"

	"github.com/pdiddy/seo-auditor/internal/providers"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

// answerIntents are the search intents that count toward the intent-match
// percentage: the intents an AI-discovery-ready page should satisfy.
var answerIntents = map[string]bool{
	"informational": true,
	"commercial":    true,
}

// NormalizeKeywords maps a provider's raw keyword payload into the
// canonical KeywordMetrics shape. Missing upstream fields coalesce to zero
// values so the scoring engine never sees absent data. Pure function, no
// business logic beyond derivation of the canonical fields.
func NormalizeKeywords(raw providers.RawKeywordData, domain string) types.KeywordMetrics {
	m := types.KeywordMetrics{Trend: raw.Trend}

	m.TotalKeywords = raw.TotalCount
	if len(raw.Rows) > m.TotalKeywords {
		m.TotalKeywords = len(raw.Rows)
	}
	if m.TotalKeywords < 0 {
		m.TotalKeywords = 0
	}

	brand := brandToken(domain)

	var (
		posSum     float64
		posCount   int
		intentHits int
		intentSeen int
	)
	for _, row := range raw.Rows {
		if row.Position > 0 && !math.IsNaN(row.Position) {
			posSum += row.Position
			posCount++
		}
		if row.Traffic > 0 {
			m.EstimatedTraffic += row.Traffic
		}
		if row.Intent != "" {
			intentSeen++
			if answerIntents[strings.ToLower(row.Intent)] {
				intentHits++
			}
		}
		if brand != "" && keywordMentionsBrand(row.Keyword, brand) && row.Position > 0 {
			pos := int(math.Round(row.Position))
			if m.BrandRank == 0 || pos < m.BrandRank {
				m.BrandRank = pos
			}
		}
	}

	if posCount > 0 {
		m.AveragePosition = posSum / float64(posCount)
	}
	if intentSeen > 0 {
		m.IntentMatchPct = 100 * float64(intentHits) / float64(intentSeen)
	}
	return m
}

// NormalizeBacklinks maps a provider's raw backlink payload into the
// canonical BacklinkMetrics shape, clamping nonsense negatives to zero.
func NormalizeBacklinks(raw providers.RawBacklinkData) types.BacklinkMetrics {
	m := types.BacklinkMetrics{
		DomainRating:     raw.DomainAuthority,
		TotalBacklinks:   raw.TotalBacklinks,
		ReferringDomains: raw.ReferringDomains,
	}
	if m.DomainRating < 0 || math.IsNaN(m.DomainRating) {
		m.DomainRating = 0
	}
	if m.DomainRating > 100 {
		m.DomainRating = 100
	}
	if m.TotalBacklinks < 0 {
		m.TotalBacklinks = 0
	}
	if m.ReferringDomains < 0 {
		m.ReferringDomains = 0
	}
	return m
}

// brandToken returns the brand word of a registrable domain
// ("example.co.uk" → "example").
func brandToken(domain string) string {
	label, _, _ := strings.Cut(domain, ".")
	return strings.ToLower(label)
}

// keywordMentionsBrand reports whether the keyword contains the brand token
// as a whole word.
func keywordMentionsBrand(keyword, brand string) bool {
	for _, word := range strings.Fields(strings.ToLower(keyword)) {
		if word == brand {
			return true
		}
	}
	return false
}
