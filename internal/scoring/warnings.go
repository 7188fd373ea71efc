// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"fmt"
	"strings"

	"github.com/pdiddy/seo-auditor/pkg/types"
)

// pillarTitles are the human-readable pillar names used in warnings and
// table output.
var pillarTitles = map[types.Pillar]string{
	types.PillarContentStructure:  "Content Structure",
	types.PillarBrandRanking:      "Brand Ranking",
	types.PillarWebsiteTechnical:  "Website Technical",
	types.PillarKeywordVisibility: "Keyword Visibility",
	types.PillarAITrust:           "AI Trust",
}

// PillarTitle returns the display name for a pillar.
func PillarTitle(p types.Pillar) string {
	if t, ok := pillarTitles[p]; ok {
		return t
	}
	return string(p)
}

// familyImpact records which pillars and sub-metrics degrade when a metric
// family has no real provider data. The mapping is static so warnings stay
// accurate regardless of how a provider phrases its error.
type familyImpact struct {
	pillar  types.Pillar
	metrics []string
}

var familyImpacts = map[types.MetricFamily][]familyImpact{
	types.FamilyKeywords: {
		{types.PillarKeywordVisibility, []string{MetricRankedKeywords, MetricAveragePosition, MetricIntentMatch}},
		{types.PillarBrandRanking, []string{MetricBrandRank}},
	},
	types.FamilyBacklinks: {
		{types.PillarAITrust, []string{MetricBacklinkQuality, MetricReferringDomains}},
	},
}

// BuildWarnings derives user-facing warnings from structured provider
// failures and from families that fell through to estimates. perfOK is
// false when the performance analyzer produced no data.
func BuildWarnings(m types.UnifiedSEOMetrics, perfOK bool) []string {
	var warnings []string

	for _, f := range m.Failures {
		warnings = append(warnings, fmt.Sprintf("%s %s data unavailable; %s may be approximate",
			f.Provider, f.Family, impactSummary(f.Family)))
	}
	if m.Source.Keywords == types.ProviderEstimate {
		warnings = append(warnings, fmt.Sprintf("no keyword provider returned data; %s scored from on-page estimates",
			impactSummary(types.FamilyKeywords)))
	}
	if m.Source.Backlinks == types.ProviderEstimate {
		warnings = append(warnings, fmt.Sprintf("no backlink provider returned data; %s scored from on-page estimates",
			impactSummary(types.FamilyBacklinks)))
	}
	if !perfOK {
		warnings = append(warnings, fmt.Sprintf("performance data unavailable; %s (%s) scored at floor",
			PillarTitle(types.PillarWebsiteTechnical),
			strings.Join([]string{MetricCoreWebVitals, MetricMobilePerformance}, ", ")))
	}

	return warnings
}

func impactSummary(fam types.MetricFamily) string {
	var parts []string
	for _, imp := range familyImpacts[fam] {
		parts = append(parts, fmt.Sprintf("%s (%s)", PillarTitle(imp.pillar), strings.Join(imp.metrics, ", ")))
	}
	return strings.Join(parts, " and ")
}
