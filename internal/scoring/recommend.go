// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"sort"
	"strings"

	"github.com/pdiddy/seo-auditor/pkg/types"
)

// Priority thresholds on points lost per sub-metric.
const (
	highPriorityLoss   = 4.0
	mediumPriorityLoss = 2.0
)

// Recommendations derives an ordered action list from a score result. One
// recommendation per sub-metric that lost points, highest loss first.
func Recommendations(r types.ScoreResult) []types.Recommendation {
	var recs []types.Recommendation

	for _, pillar := range types.Pillars {
		for _, entry := range r.Breakdown[pillar] {
			lost := entry.MaxScore - entry.Score
			if lost <= 0 || entry.Recommendation == "" {
				continue
			}
			recs = append(recs, types.Recommendation{
				Pillar:       pillar,
				Priority:     priorityForLoss(lost),
				Title:        metricTitle(entry.Key),
				Description:  entry.Recommendation,
				Impact:       impactLabel(lost),
				MetricName:   entry.Key,
				CurrentScore: entry.Score,
				MaxScore:     entry.MaxScore,
				PointsLost:   lost,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].PointsLost > recs[j].PointsLost
	})
	return recs
}

func priorityForLoss(lost float64) types.Priority {
	switch {
	case lost >= highPriorityLoss:
		return types.PriorityHigh
	case lost >= mediumPriorityLoss:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

func impactLabel(lost float64) string {
	if lost >= highPriorityLoss {
		return "high impact"
	}
	if lost >= mediumPriorityLoss {
		return "medium impact"
	}
	return "low impact"
}

func metricTitle(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		switch w {
		case "https":
			words[i] = "HTTPS"
		case "ai":
			words[i] = "AI"
		case "eeat":
			words[i] = "E-E-A-T"
		default:
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
