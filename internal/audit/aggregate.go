// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audit

import (
	"sort"

	"github.com/pdiddy/seo-auditor/pkg/types"
)

// AverageScores computes the metric-by-metric mean of a set of score
// results. Sub-metric scores are averaged, the data-source flags are
// OR-reduced, and the total is recomputed from the averaged pillars with a
// single rounding. Averaging one result returns it unchanged.
func AverageScores(results []types.ScoreResult) types.ScoreResult {
	if len(results) == 0 {
		return types.ScoreResult{}
	}

	avg := types.ScoreResult{Breakdown: make(map[types.Pillar]types.PillarBreakdown, len(types.Pillars))}
	for _, pillar := range types.Pillars {
		template := results[0].Breakdown[pillar]
		merged := make(types.PillarBreakdown, 0, len(template))
		for _, entry := range template {
			mean := entry.Metric.Score
			// The lowest-scoring constituent carries the most relevant
			// insight and recommendation for the averaged view. Entries are
			// matched by key, so a result missing a metric contributes a
			// zero rather than panicking.
			worst := entry.Metric
			for _, r := range results[1:] {
				other, ok := r.Breakdown[pillar].Get(entry.Key)
				if !ok {
					continue
				}
				mean += other.Score
				if other.Score < worst.Score {
					worst = other
				}
			}
			mean /= float64(len(results))

			m := worst
			m.Score = mean
			if mean >= m.MaxScore {
				m.Recommendation = ""
			}
			merged = append(merged, types.MetricEntry{Key: entry.Key, Metric: m})
		}
		avg.Breakdown[pillar] = merged
	}

	for _, r := range results {
		avg.DataSource = avg.DataSource.Or(r.DataSource)
	}

	avg.ContentStructure = meanPillar(results, types.PillarContentStructure)
	avg.BrandRanking = meanPillar(results, types.PillarBrandRanking)
	avg.WebsiteTechnical = meanPillar(results, types.PillarWebsiteTechnical)
	avg.KeywordVisibility = meanPillar(results, types.PillarKeywordVisibility)
	avg.AITrust = meanPillar(results, types.PillarAITrust)
	avg.Total = avg.RoundTotal()
	return avg
}

func meanPillar(results []types.ScoreResult, p types.Pillar) float64 {
	var sum float64
	for _, r := range results {
		sum += r.PillarScore(p)
	}
	return sum / float64(len(results))
}

// CompareScores ranks the primary domain against its competitors, one
// ranking per pillar plus an overall ranking by total. Pillar ties break by
// total score, then by domain name for determinism.
func CompareScores(primary types.DomainResult, competitors []types.DomainResult) types.Comparison {
	all := append([]types.DomainResult{primary}, competitors...)

	cmp := types.Comparison{Primary: primary.Domain}
	for _, pillar := range types.Pillars {
		standings := make([]types.Standing, 0, len(all))
		for _, d := range all {
			standings = append(standings, types.Standing{
				Domain: d.Domain,
				Score:  d.Average.PillarScore(pillar),
				Total:  d.Average.Total,
			})
		}
		rank(standings)
		cmp.Pillars = append(cmp.Pillars, types.PillarRanking{Pillar: pillar, Standings: standings})
	}

	overall := make([]types.Standing, 0, len(all))
	for _, d := range all {
		overall = append(overall, types.Standing{
			Domain: d.Domain,
			Score:  d.Average.Total,
			Total:  d.Average.Total,
		})
	}
	rank(overall)
	cmp.Overall = overall
	return cmp
}

// rank sorts standings best first and assigns 1-based ranks.
func rank(standings []types.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		if standings[i].Total != standings[j].Total {
			return standings[i].Total > standings[j].Total
		}
		return standings[i].Domain < standings[j].Domain
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
}
