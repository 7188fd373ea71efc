// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring converts normalized metrics, page facts, and performance
// facts into a capped, explainable score across five pillars. Every
// sub-metric is a monotone step function over bucketed thresholds, clamped
// to its own maximum; every pillar sum is clamped to the pillar budget
// before entering the total. The engine always produces a full score, even
// when upstream data is missing: absent data degrades sub-metrics toward
// their floor, never aborts.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/seo-auditor/pkg/types"
)

// Metric keys, stable across breakdowns so aggregation can align them.
const (
	MetricSchemaMarkup     = "schema_markup"
	MetricHeadingHierarchy = "heading_hierarchy"
	MetricTablesLists      = "tables_lists"
	MetricMultimodal       = "multimodal"
	MetricDirectAnswer     = "direct_answer"
	MetricContentDepth     = "content_depth"

	MetricBrandRank          = "brand_rank"
	MetricCommunitySentiment = "community_sentiment"

	MetricCoreWebVitals     = "core_web_vitals"
	MetricMobilePerformance = "mobile_performance"
	MetricHTTPS             = "https"
	MetricBrokenLinks       = "broken_links"
	MetricAICrawlerFile     = "ai_crawler_file"
	MetricSitemap           = "sitemap"

	MetricRankedKeywords  = "ranked_keywords"
	MetricAveragePosition = "average_position"
	MetricIntentMatch     = "intent_match"

	MetricBacklinkQuality  = "backlink_quality"
	MetricReferringDomains = "referring_domains"
	MetricContentSentiment = "content_sentiment"
	MetricEEATSignals      = "eeat_signals"
	MetricLocalSignals     = "local_signals"
)

// Score computes the full five-pillar result. perfOK reports whether the
// performance analyzer produced facts; when false the performance-derived
// sub-metrics score at their floor.
func Score(facts types.PageFacts, perf types.PerfFacts, perfOK bool, m types.UnifiedSEOMetrics) types.ScoreResult {
	breakdown := map[types.Pillar]types.PillarBreakdown{
		types.PillarContentStructure:  scoreContentStructure(facts),
		types.PillarBrandRanking:      scoreBrandRanking(m.Keywords),
		types.PillarWebsiteTechnical:  scoreWebsiteTechnical(facts, perf, perfOK),
		types.PillarKeywordVisibility: scoreKeywordVisibility(m.Keywords),
		types.PillarAITrust:           scoreAITrust(m.Backlinks, facts),
	}

	r := types.ScoreResult{
		Breakdown: breakdown,
		DataSource: types.DataSource{
			Moz: m.Source.Backlinks == types.ProviderMoz,
			DataForSEO: m.Source.Keywords == types.ProviderDataForSEO ||
				m.Source.Backlinks == types.ProviderDataForSEO,
			GSC:       m.Source.Keywords == types.ProviderGSC,
			PageSpeed: perfOK,
		},
	}

	// Pillar-level clamp: a sub-metric bug must never inflate a pillar
	// beyond its contractual budget.
	r.ContentStructure = clamp(breakdown[types.PillarContentStructure].Score(), types.BudgetContentStructure)
	r.BrandRanking = clamp(breakdown[types.PillarBrandRanking].Score(), types.BudgetBrandRanking)
	r.WebsiteTechnical = clamp(breakdown[types.PillarWebsiteTechnical].Score(), types.BudgetWebsiteTechnical)
	r.KeywordVisibility = clamp(breakdown[types.PillarKeywordVisibility].Score(), types.BudgetKeywordVisibility)
	r.AITrust = clamp(breakdown[types.PillarAITrust].Score(), types.BudgetAITrust)

	// The total is rounded exactly once, never per metric.
	r.Total = r.RoundTotal()
	return r
}

// metric builds a Metric with the sub-metric-level clamp applied. A score
// that is NaN or negative collapses to zero; a score above max is capped.
func metric(value any, score, max float64, insight, rec string) types.Metric {
	if math.IsNaN(score) || score < 0 {
		score = 0
	}
	if score > max {
		score = max
	}
	if score >= max {
		rec = ""
	}
	return types.Metric{Value: value, Score: score, MaxScore: max, Insight: insight, Recommendation: rec}
}

func clamp(score, max float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > max {
		return max
	}
	return score
}

// --- Content Structure (25) ---

func scoreContentStructure(f types.PageFacts) types.PillarBreakdown {
	var b types.PillarBreakdown

	// Structured data presence.
	var schemaScore float64
	switch n := len(f.SchemaTypes); {
	case n >= 3:
		schemaScore = 6
	case n >= 1:
		schemaScore = 4
	}
	b = append(b, types.MetricEntry{Key: MetricSchemaMarkup, Metric: metric(
		len(f.SchemaTypes), schemaScore, 6,
		fmt.Sprintf("%d schema.org type(s) detected", len(f.SchemaTypes)),
		"Add JSON-LD structured data (Article, FAQPage, Organization) so machines can parse the page")})

	// Heading hierarchy: exactly one H1 and no skipped levels.
	h1 := f.HeadingCounts[0]
	skipped := headingLevelSkipped(f.HeadingCounts)
	var headingScore float64
	var headingInsight string
	switch {
	case h1 == 1 && !skipped:
		headingScore, headingInsight = 5, "one H1 with a clean heading hierarchy"
	case h1 == 1:
		headingScore, headingInsight = 3, "one H1 but heading levels are skipped"
	case f.TotalHeadings() > 0:
		headingScore, headingInsight = 2, fmt.Sprintf("%d H1 heading(s); pages need exactly one", h1)
	default:
		headingInsight = "no headings found"
	}
	b = append(b, types.MetricEntry{Key: MetricHeadingHierarchy, Metric: metric(
		h1, headingScore, 5, headingInsight,
		"Use exactly one H1 and nest H2-H6 without skipping levels")})

	// Tables and lists.
	structures := f.TableCount + f.ListCount
	b = append(b, types.MetricEntry{Key: MetricTablesLists, Metric: metric(
		structures, stepInt(structures, []intStep{{4, 3}, {2, 2}, {1, 1}}), 3,
		fmt.Sprintf("%d table(s)/list(s) structure the content", structures),
		"Break dense prose into lists and comparison tables")})

	// Multimodal content: descriptive alt text plus video presence.
	var mmScore float64
	if f.TotalImages > 0 {
		cov := float64(f.ImagesWithAlt) / float64(f.TotalImages)
		switch {
		case cov >= 0.8:
			mmScore += 2
		case cov >= 0.5:
			mmScore += 1
		}
	}
	if f.VideoCount > 0 {
		mmScore += 2
	}
	b = append(b, types.MetricEntry{Key: MetricMultimodal, Metric: metric(
		fmt.Sprintf("%d/%d images with alt, %d video(s)", f.ImagesWithAlt, f.TotalImages, f.VideoCount),
		mmScore, 4,
		"multimodal coverage from image alt text and embedded video",
		"Add descriptive alt text to every image and consider embedding video")})

	// Direct answer: the page opens with a concise answer paragraph.
	answerWords := len(strings.Fields(f.FirstParagraph))
	var answerScore float64
	switch {
	case answerWords >= 20 && answerWords <= 60:
		answerScore = 3
	case answerWords > 0:
		answerScore = 1
	}
	b = append(b, types.MetricEntry{Key: MetricDirectAnswer, Metric: metric(
		answerWords, answerScore, 3,
		fmt.Sprintf("opening paragraph is %d words", answerWords),
		"Open with a 20-60 word paragraph that directly answers the page's core question")})

	// Content depth.
	b = append(b, types.MetricEntry{Key: MetricContentDepth, Metric: metric(
		f.WordCount, stepInt(f.WordCount, []intStep{{1500, 4}, {800, 3}, {300, 2}, {100, 1}}), 4,
		fmt.Sprintf("%d words of visible content", f.WordCount),
		"Expand thin pages; thorough topic coverage needs 800+ words")})

	return b
}

// headingLevelSkipped reports a heading level used without its parent
// level (an H3 with no H2, for example).
func headingLevelSkipped(counts [6]int) bool {
	for level := 1; level < 6; level++ {
		if counts[level] > 0 && counts[level-1] == 0 {
			return true
		}
	}
	return false
}

// --- Brand Ranking (9) ---

func scoreBrandRanking(kw types.KeywordMetrics) types.PillarBreakdown {
	var b types.PillarBreakdown

	// Full points only at #1, partial for top-3 and top-10.
	var rankScore float64
	var rankInsight string
	switch {
	case kw.BrandRank == 1:
		rankScore, rankInsight = 6, "brand keyword ranks #1"
	case kw.BrandRank > 1 && kw.BrandRank <= 3:
		rankScore, rankInsight = 4, fmt.Sprintf("brand keyword ranks #%d (top 3)", kw.BrandRank)
	case kw.BrandRank > 3 && kw.BrandRank <= 10:
		rankScore, rankInsight = 2, fmt.Sprintf("brand keyword ranks #%d (top 10)", kw.BrandRank)
	default:
		rankInsight = "brand keyword not found in the top results"
	}
	b = append(b, types.MetricEntry{Key: MetricBrandRank, Metric: metric(
		kw.BrandRank, rankScore, 6, rankInsight,
		"Strengthen brand signals (homepage schema, consistent name usage) to own the #1 brand result")})

	// Community sentiment heuristic from the visibility trend.
	var sentimentScore float64
	var sentimentInsight string
	switch kw.Trend {
	case "up":
		sentimentScore, sentimentInsight = 3, "visibility trending up"
	case "stable":
		sentimentScore, sentimentInsight = 2, "visibility stable"
	default:
		sentimentScore, sentimentInsight = 1, "no positive visibility signal"
	}
	b = append(b, types.MetricEntry{Key: MetricCommunitySentiment, Metric: metric(
		kw.Trend, sentimentScore, 3, sentimentInsight,
		"Grow brand mentions in communities and publications your audience trusts")})

	return b
}

// --- Website Technical (17) ---

// Core Web Vitals thresholds per the official definitions.
const (
	lcpGoodSeconds = 2.5
	lcpPoorSeconds = 4.0
	inpGoodMillis  = 200.0
	inpPoorMillis  = 500.0
	clsGood        = 0.1
	clsPoor        = 0.25
)

func scoreWebsiteTechnical(f types.PageFacts, p types.PerfFacts, perfOK bool) types.PillarBreakdown {
	var b types.PillarBreakdown

	// Core Web Vitals: 2 (LCP) + 2 (INP) + 1 (CLS).
	var cwvScore float64
	cwvValue := "unavailable"
	if perfOK {
		switch {
		case p.LCPSeconds > 0 && p.LCPSeconds < lcpGoodSeconds:
			cwvScore += 2
		case p.LCPSeconds > 0 && p.LCPSeconds < lcpPoorSeconds:
			cwvScore += 1
		}
		switch {
		case p.INPMillis > 0 && p.INPMillis <= inpGoodMillis:
			cwvScore += 2
		case p.INPMillis > 0 && p.INPMillis <= inpPoorMillis:
			cwvScore += 1
		}
		switch {
		case p.CLS >= 0 && p.CLS < clsGood:
			cwvScore += 1
		case p.CLS >= 0 && p.CLS <= clsPoor:
			cwvScore += 0.5
		}
		cwvValue = fmt.Sprintf("LCP %.1fs, INP %.0fms, CLS %.2f", p.LCPSeconds, p.INPMillis, p.CLS)
	}
	b = append(b, types.MetricEntry{Key: MetricCoreWebVitals, Metric: metric(
		cwvValue, cwvScore, 5,
		fmt.Sprintf("core web vitals: %s", cwvValue),
		"Bring LCP under 2.5s, INP under 200ms, and CLS under 0.1")})

	// Mobile performance score.
	var mobileScore float64
	if perfOK {
		mobileScore = stepInt(p.MobileScore, []intStep{{90, 3}, {50, 2}, {30, 1}})
	}
	b = append(b, types.MetricEntry{Key: MetricMobilePerformance, Metric: metric(
		p.MobileScore, mobileScore, 3,
		fmt.Sprintf("mobile performance score %d/100", p.MobileScore),
		"Optimize mobile performance: compress images, defer scripts, trim render-blocking CSS")})

	// HTTPS is binary.
	var httpsScore float64
	if f.HTTPS {
		httpsScore = 2
	}
	b = append(b, types.MetricEntry{Key: MetricHTTPS, Metric: metric(
		f.HTTPS, httpsScore, 2,
		fmt.Sprintf("HTTPS enabled: %t", f.HTTPS),
		"Serve the site over HTTPS with a valid certificate")})

	// Broken links.
	var brokenScore float64
	switch {
	case f.BrokenLinks == 0:
		brokenScore = 2
	case f.BrokenLinks <= 2:
		brokenScore = 1
	}
	b = append(b, types.MetricEntry{Key: MetricBrokenLinks, Metric: metric(
		f.BrokenLinks, brokenScore, 2,
		fmt.Sprintf("%d broken link(s) in sample", f.BrokenLinks),
		"Fix or remove links that return error statuses")})

	// AI crawler access: robots.txt policy plus an llms.txt hint file.
	var aiScore float64
	switch {
	case f.AICrawlersAllowed && f.HasLLMsFile:
		aiScore = 2
	case f.AICrawlersAllowed:
		aiScore = 1
	}
	b = append(b, types.MetricEntry{Key: MetricAICrawlerFile, Metric: metric(
		fmt.Sprintf("crawlers allowed: %t, llms.txt: %t", f.AICrawlersAllowed, f.HasLLMsFile),
		aiScore, 2,
		"AI crawler access and hint file",
		"Allow AI crawlers in robots.txt and publish an llms.txt describing the site")})

	// Sitemap presence and validity.
	var sitemapScore float64
	switch {
	case f.SitemapDeclared && f.SitemapReachable:
		sitemapScore = 3
	case f.SitemapDeclared:
		sitemapScore = 1
	}
	b = append(b, types.MetricEntry{Key: MetricSitemap, Metric: metric(
		fmt.Sprintf("declared: %t, reachable: %t", f.SitemapDeclared, f.SitemapReachable),
		sitemapScore, 3,
		"XML sitemap status",
		"Publish a sitemap.xml and declare it in robots.txt")})

	return b
}

// --- Keyword Visibility (23) ---

func scoreKeywordVisibility(kw types.KeywordMetrics) types.PillarBreakdown {
	var b types.PillarBreakdown

	b = append(b, types.MetricEntry{Key: MetricRankedKeywords, Metric: metric(
		kw.TotalKeywords,
		stepInt(kw.TotalKeywords, []intStep{{500, 9}, {100, 7}, {20, 5}, {5, 3}, {1, 1}}), 9,
		fmt.Sprintf("ranking for %d keyword(s)", kw.TotalKeywords),
		"Target more long-tail queries with dedicated, in-depth pages")})

	// Lower position is better; zero means no data and scores the floor.
	var posScore float64
	switch {
	case kw.AveragePosition <= 0 || math.IsNaN(kw.AveragePosition):
		posScore = 0
	case kw.AveragePosition <= 3:
		posScore = 8
	case kw.AveragePosition <= 10:
		posScore = 6
	case kw.AveragePosition <= 20:
		posScore = 3
	}
	b = append(b, types.MetricEntry{Key: MetricAveragePosition, Metric: metric(
		kw.AveragePosition, posScore, 8,
		fmt.Sprintf("average position %.1f", kw.AveragePosition),
		"Improve on-page relevance for keywords stuck beyond position 10")})

	b = append(b, types.MetricEntry{Key: MetricIntentMatch, Metric: metric(
		kw.IntentMatchPct,
		stepFloat(kw.IntentMatchPct, []floatStep{{70, 6}, {50, 4}, {30, 2}}), 6,
		fmt.Sprintf("%.0f%% of keywords match answer intent", kw.IntentMatchPct),
		"Align content with informational and commercial queries your audience asks")})

	return b
}

// --- AI Trust (22) ---

func scoreAITrust(bl types.BacklinkMetrics, f types.PageFacts) types.PillarBreakdown {
	var b types.PillarBreakdown

	b = append(b, types.MetricEntry{Key: MetricBacklinkQuality, Metric: metric(
		bl.DomainRating,
		stepFloat(bl.DomainRating, []floatStep{{70, 6}, {50, 4}, {30, 2}, {10, 1}}), 6,
		fmt.Sprintf("domain rating %.0f/100", bl.DomainRating),
		"Earn links from authoritative sites in your field")})

	b = append(b, types.MetricEntry{Key: MetricReferringDomains, Metric: metric(
		bl.ReferringDomains,
		stepInt(bl.ReferringDomains, []intStep{{500, 5}, {100, 4}, {25, 2}, {5, 1}}), 5,
		fmt.Sprintf("%d referring domain(s)", bl.ReferringDomains),
		"Broaden the link profile beyond a handful of referring domains")})

	// Content sentiment heuristic: substantive pages read as trustworthy.
	b = append(b, types.MetricEntry{Key: MetricContentSentiment, Metric: metric(
		f.WordCount,
		stepInt(f.WordCount, []intStep{{600, 3}, {200, 2}, {1, 1}}), 3,
		"content substance as a trust proxy",
		"Replace thin placeholder copy with substantive, original writing")})

	// E-E-A-T: author/credential markup plus external citations.
	var eeatScore float64
	if f.HasAuthorSchema {
		eeatScore += 3
	}
	if f.ExternalLinks >= 5 {
		eeatScore += 2
	}
	b = append(b, types.MetricEntry{Key: MetricEEATSignals, Metric: metric(
		fmt.Sprintf("author markup: %t, %d external citation(s)", f.HasAuthorSchema, f.ExternalLinks),
		eeatScore, 5,
		"experience and expertise signals",
		"Add author schema with credentials and cite at least five external sources")})

	// Local/GEO signals.
	var localScore float64
	if f.HasLocalSignals {
		localScore = 3
	}
	b = append(b, types.MetricEntry{Key: MetricLocalSignals, Metric: metric(
		f.HasLocalSignals, localScore, 3,
		fmt.Sprintf("local presence markup: %t", f.HasLocalSignals),
		"Add LocalBusiness schema and a postal address if the business serves a locality")})

	return b
}

// --- step helpers ---

type intStep struct {
	atLeast int
	score   float64
}

// stepInt returns the score of the first step whose threshold v meets.
// Steps must be ordered highest threshold first.
func stepInt(v int, steps []intStep) float64 {
	for _, s := range steps {
		if v >= s.atLeast {
			return s.score
		}
	}
	return 0
}

type floatStep struct {
	atLeast float64
	score   float64
}

func stepFloat(v float64, steps []floatStep) float64 {
	if math.IsNaN(v) {
		return 0
	}
	for _, s := range steps {
		if v >= s.atLeast {
			return s.score
		}
	}
	return 0
}
