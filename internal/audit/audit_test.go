package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/seo-auditor/internal/cascade"
	"github.com/pdiddy/seo-auditor/internal/providers"
	"github.com/pdiddy/seo-auditor/internal/scoring"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

// --- stage mocks ---

type mockInspector struct {
	facts map[string]types.PageFacts
	err   error
}

func (m *mockInspector) Inspect(_ context.Context, pageURL string) (types.PageFacts, error) {
	if m.err != nil {
		return types.PageFacts{}, m.err
	}
	if f, ok := m.facts[pageURL]; ok {
		return f, nil
	}
	return types.PageFacts{}, fmt.Errorf("fetch %s: HTTP 404", pageURL)
}

type mockPerf struct {
	configured bool
	facts      types.PerfFacts
	err        error
}

func (m *mockPerf) IsConfigured() bool { return m.configured }
func (m *mockPerf) Analyze(_ context.Context, _ string) (types.PerfFacts, error) {
	return m.facts, m.err
}

type mockMetrics struct {
	metrics types.UnifiedSEOMetrics
	domain  string
}

func (m *mockMetrics) Fetch(_ context.Context, domain string) types.UnifiedSEOMetrics {
	m.domain = domain
	return m.metrics
}

func basicFacts(pageURL string) types.PageFacts {
	return types.PageFacts{
		URL:            pageURL,
		Domain:         "example.com",
		HTTPS:          true,
		WordCount:      900,
		HeadingCounts:  [6]int{1, 3, 0, 0, 0, 0},
		SchemaTypes:    []string{"Article"},
		FirstParagraph: strings.Repeat("answer ", 25),
	}
}

func realMetrics() types.UnifiedSEOMetrics {
	return types.UnifiedSEOMetrics{
		Keywords:  types.KeywordMetrics{TotalKeywords: 120, AveragePosition: 7.2, IntentMatchPct: 55, Trend: "up", BrandRank: 2},
		Backlinks: types.BacklinkMetrics{DomainRating: 55, ReferringDomains: 140},
		Source:    types.MetricsSource{Keywords: types.ProviderDataForSEO, Backlinks: types.ProviderMoz},
	}
}

func newTestAuditor(in *mockInspector, p *mockPerf, m *mockMetrics) *Auditor {
	return New(in, p, m, nil, types.AuditConfig{MaxParallel: 3}, nil)
}

// --- per-URL analysis ---

func TestAnalyzeURL_JoinsAllStages(t *testing.T) {
	const u = "https://example.com/page"
	a := newTestAuditor(
		&mockInspector{facts: map[string]types.PageFacts{u: basicFacts(u)}},
		&mockPerf{configured: true, facts: types.PerfFacts{LCPSeconds: 1.9, INPMillis: 150, CLS: 0.05, Tier: types.TierGood, MobileScore: 91}},
		&mockMetrics{metrics: realMetrics()},
	)

	r, err := a.AnalyzeURL(context.Background(), u)
	if err != nil {
		t.Fatalf("AnalyzeURL() error = %v", err)
	}
	if r.Score.Total <= 0 || r.Score.Total >= types.BudgetTotal {
		t.Errorf("Total = %v, want strictly between 0 and %v", r.Score.Total, types.BudgetTotal)
	}
	want := types.DataSource{Moz: true, DataForSEO: true, PageSpeed: true}
	if r.Score.DataSource != want {
		t.Errorf("DataSource = %+v, want %+v", r.Score.DataSource, want)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none on a clean run", r.Warnings)
	}
}

func TestAnalyzeURL_PassesRegistrableDomainToCascade(t *testing.T) {
	const u = "https://www.example.com/page"
	metrics := &mockMetrics{metrics: realMetrics()}
	a := newTestAuditor(
		&mockInspector{facts: map[string]types.PageFacts{u: basicFacts(u)}},
		&mockPerf{},
		metrics,
	)

	if _, err := a.AnalyzeURL(context.Background(), u); err != nil {
		t.Fatalf("AnalyzeURL() error = %v", err)
	}
	// Providers must be queried for the eTLD+1, not the www host, so brand
	// keywords match the bare brand label.
	if metrics.domain != "example.com" {
		t.Errorf("cascade domain = %q, want example.com", metrics.domain)
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://www.example.com/page", "example.com", false},
		{"https://blog.shop.example.co.uk/", "example.co.uk", false},
		{"https://Example.COM:8443/x", "example.com", false},
		{"http://localhost:8080/", "localhost", false},
		{"https:///nohost", "", true},
	}
	for _, tt := range tests {
		got, err := hostOf(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("hostOf(%q) error = %v, wantErr %t", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("hostOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type stubKeywordProvider struct {
	data providers.RawKeywordData
}

func (stubKeywordProvider) Name() types.ProviderName { return types.ProviderDataForSEO }
func (stubKeywordProvider) IsConfigured() bool       { return true }
func (s stubKeywordProvider) FetchKeywords(_ context.Context, _ string) (providers.RawKeywordData, error) {
	return s.data, nil
}

func TestAnalyzeURL_BrandRankSurvivesWWWHost(t *testing.T) {
	const u = "https://www.example.com/page"
	kw := stubKeywordProvider{data: providers.RawKeywordData{
		Provider:   types.ProviderDataForSEO,
		TotalCount: 1,
		Rows:       []providers.RawKeywordRow{{Keyword: "example widgets", Position: 2, SearchVolume: 500}},
	}}
	engine := cascade.New([]providers.KeywordProvider{kw}, nil, io.Discard)
	a := New(
		&mockInspector{facts: map[string]types.PageFacts{u: basicFacts(u)}},
		&mockPerf{},
		engine,
		nil, types.AuditConfig{MaxParallel: 3}, nil,
	)

	r, err := a.AnalyzeURL(context.Background(), u)
	if err != nil {
		t.Fatalf("AnalyzeURL() error = %v", err)
	}
	// The brand token is derived from the registrable domain, so a keyword
	// starting with "example" must count as a brand ranking even when the
	// audited page lives on the www host.
	if r.Metrics.Keywords.BrandRank != 2 {
		t.Errorf("BrandRank = %v, want 2", r.Metrics.Keywords.BrandRank)
	}
}

func TestAnalyzeURL_InspectFailureIsFatal(t *testing.T) {
	a := newTestAuditor(
		&mockInspector{err: errors.New("connection refused")},
		&mockPerf{},
		&mockMetrics{metrics: realMetrics()},
	)

	_, err := a.AnalyzeURL(context.Background(), "https://example.com/")
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("AnalyzeURL() error = %v, want inspection failure", err)
	}
}

func TestAnalyzeURL_FillsEstimatesFromPageFacts(t *testing.T) {
	const u = "https://example.com/"
	a := newTestAuditor(
		&mockInspector{facts: map[string]types.PageFacts{u: basicFacts(u)}},
		&mockPerf{configured: false},
		&mockMetrics{metrics: types.UnifiedSEOMetrics{
			Source: types.MetricsSource{Keywords: types.ProviderEstimate, Backlinks: types.ProviderEstimate},
		}},
	)

	r, err := a.AnalyzeURL(context.Background(), u)
	if err != nil {
		t.Fatalf("AnalyzeURL() error = %v", err)
	}
	// 900 words over HTTPS: the heuristics must produce non-zero metrics.
	if r.Metrics.Keywords.TotalKeywords == 0 {
		t.Error("estimated TotalKeywords = 0, want > 0")
	}
	if r.Metrics.Backlinks.DomainRating != 10 {
		t.Errorf("estimated DomainRating = %v, want 10", r.Metrics.Backlinks.DomainRating)
	}
	if ds := r.Score.DataSource; ds.Moz || ds.DataForSEO || ds.GSC || ds.PageSpeed {
		t.Errorf("DataSource = %+v, want all false", ds)
	}
	if len(r.Warnings) != 3 {
		t.Errorf("got %d warnings, want 3 (two estimate families and missing performance): %v", len(r.Warnings), r.Warnings)
	}
}

func TestAnalyzeURL_Idempotent(t *testing.T) {
	const u = "https://example.com/page"
	a := newTestAuditor(
		&mockInspector{facts: map[string]types.PageFacts{u: basicFacts(u)}},
		&mockPerf{configured: true, facts: types.PerfFacts{LCPSeconds: 2.0, INPMillis: 180, CLS: 0.08, Tier: types.TierGood, MobileScore: 85}},
		&mockMetrics{metrics: realMetrics()},
	)

	first, err := a.AnalyzeURL(context.Background(), u)
	if err != nil {
		t.Fatalf("first AnalyzeURL() error = %v", err)
	}
	second, err := a.AnalyzeURL(context.Background(), u)
	if err != nil {
		t.Fatalf("second AnalyzeURL() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different results")
	}
}

// --- batches ---

func TestAnalyzeBatch_KeepsInputOrderAndDropsFailures(t *testing.T) {
	facts := map[string]types.PageFacts{
		"https://example.com/a": basicFacts("https://example.com/a"),
		"https://example.com/c": basicFacts("https://example.com/c"),
	}
	a := newTestAuditor(&mockInspector{facts: facts}, &mockPerf{}, &mockMetrics{metrics: realMetrics()})

	primary, _, err := a.AnalyzeBatch(context.Background(), BatchRequest{
		URLs: []string{"https://example.com/a", "https://example.com/b", "https://example.com/c", "::bad::"},
	})
	if err != nil {
		t.Fatalf("AnalyzeBatch() error = %v", err)
	}
	want := []string{"https://example.com/a", "https://example.com/c"}
	if !reflect.DeepEqual(primary.URLs, want) {
		t.Errorf("URLs = %v, want %v", primary.URLs, want)
	}
	if primary.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", primary.Domain)
	}
	var droppedBad, failedB bool
	for _, w := range primary.Warnings {
		if strings.Contains(w, "::bad::") {
			droppedBad = true
		}
		if strings.Contains(w, "/b") {
			failedB = true
		}
	}
	if !droppedBad || !failedB {
		t.Errorf("Warnings = %v, want the malformed entry and the failed URL reported", primary.Warnings)
	}
}

func TestAnalyzeBatch_NoUsableResults(t *testing.T) {
	a := newTestAuditor(&mockInspector{err: errors.New("down")}, &mockPerf{}, &mockMetrics{metrics: realMetrics()})

	_, _, err := a.AnalyzeBatch(context.Background(), BatchRequest{URLs: []string{"https://example.com/"}})
	if !errors.Is(err, ErrNoUsableResults) {
		t.Fatalf("AnalyzeBatch() error = %v, want ErrNoUsableResults", err)
	}
}

func TestAnalyzeBatch_CompetitorFailureIsNonFatal(t *testing.T) {
	const u = "https://example.com/"
	a := newTestAuditor(
		&mockInspector{facts: map[string]types.PageFacts{u: basicFacts(u)}},
		&mockPerf{},
		&mockMetrics{metrics: realMetrics()},
	)

	primary, competitors, err := a.AnalyzeBatch(context.Background(), BatchRequest{
		URLs: []string{u},
		Competitors: []types.CompetitorGroup{
			{Name: "rival.com", URLs: []string{"https://rival.com/unreachable"}},
		},
	})
	if err != nil {
		t.Fatalf("AnalyzeBatch() error = %v", err)
	}
	if len(competitors) != 0 {
		t.Errorf("got %d competitor results, want 0", len(competitors))
	}
	var warned bool
	for _, w := range primary.Warnings {
		if strings.Contains(w, "rival.com") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("Warnings = %v, want the skipped competitor reported", primary.Warnings)
	}
}

func TestAnalyzeBatch_CancelledContext(t *testing.T) {
	const u = "https://example.com/"
	a := newTestAuditor(
		&mockInspector{facts: map[string]types.PageFacts{u: basicFacts(u)}},
		&mockPerf{},
		&mockMetrics{metrics: realMetrics()},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := a.AnalyzeBatch(ctx, BatchRequest{URLs: []string{u}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("AnalyzeBatch() error = %v, want context.Canceled", err)
	}
}

func TestAnalyzeBatch_AdvisoryLimiter(t *testing.T) {
	const u = "https://example.com/"
	a := New(
		&mockInspector{facts: map[string]types.PageFacts{u: basicFacts(u)}},
		&mockPerf{},
		&mockMetrics{metrics: realMetrics()},
		NewTokenBucket(1, 1),
		types.AuditConfig{},
		nil,
	)

	req := BatchRequest{Caller: "cli", URLs: []string{u}}
	first, _, err := a.AnalyzeBatch(context.Background(), req)
	if err != nil {
		t.Fatalf("first AnalyzeBatch() error = %v", err)
	}
	for _, w := range first.Warnings {
		if strings.Contains(w, "rate limit") {
			t.Errorf("first request warned about the rate limit: %q", w)
		}
	}

	// Burst spent: the second request is still processed, but flagged.
	second, _, err := a.AnalyzeBatch(context.Background(), req)
	if err != nil {
		t.Fatalf("second AnalyzeBatch() error = %v", err)
	}
	var flagged bool
	for _, w := range second.Warnings {
		if strings.Contains(w, "rate limit") {
			flagged = true
		}
	}
	if !flagged {
		t.Errorf("Warnings = %v, want a rate limit warning", second.Warnings)
	}
	if len(second.Results) != 1 {
		t.Errorf("got %d results, want the flagged request processed anyway", len(second.Results))
	}
}

// --- aggregation ---

// synthScore builds a result whose total is cs+br+wt+kv+at, with a small
// breakdown so metric-level averaging is observable.
func synthScore(cs, br, wt, kv, at float64) types.ScoreResult {
	r := types.ScoreResult{
		ContentStructure:  cs,
		BrandRanking:      br,
		WebsiteTechnical:  wt,
		KeywordVisibility: kv,
		AITrust:           at,
		Breakdown: map[types.Pillar]types.PillarBreakdown{
			types.PillarContentStructure: {
				{Key: scoring.MetricSchemaMarkup, Metric: types.Metric{Score: cs / 2, MaxScore: 6, Recommendation: "add schema"}},
				{Key: scoring.MetricContentDepth, Metric: types.Metric{Score: cs / 2, MaxScore: 4, Recommendation: "write more"}},
			},
		},
	}
	r.Total = r.RoundTotal()
	return r
}

func TestAverageScores_MeanOfThree(t *testing.T) {
	got := AverageScores([]types.ScoreResult{
		synthScore(20, 5, 13, 17, 15), // 70
		synthScore(22, 7, 14, 19, 18), // 80
		synthScore(24, 9, 16, 21, 20), // 90
	})

	if got.Total != 80 {
		t.Errorf("Total = %v, want 80", got.Total)
	}
	if got.ContentStructure != 22 {
		t.Errorf("ContentStructure = %v, want 22", got.ContentStructure)
	}
	if got.BrandRanking != 7 {
		t.Errorf("BrandRanking = %v, want 7", got.BrandRanking)
	}
	schema, ok := got.Breakdown[types.PillarContentStructure].Get(scoring.MetricSchemaMarkup)
	if !ok || schema.Score != 11 {
		t.Errorf("averaged schema_markup = %v, want 11", schema.Score)
	}
}

func TestAverageScores_IdentityOnIdenticalResults(t *testing.T) {
	one := synthScore(20, 7, 14, 18, 16)
	got := AverageScores([]types.ScoreResult{one, one, one})

	if got.Total != one.Total {
		t.Errorf("Total = %v, want %v", got.Total, one.Total)
	}
	for _, p := range types.Pillars {
		if got.PillarScore(p) != one.PillarScore(p) {
			t.Errorf("%s = %v, want %v", p, got.PillarScore(p), one.PillarScore(p))
		}
	}
}

func TestAverageScores_ORReducesDataSource(t *testing.T) {
	a := synthScore(20, 5, 13, 17, 15)
	a.DataSource = types.DataSource{Moz: true}
	b := synthScore(20, 5, 13, 17, 15)
	b.DataSource = types.DataSource{GSC: true, PageSpeed: true}

	got := AverageScores([]types.ScoreResult{a, b})
	want := types.DataSource{Moz: true, GSC: true, PageSpeed: true}
	if got.DataSource != want {
		t.Errorf("DataSource = %+v, want %+v", got.DataSource, want)
	}
}

func TestAverageScores_Empty(t *testing.T) {
	if got := AverageScores(nil); got.Total != 0 {
		t.Errorf("Total = %v, want 0", got.Total)
	}
}

func TestAverageScores_MismatchedBreakdowns(t *testing.T) {
	full := synthScore(20, 5, 13, 17, 15)
	bare := types.ScoreResult{Total: 40, ContentStructure: 10}

	// A result with no breakdown contributes zero to each metric mean
	// instead of panicking on a missing entry.
	got := AverageScores([]types.ScoreResult{full, bare})

	schema, ok := got.Breakdown[types.PillarContentStructure].Get(scoring.MetricSchemaMarkup)
	if !ok {
		t.Fatal("schema_markup missing from averaged breakdown")
	}
	if schema.Score != 5 {
		t.Errorf("averaged schema_markup = %v, want 5", schema.Score)
	}
	if got.Total != 40 {
		t.Errorf("Total = %v, want 40", got.Total)
	}
}

func domainResult(name string, score types.ScoreResult) types.DomainResult {
	return types.DomainResult{Domain: name, Average: score}
}

func TestCompareScores_RanksByPillarAndOverall(t *testing.T) {
	primary := domainResult("mine.com", synthScore(20, 7, 14, 18, 16))    // 75
	weaker := domainResult("weak.com", synthScore(15, 5, 12, 15, 13))     // 60
	stronger := domainResult("strong.com", synthScore(24, 9, 16, 21, 20)) // 90

	cmp := CompareScores(primary, []types.DomainResult{weaker, stronger})

	if cmp.Primary != "mine.com" {
		t.Errorf("Primary = %q, want mine.com", cmp.Primary)
	}
	if len(cmp.Pillars) != len(types.Pillars) {
		t.Fatalf("got %d pillar rankings, want %d", len(cmp.Pillars), len(types.Pillars))
	}
	for _, pr := range cmp.Pillars {
		wantOrder := []string{"strong.com", "mine.com", "weak.com"}
		for i, s := range pr.Standings {
			if s.Domain != wantOrder[i] || s.Rank != i+1 {
				t.Errorf("%s standing %d = %s (rank %d), want %s (rank %d)",
					pr.Pillar, i, s.Domain, s.Rank, wantOrder[i], i+1)
			}
		}
	}
	if cmp.Overall[0].Domain != "strong.com" || cmp.Overall[2].Domain != "weak.com" {
		t.Errorf("Overall = %+v, want strong.com first and weak.com last", cmp.Overall)
	}
}

func TestCompareScores_PillarTieBreaksByTotal(t *testing.T) {
	// Equal Content Structure, different totals.
	primary := domainResult("mine.com", synthScore(20, 7, 14, 18, 16))  // 75
	rival := domainResult("rival.com", synthScore(20, 9, 16, 21, 20))   // 86

	cmp := CompareScores(primary, []types.DomainResult{rival})

	cs := cmp.Pillars[0]
	if cs.Pillar != types.PillarContentStructure {
		t.Fatalf("first pillar = %s, want content_structure", cs.Pillar)
	}
	if cs.Standings[0].Domain != "rival.com" {
		t.Errorf("tied pillar winner = %q, want rival.com by higher total", cs.Standings[0].Domain)
	}
}

func TestCompareScores_IdenticalTotalsBreakTiesByName(t *testing.T) {
	primary := domainResult("mine.com", synthScore(20, 7, 14, 18, 16)) // 75
	twin := synthScore(24, 9, 16, 21, 20)                              // 90
	beta := domainResult("beta.com", twin)
	alpha := domainResult("alpha.com", twin)

	// Competitors listed beta-first, but ties on both score and total must
	// break by domain name so repeated runs rank identically.
	cmp := CompareScores(primary, []types.DomainResult{beta, alpha})

	wantOrder := []string{"alpha.com", "beta.com", "mine.com"}
	for i, s := range cmp.Overall {
		if s.Domain != wantOrder[i] || s.Rank != i+1 {
			t.Errorf("Overall[%d] = %s (rank %d), want %s (rank %d)", i, s.Domain, s.Rank, wantOrder[i], i+1)
		}
	}
	for _, pr := range cmp.Pillars {
		if pr.Standings[0].Domain != "alpha.com" || pr.Standings[1].Domain != "beta.com" {
			t.Errorf("%s standings = %s, %s; want alpha.com before beta.com",
				pr.Pillar, pr.Standings[0].Domain, pr.Standings[1].Domain)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"example.com", "https://example.com", false},
		{"  example.com/path  ", "https://example.com/path", false},
		{"http://Example.COM/Path", "http://example.com/Path", false},
		{"ftp://example.com", "", true},
		{"", "", true},
		{"https://", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeURL(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeURL(%q) error = %v, wantErr %t", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
