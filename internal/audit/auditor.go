// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audit orchestrates full audits: it fans out page inspection,
// performance analysis, and the provider cascade per URL, joins the results
// through the scoring engine, and aggregates per-URL scores into domain
// results and competitor comparisons. Individual URL failures degrade the
// batch; only a batch with zero analyzable primary URLs fails outright.
package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/pdiddy/seo-auditor/internal/cascade"
	"github.com/pdiddy/seo-auditor/internal/scoring"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

// ErrNoUsableResults reports a batch in which no primary URL could be
// analyzed at all.
var ErrNoUsableResults = errors.New("no primary URL could be analyzed")

const (
	defaultMaxParallel         = 5
	defaultURLTimeout          = 45 * time.Second
	defaultMaxPrimaryURLs      = 30
	defaultMaxCompetitorGroups = 4
	defaultMaxCompetitorURLs   = 10
)

// PageInspector fetches a page and extracts structural facts from it.
type PageInspector interface {
	Inspect(ctx context.Context, pageURL string) (types.PageFacts, error)
}

// PerfAnalyzer produces field and lab performance facts for a URL.
type PerfAnalyzer interface {
	IsConfigured() bool
	Analyze(ctx context.Context, pageURL string) (types.PerfFacts, error)
}

// MetricsFetcher runs the provider cascade for a domain.
type MetricsFetcher interface {
	Fetch(ctx context.Context, domain string) types.UnifiedSEOMetrics
}

// Auditor wires the per-URL stages together and runs batches with bounded
// parallelism.
type Auditor struct {
	Inspector PageInspector
	Perf      PerfAnalyzer
	Metrics   MetricsFetcher
	Limiter   Limiter
	Cfg       types.AuditConfig

	w io.Writer
}

// New builds an Auditor. w receives informational log lines; nil discards
// them.
func New(inspector PageInspector, perf PerfAnalyzer, metrics MetricsFetcher, limiter Limiter, cfg types.AuditConfig, w io.Writer) *Auditor {
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = defaultMaxParallel
	}
	if cfg.URLTimeout <= 0 {
		cfg.URLTimeout = defaultURLTimeout
	}
	if cfg.MaxPrimaryURLs <= 0 {
		cfg.MaxPrimaryURLs = defaultMaxPrimaryURLs
	}
	if cfg.MaxCompetitorGroups <= 0 {
		cfg.MaxCompetitorGroups = defaultMaxCompetitorGroups
	}
	if cfg.MaxCompetitorURLs <= 0 {
		cfg.MaxCompetitorURLs = defaultMaxCompetitorURLs
	}
	if w == nil {
		w = io.Discard
	}
	return &Auditor{Inspector: inspector, Perf: perf, Metrics: metrics, Limiter: limiter, Cfg: cfg, w: w}
}

// AnalyzeURL runs the three per-URL stages concurrently, joins them, and
// scores the page. Page inspection is the only fatal stage: without page
// facts there is nothing to score. Provider and performance failures
// degrade the score and surface as warnings.
func (a *Auditor) AnalyzeURL(ctx context.Context, pageURL string) (types.URLResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Cfg.URLTimeout)
	defer cancel()

	domain, err := hostOf(pageURL)
	if err != nil {
		return types.URLResult{}, fmt.Errorf("analyze %s: %w", pageURL, err)
	}

	var (
		wg         sync.WaitGroup
		facts      types.PageFacts
		inspectErr error
		perfFacts  types.PerfFacts
		perfOK     bool
		metrics    types.UnifiedSEOMetrics
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		facts, inspectErr = a.Inspector.Inspect(ctx, pageURL)
	}()
	go func() {
		defer wg.Done()
		if a.Perf == nil || !a.Perf.IsConfigured() {
			return
		}
		pf, err := a.Perf.Analyze(ctx, pageURL)
		if err != nil {
			fmt.Fprintf(a.w, "warning: performance analysis for %s: %v\n", pageURL, err)
			return
		}
		perfFacts, perfOK = pf, true
	}()
	go func() {
		defer wg.Done()
		metrics = a.Metrics.Fetch(ctx, domain)
	}()
	wg.Wait()

	if inspectErr != nil {
		return types.URLResult{}, fmt.Errorf("analyze %s: %w", pageURL, inspectErr)
	}

	// Families that exhausted every provider carry zero metrics; fill them
	// from the page facts now that inspection has produced some.
	if metrics.Source.Keywords == types.ProviderEstimate {
		metrics.Keywords = cascade.EstimateKeywords(facts)
	}
	if metrics.Source.Backlinks == types.ProviderEstimate {
		metrics.Backlinks = cascade.EstimateBacklinks(facts)
	}

	score := scoring.Score(facts, perfFacts, perfOK, metrics)
	return types.URLResult{
		URL:      pageURL,
		Score:    score,
		Metrics:  metrics,
		Warnings: scoring.BuildWarnings(metrics, perfOK),
	}, nil
}

// BatchRequest is one audit request: the primary URL set plus optional
// competitor groups. Caller identifies the requester to the admission
// limiter.
type BatchRequest struct {
	Caller      string
	URLs        []string
	Competitors []types.CompetitorGroup
}

// AnalyzeBatch audits the primary URLs and every competitor group. The
// primary result fails only when zero primary URLs produced a score;
// competitor groups that produce nothing are dropped with a warning.
func (a *Auditor) AnalyzeBatch(ctx context.Context, req BatchRequest) (types.DomainResult, []types.DomainResult, error) {
	var warnings []string

	if a.Limiter != nil && !a.Limiter.Allow(req.Caller) {
		warnings = append(warnings, fmt.Sprintf("rate limit exceeded for caller %q; processing anyway", req.Caller))
	}

	urls, normWarnings := a.normalizeSet(req.URLs, a.Cfg.MaxPrimaryURLs)
	warnings = append(warnings, normWarnings...)
	if len(urls) == 0 {
		return types.DomainResult{}, nil, fmt.Errorf("%w: no valid URLs in request", ErrNoUsableResults)
	}

	primary, err := a.runDomain(ctx, urls, warnings)
	if err != nil {
		return types.DomainResult{}, nil, err
	}

	groups := req.Competitors
	if len(groups) > a.Cfg.MaxCompetitorGroups {
		primary.Warnings = append(primary.Warnings, fmt.Sprintf("competitor groups capped at %d, dropped %d",
			a.Cfg.MaxCompetitorGroups, len(groups)-a.Cfg.MaxCompetitorGroups))
		groups = groups[:a.Cfg.MaxCompetitorGroups]
	}

	var competitors []types.DomainResult
	for _, g := range groups {
		gURLs, gWarnings := a.normalizeSet(g.URLs, a.Cfg.MaxCompetitorURLs)
		if len(gURLs) == 0 {
			primary.Warnings = append(primary.Warnings, fmt.Sprintf("competitor %q has no valid URLs, skipped", g.Name))
			continue
		}
		cr, err := a.runDomain(ctx, gURLs, gWarnings)
		if err != nil {
			primary.Warnings = append(primary.Warnings, fmt.Sprintf("competitor %q produced no results, skipped", g.Name))
			continue
		}
		if g.Name != "" {
			cr.Domain = g.Name
		}
		competitors = append(competitors, cr)
	}

	return primary, competitors, nil
}

// runDomain audits one URL set with bounded parallelism and aggregates the
// successes. Results keep input order regardless of completion order.
func (a *Auditor) runDomain(ctx context.Context, urls []string, warnings []string) (types.DomainResult, error) {
	type slot struct {
		result types.URLResult
		err    error
	}
	slots := make([]slot, len(urls))

	var wg sync.WaitGroup
	sem := make(chan struct{}, a.Cfg.MaxParallel)
	for i, u := range urls {
		if ctx.Err() != nil {
			slots[i].err = ctx.Err()
			continue
		}
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			slots[i].result, slots[i].err = a.AnalyzeURL(ctx, u)
		}(i, u)
	}
	wg.Wait()

	dr := types.DomainResult{Warnings: warnings}
	var scores []types.ScoreResult
	for i, s := range slots {
		if s.err != nil {
			fmt.Fprintf(a.w, "warning: %v\n", s.err)
			dr.Warnings = append(dr.Warnings, s.err.Error())
			continue
		}
		dr.URLs = append(dr.URLs, urls[i])
		dr.Results = append(dr.Results, s.result)
		scores = append(scores, s.result.Score)
	}
	if len(scores) == 0 {
		if err := ctx.Err(); err != nil {
			return types.DomainResult{}, err
		}
		return types.DomainResult{}, ErrNoUsableResults
	}

	dr.Domain, _ = hostOf(dr.URLs[0])
	dr.Average = AverageScores(scores)
	dr.Recommendations = scoring.Recommendations(dr.Average)
	return dr, nil
}

// normalizeSet cleans a URL list: scheme defaults to https, malformed
// entries are dropped with a warning, and the list is capped at max.
func (a *Auditor) normalizeSet(raw []string, limit int) ([]string, []string) {
	var urls []string
	var warnings []string
	for _, r := range raw {
		u, err := NormalizeURL(r)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("dropped invalid URL %q: %v", r, err))
			continue
		}
		urls = append(urls, u)
	}
	if len(urls) > limit {
		warnings = append(warnings, fmt.Sprintf("URL list capped at %d, dropped %d", limit, len(urls)-limit))
		urls = urls[:limit]
	}
	return urls, warnings
}

// NormalizeURL canonicalizes a user-supplied URL: whitespace trimmed,
// scheme defaulted to https, host lowercased. Entries without a host are
// rejected.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("missing host")
	}
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}

// hostOf returns the registrable domain (eTLD+1) of a page URL, so the
// cascade queries providers for "example.com" rather than
// "www.example.com" and brand keywords match the bare brand label. Hosts
// the public suffix list cannot resolve fall back to the hostname itself.
func hostOf(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("no host in %q", pageURL)
	}
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return domain, nil
	}
	return host, nil
}
