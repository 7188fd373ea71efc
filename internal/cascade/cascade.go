// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cascade acquires keyword and backlink metrics by trying providers
// in a fixed priority order, highest-fidelity first. Unconfigured providers
// are skipped silently; configured providers that fail are recorded and the
// next candidate is tried. The cascade never fails: when every provider for
// a family is unavailable it falls back to a heuristic estimate, degrading
// quality rather than aborting the scan.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/seo-auditor/internal/providers"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

// Engine holds the ordered provider lists for the two metric families. The
// two families cascade independently and concurrently; within one family
// steps are sequential, so a later provider is never charged latency or
// cost when an earlier one already succeeded.
type Engine struct {
	keywords  []providers.KeywordProvider
	backlinks []providers.BacklinkProvider
	w         io.Writer
}

// New builds an Engine. Provider order is the cascade priority order. w
// receives informational warnings about skipped and failed providers.
func New(keywords []providers.KeywordProvider, backlinks []providers.BacklinkProvider, w io.Writer) *Engine {
	if w == nil {
		w = io.Discard
	}
	return &Engine{keywords: keywords, backlinks: backlinks, w: w}
}

// familyOutcome is the result of one family's cascade.
type familyOutcome[T any] struct {
	value    T
	source   types.ProviderName
	errors   []string
	failures []types.ProviderFailure
}

// Fetch cascades both metric families for domain and returns a usable
// UnifiedSEOMetrics. A family that exhausted every provider carries
// zero-valued metrics with Source "estimate"; callers fill in the heuristic
// estimate once page facts are available (see EstimateKeywords and
// EstimateBacklinks).
func (e *Engine) Fetch(ctx context.Context, domain string) types.UnifiedSEOMetrics {
	var (
		wg sync.WaitGroup
		kw familyOutcome[providers.RawKeywordData]
		bl familyOutcome[providers.RawBacklinkData]
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		kw = cascadeFamily(ctx, types.FamilyKeywords, e.keywords, e.w,
			func(p providers.KeywordProvider) (providers.RawKeywordData, error) {
				return p.FetchKeywords(ctx, domain)
			})
	}()
	go func() {
		defer wg.Done()
		bl = cascadeFamily(ctx, types.FamilyBacklinks, e.backlinks, e.w,
			func(p providers.BacklinkProvider) (providers.RawBacklinkData, error) {
				return p.FetchBacklinks(ctx, domain)
			})
	}()
	wg.Wait()

	m := types.UnifiedSEOMetrics{
		Source: types.MetricsSource{
			Keywords:  kw.source,
			Backlinks: bl.source,
		},
	}
	if kw.source != types.ProviderEstimate {
		m.Keywords = NormalizeKeywords(kw.value, domain)
	}
	if bl.source != types.ProviderEstimate {
		m.Backlinks = NormalizeBacklinks(bl.value)
	}

	// Keyword errors first, then backlink errors, so output is deterministic.
	m.Errors = append(append([]string{}, kw.errors...), bl.errors...)
	m.Failures = append(append([]types.ProviderFailure{}, kw.failures...), bl.failures...)
	return m
}

// namedProvider is the part of the provider contract the cascade itself
// needs; the fetch closure carries the family-specific call.
type namedProvider interface {
	Name() types.ProviderName
	IsConfigured() bool
}

// cascadeFamily walks one family's priority list. It stops at the first
// success, accumulates one error entry per configured-but-failed provider,
// and reports Source "estimate" when the list is exhausted.
func cascadeFamily[P namedProvider, T any](ctx context.Context, family types.MetricFamily, list []P, w io.Writer, fetch func(P) (T, error)) familyOutcome[T] {
	var out familyOutcome[T]
	out.source = types.ProviderEstimate

	for _, p := range list {
		if ctx.Err() != nil {
			out.errors = append(out.errors, fmt.Sprintf("%s %s: %v", p.Name(), family, ctx.Err()))
			out.failures = append(out.failures, types.ProviderFailure{Provider: p.Name(), Family: family})
			break
		}
		if !p.IsConfigured() {
			fmt.Fprintf(w, "info: %s %s: not configured, skipping\n", p.Name(), family)
			continue
		}

		value, err := fetch(p)
		if err != nil {
			// A provider that cannot serve this domain at all (a Search
			// Console property covering a different site) is skipped like
			// an unconfigured one, not recorded as a failure.
			if errors.Is(err, providers.ErrDomainNotCovered) {
				fmt.Fprintf(w, "info: %s %s: %v, skipping\n", p.Name(), family, err)
				continue
			}
			out.errors = append(out.errors, fmt.Sprintf("%s %s: %v", p.Name(), family, err))
			out.failures = append(out.failures, types.ProviderFailure{Provider: p.Name(), Family: family})
			fmt.Fprintf(w, "warning: %s %s failed: %v\n", p.Name(), family, err)
			continue
		}

		out.value = value
		out.source = p.Name()
		return out
	}

	fmt.Fprintf(w, "info: no %s provider succeeded, falling back to estimate\n", family)
	return out
}
