// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package providers contains one adapter per external SEO data source.
// Each adapter exposes a narrow, typed fetch contract and reports its own
// configuration state; fetch errors are always non-fatal to callers, which
// record them and continue down the cascade.
package providers

import (
	"context"
	"errors"

	"github.com/pdiddy/seo-auditor/pkg/types"
)

// ErrDomainNotCovered reports that a provider is configured but cannot
// serve the requested domain (a Search Console property only covers the
// operator's own site). The cascade treats it like an unconfigured
// provider for that domain: skip silently, record nothing.
var ErrDomainNotCovered = errors.New("domain not covered by provider")

// RawKeywordRow is one ranked-keyword observation as reported by a
// provider, mapped field-by-field with defaults. Raw provider JSON never
// crosses this boundary.
type RawKeywordRow struct {
	Keyword      string
	Position     float64
	SearchVolume int
	Traffic      float64
	Intent       string
}

// RawKeywordData is a provider's keyword payload before normalization.
type RawKeywordData struct {
	Provider types.ProviderName

	// TotalCount is the provider-reported total number of ranked keywords,
	// which may exceed len(Rows).
	TotalCount int

	Rows []RawKeywordRow

	// Trend is the provider-reported visibility direction, when available.
	Trend string
}

// RawBacklinkData is a provider's backlink payload before normalization.
type RawBacklinkData struct {
	Provider types.ProviderName

	DomainAuthority  float64
	TotalBacklinks   int
	ReferringDomains int
}

// KeywordProvider fetches ranked-keyword data for a domain. IsConfigured
// distinguishes "no credentials" (skipped silently by the cascade) from a
// configured provider whose Fetch failed (recorded as a warning).
type KeywordProvider interface {
	Name() types.ProviderName
	IsConfigured() bool
	FetchKeywords(ctx context.Context, domain string) (RawKeywordData, error)
}

// BacklinkProvider fetches backlink-profile data for a domain.
type BacklinkProvider interface {
	Name() types.ProviderName
	IsConfigured() bool
	FetchBacklinks(ctx context.Context, domain string) (RawBacklinkData, error)
}
