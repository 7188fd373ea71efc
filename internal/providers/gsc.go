// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/seo-auditor/internal/httputil"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

// gscAPIBase is the Search Console Search Analytics endpoint. Declared as a
// var so tests can substitute an httptest server.
var gscAPIBase = "https://www.googleapis.com/webmasters/v3/sites"

// gscWindowDays is the reporting window queried for ranked queries.
const gscWindowDays = 28

// gscRowLimit bounds the query rows requested per call.
const gscRowLimit = 250

// GSCProvider queries Google Search Console Search Analytics for the
// queries a verified property ranks for. It only covers sites the operator
// owns, so it sits after DataForSEO in the keyword cascade.
type GSCProvider struct {
	Client  *http.Client
	APIKey  string
	SiteURL string
	Cfg     types.HTTPConfig

	// now is stubbed in tests for a stable reporting window.
	now func() time.Time
}

// Name returns the provider identifier.
func (p *GSCProvider) Name() types.ProviderName { return types.ProviderGSC }

// IsConfigured reports whether an API key and a verified property are set.
func (p *GSCProvider) IsConfigured() bool { return p.APIKey != "" && p.SiteURL != "" }

// FetchKeywords retrieves query rows for the configured property. The
// domain argument is checked against the property so a competitor domain
// never silently reads the operator's own data.
func (p *GSCProvider) FetchKeywords(ctx context.Context, domain string) (RawKeywordData, error) {
	if !strings.Contains(p.SiteURL, domain) {
		return RawKeywordData{}, fmt.Errorf("property %q does not cover domain %q: %w", p.SiteURL, domain, ErrDomainNotCovered)
	}

	end := time.Now()
	if p.now != nil {
		end = p.now()
	}
	start := end.AddDate(0, 0, -gscWindowDays)

	body, err := json.Marshal(gscRequest{
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.Format("2006-01-02"),
		Dimensions: []string{"query"},
		RowLimit:   gscRowLimit,
	})
	if err != nil {
		return RawKeywordData{}, fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/searchAnalytics/query?key=%s",
		gscAPIBase, url.PathEscape(p.SiteURL), url.QueryEscape(p.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return RawKeywordData{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", p.Cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return RawKeywordData{}, fmt.Errorf("Search Console API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RawKeywordData{}, fmt.Errorf("Search Console API returned HTTP %d", resp.StatusCode)
	}

	var gr gscResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return RawKeywordData{}, fmt.Errorf("parsing Search Console response: %w", err)
	}

	raw := RawKeywordData{
		Provider:   types.ProviderGSC,
		TotalCount: len(gr.Rows),
	}
	for _, row := range gr.Rows {
		if len(row.Keys) == 0 {
			continue
		}
		raw.Rows = append(raw.Rows, RawKeywordRow{
			Keyword:  row.Keys[0],
			Position: row.Position,
			Traffic:  row.Clicks,
		})
	}
	return raw, nil
}

// Search Console API JSON structures.
type gscRequest struct {
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Dimensions []string `json:"dimensions"`
	RowLimit   int      `json:"rowLimit"`
}

type gscResponse struct {
	Rows []gscRow `json:"rows"`
}

type gscRow struct {
	Keys        []string `json:"keys"`
	Clicks      float64  `json:"clicks"`
	Impressions float64  `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Position    float64  `json:"position"`
}
