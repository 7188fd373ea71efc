// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/seo-auditor/internal/httputil"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

// mozAPIBase is the Moz Links API url_metrics endpoint. Declared as a var
// so tests can substitute an httptest server.
var mozAPIBase = "https://lsapi.seomoz.com/v2/url_metrics"

// MozProvider queries the Moz Links API for backlink metrics. Moz is the
// highest-fidelity backlink source and sits first in the backlink cascade.
type MozProvider struct {
	Client *http.Client
	Token  string
	Cfg    types.HTTPConfig
}

// Name returns the provider identifier.
func (p *MozProvider) Name() types.ProviderName { return types.ProviderMoz }

// IsConfigured reports whether an API token is present.
func (p *MozProvider) IsConfigured() bool { return p.Token != "" }

// FetchBacklinks retrieves domain authority and link counts for domain.
func (p *MozProvider) FetchBacklinks(ctx context.Context, domain string) (RawBacklinkData, error) {
	body, err := json.Marshal(mozRequest{Targets: []string{domain}})
	if err != nil {
		return RawBacklinkData{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mozAPIBase, bytes.NewReader(body))
	if err != nil {
		return RawBacklinkData{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", p.Cfg.UserAgent)
	req.Header.Set("Authorization", "Bearer "+p.Token)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return RawBacklinkData{}, fmt.Errorf("Moz API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RawBacklinkData{}, fmt.Errorf("Moz API returned HTTP %d", resp.StatusCode)
	}

	var mr mozResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return RawBacklinkData{}, fmt.Errorf("parsing Moz response: %w", err)
	}
	if len(mr.Results) == 0 {
		return RawBacklinkData{}, fmt.Errorf("Moz returned no metrics for %q", domain)
	}

	row := mr.Results[0]
	return RawBacklinkData{
		Provider:         types.ProviderMoz,
		DomainAuthority:  row.DomainAuthority,
		TotalBacklinks:   row.ExternalPagesToRootDomain,
		ReferringDomains: row.RootDomainsToRootDomain,
	}, nil
}

// Moz Links API JSON structures.
type mozRequest struct {
	Targets []string `json:"targets"`
}

type mozResponse struct {
	Results []mozMetrics `json:"results"`
}

type mozMetrics struct {
	Page                      string  `json:"page"`
	DomainAuthority           float64 `json:"domain_authority"`
	PageAuthority             float64 `json:"page_authority"`
	ExternalPagesToRootDomain int     `json:"external_pages_to_root_domain"`
	RootDomainsToRootDomain   int     `json:"root_domains_to_root_domain"`
	SpamScore                 float64 `json:"spam_score"`
}
