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

// DataForSEO endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	dataForSEOKeywordsBase  = "https://api.dataforseo.com/v3/dataforseo_labs/google/ranked_keywords/live"
	dataForSEOBacklinksBase = "https://api.dataforseo.com/v3/backlinks/summary/live"
)

// dataForSEORowLimit bounds the ranked-keyword rows requested per call.
const dataForSEORowLimit = 100

// DataForSEOProvider queries DataForSEO Labs for ranked keywords and the
// Backlinks API for a backlink summary. It is the primary keyword source
// and the fallback backlink source.
type DataForSEOProvider struct {
	Client   *http.Client
	Login    string
	Password string
	Cfg      types.HTTPConfig
}

// Name returns the provider identifier.
func (p *DataForSEOProvider) Name() types.ProviderName { return types.ProviderDataForSEO }

// IsConfigured reports whether basic-auth credentials are present.
func (p *DataForSEOProvider) IsConfigured() bool { return p.Login != "" && p.Password != "" }

// FetchKeywords retrieves ranked-keyword rows for domain.
func (p *DataForSEOProvider) FetchKeywords(ctx context.Context, domain string) (RawKeywordData, error) {
	payload := []dfsKeywordTask{{Target: domain, Limit: dataForSEORowLimit}}

	var dr dfsKeywordResponse
	if err := p.post(ctx, dataForSEOKeywordsBase, payload, &dr); err != nil {
		return RawKeywordData{}, err
	}

	result, err := dfsFirstResult(dr.Tasks, dr.StatusMessage)
	if err != nil {
		return RawKeywordData{}, err
	}

	raw := RawKeywordData{
		Provider:   types.ProviderDataForSEO,
		TotalCount: result.TotalCount,
	}
	for _, item := range result.Items {
		row := RawKeywordRow{
			Keyword:  item.KeywordData.Keyword,
			Position: float64(item.RankedElement.SerpItem.RankAbsolute),
			Intent:   item.KeywordData.SearchIntentInfo.MainIntent,
		}
		row.SearchVolume = item.KeywordData.KeywordInfo.SearchVolume
		row.Traffic = item.RankedElement.SerpItem.ETV
		raw.Rows = append(raw.Rows, row)
	}
	if raw.TotalCount == 0 {
		raw.TotalCount = len(raw.Rows)
	}
	return raw, nil
}

// FetchBacklinks retrieves the backlink summary for domain.
func (p *DataForSEOProvider) FetchBacklinks(ctx context.Context, domain string) (RawBacklinkData, error) {
	payload := []dfsBacklinkTask{{Target: domain, IncludeSubdomains: true}}

	var dr dfsBacklinkResponse
	if err := p.post(ctx, dataForSEOBacklinksBase, payload, &dr); err != nil {
		return RawBacklinkData{}, err
	}

	result, err := dfsFirstResult(dr.Tasks, dr.StatusMessage)
	if err != nil {
		return RawBacklinkData{}, err
	}

	return RawBacklinkData{
		Provider:         types.ProviderDataForSEO,
		DomainAuthority:  float64(result.Rank),
		TotalBacklinks:   result.Backlinks,
		ReferringDomains: result.ReferringMainDomains,
	}, nil
}

// post sends a DataForSEO task array and decodes the response envelope.
func (p *DataForSEOProvider) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", p.Cfg.UserAgent)
	req.SetBasicAuth(p.Login, p.Password)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return fmt.Errorf("DataForSEO API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("DataForSEO API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing DataForSEO response: %w", err)
	}
	return nil
}

// dfsFirstResult unwraps the DataForSEO task envelope, which reports
// per-task status codes independently of the HTTP status.
func dfsFirstResult[T any](tasks []dfsTask[T], statusMessage string) (T, error) {
	var zero T
	if len(tasks) == 0 {
		return zero, fmt.Errorf("DataForSEO returned no tasks: %s", statusMessage)
	}
	task := tasks[0]
	if task.StatusCode != 20000 {
		return zero, fmt.Errorf("DataForSEO task failed: %s", task.StatusMessage)
	}
	if len(task.Result) == 0 {
		return zero, fmt.Errorf("DataForSEO task returned no result")
	}
	return task.Result[0], nil
}

// DataForSEO API JSON structures.
type dfsKeywordTask struct {
	Target string `json:"target"`
	Limit  int    `json:"limit"`
}

type dfsBacklinkTask struct {
	Target            string `json:"target"`
	IncludeSubdomains bool   `json:"include_subdomains"`
}

type dfsTask[T any] struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Result        []T    `json:"result"`
}

type dfsKeywordResponse struct {
	StatusCode    int                       `json:"status_code"`
	StatusMessage string                    `json:"status_message"`
	Tasks         []dfsTask[dfsKeywordList] `json:"tasks"`
}

type dfsKeywordList struct {
	TotalCount int              `json:"total_count"`
	Items      []dfsKeywordItem `json:"items"`
}

type dfsKeywordItem struct {
	KeywordData struct {
		Keyword     string `json:"keyword"`
		KeywordInfo struct {
			SearchVolume int `json:"search_volume"`
		} `json:"keyword_info"`
		SearchIntentInfo struct {
			MainIntent string `json:"main_intent"`
		} `json:"search_intent_info"`
	} `json:"keyword_data"`
	RankedElement struct {
		SerpItem struct {
			RankAbsolute int     `json:"rank_absolute"`
			ETV          float64 `json:"etv"`
		} `json:"serp_item"`
	} `json:"ranked_serp_element"`
}

type dfsBacklinkResponse struct {
	StatusCode    int                          `json:"status_code"`
	StatusMessage string                       `json:"status_message"`
	Tasks         []dfsTask[dfsBacklinkResult] `json:"tasks"`
}

type dfsBacklinkResult struct {
	Rank                 int `json:"rank"`
	Backlinks            int `json:"backlinks"`
	ReferringMainDomains int `json:"referring_main_domains"`
}
