// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inspect extracts structural facts from a page: headings, schema
// markup, media usage, link counts, and crawl-policy signals. The output
// PageFacts is the fixed contract consumed by the scoring engine.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/publicsuffix"

	"github.com/pdiddy/seo-auditor/internal/httputil"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

// Inspector fetches and parses a single page.
type Inspector struct {
	Client *http.Client
	Cfg    types.InspectConfig
}

// New builds an Inspector with a client honoring the configured timeout.
func New(cfg types.InspectConfig) *Inspector {
	return &Inspector{
		Client: &http.Client{Timeout: cfg.Timeout},
		Cfg:    cfg,
	}
}

// Inspect fetches pageURL and returns its structural facts. The returned
// error is fatal for this URL's analysis: without page facts there is
// nothing to score.
func (in *Inspector) Inspect(ctx context.Context, pageURL string) (types.PageFacts, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return types.PageFacts{}, fmt.Errorf("invalid URL %q", pageURL)
	}

	resp, err := httputil.Get(ctx, in.Client, pageURL, in.Cfg.UserAgent)
	if err != nil {
		return types.PageFacts{}, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return types.PageFacts{}, fmt.Errorf("parsing page: %w", err)
	}

	facts := types.PageFacts{
		URL:    pageURL,
		Domain: registrableDomain(base.Host),
		HTTPS:  base.Scheme == "https",
	}

	in.extractStructure(doc, base, &facts)
	in.applyCrawlPolicy(ctx, base, &facts)

	if in.Cfg.MaxLinkChecks > 0 {
		facts.BrokenLinks = in.countBrokenLinks(ctx, doc, base)
	}
	return facts, nil
}

// extractStructure fills the DOM-derived facts.
func (in *Inspector) extractStructure(doc *goquery.Document, base *url.URL, facts *types.PageFacts) {
	// Headings per level.
	for level := 1; level <= 6; level++ {
		facts.HeadingCounts[level-1] = doc.Find(fmt.Sprintf("h%d", level)).Length()
	}

	// Structured data: JSON-LD first, then microdata itemtype attributes.
	seen := map[string]bool{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		collectJSONLD(s.Text(), seen, facts)
	})
	doc.Find("[itemtype]").Each(func(_ int, s *goquery.Selection) {
		itemtype, _ := s.Attr("itemtype")
		if t := lastPathSegment(itemtype); t != "" && !seen[t] {
			seen[t] = true
			facts.SchemaTypes = append(facts.SchemaTypes, t)
		}
	})
	if doc.Find(`meta[name="author"]`).Length() > 0 {
		facts.HasAuthorSchema = true
	}
	if doc.Find("address").Length() > 0 || doc.Find(`meta[name="geo.region"]`).Length() > 0 {
		facts.HasLocalSignals = true
	}
	for _, t := range facts.SchemaTypes {
		switch {
		case t == "Person" || strings.Contains(t, "Author"):
			facts.HasAuthorSchema = true
		case strings.Contains(t, "LocalBusiness") || t == "PostalAddress":
			facts.HasLocalSignals = true
		}
	}

	// Media and layout elements.
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		facts.TotalImages++
		if alt, ok := s.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			facts.ImagesWithAlt++
		}
	})
	facts.VideoCount = doc.Find("video").Length()
	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if strings.Contains(src, "youtube.") || strings.Contains(src, "youtu.be") || strings.Contains(src, "vimeo.") {
			facts.VideoCount++
		}
	})
	facts.TableCount = doc.Find("table").Length()
	facts.ListCount = doc.Find("ul, ol").Length()

	// Links split by registrable domain.
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := base.Parse(href)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return
		}
		if registrableDomain(u.Host) == facts.Domain {
			facts.InternalLinks++
		} else {
			facts.ExternalLinks++
		}
	})

	// First paragraph with content, for the direct-answer heuristic.
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" {
			facts.FirstParagraph = text
			return false
		}
		return true
	})

	// Word count over visible text.
	doc.Find("script, style, noscript").Remove()
	facts.WordCount = len(strings.Fields(doc.Find("body").Text()))
}

// collectJSONLD records schema types and credibility signals from one
// JSON-LD block. Malformed blocks are ignored.
func collectJSONLD(raw string, seen map[string]bool, facts *types.PageFacts) {
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return
	}
	walkJSONLD(payload, seen, facts)
}

func walkJSONLD(node any, seen map[string]bool, facts *types.PageFacts) {
	switch v := node.(type) {
	case map[string]any:
		switch t := v["@type"].(type) {
		case string:
			if !seen[t] {
				seen[t] = true
				facts.SchemaTypes = append(facts.SchemaTypes, t)
			}
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok && !seen[s] {
					seen[s] = true
					facts.SchemaTypes = append(facts.SchemaTypes, s)
				}
			}
		}
		if _, ok := v["author"]; ok {
			facts.HasAuthorSchema = true
		}
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				walkJSONLD(item, seen, facts)
			}
		}
	case []any:
		for _, item := range v {
			walkJSONLD(item, seen, facts)
		}
	}
}

// countBrokenLinks samples up to MaxLinkChecks same-site links and counts
// those that respond with an error status. Sampling keeps the audit inside
// the interactive latency ceiling.
func (in *Inspector) countBrokenLinks(ctx context.Context, doc *goquery.Document, base *url.URL) int {
	var targets []string
	seen := map[string]bool{}
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		u, err := base.Parse(href)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return true
		}
		if u.Host != base.Host {
			return true
		}
		u.Fragment = ""
		t := u.String()
		if !seen[t] && t != base.String() {
			seen[t] = true
			targets = append(targets, t)
		}
		return len(targets) < in.Cfg.MaxLinkChecks
	})

	broken := 0
	for _, target := range targets {
		if ctx.Err() != nil {
			break
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", in.Cfg.UserAgent)
		resp, err := in.Client.Do(req)
		if err != nil {
			broken++
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= 400 {
			broken++
		}
	}
	return broken
}

// lastPathSegment returns the trailing segment of a schema.org item type
// URL ("https://schema.org/Article" → "Article").
func lastPathSegment(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// registrableDomain returns the eTLD+1 for a host, falling back to the
// host itself when the public suffix list cannot resolve it.
func registrableDomain(host string) string {
	host = strings.ToLower(host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return domain
	}
	return host
}
