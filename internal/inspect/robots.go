// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inspect

import (
	"context"
	"io"
	"net/url"

	"github.com/temoto/robotstxt"

	"github.com/pdiddy/seo-auditor/internal/httputil"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

// aiCrawlers are the AI user agents whose access determines the
// ai_crawlers_allowed fact. All of them must be permitted on the site root.
var aiCrawlers = []string{"GPTBot", "ClaudeBot", "PerplexityBot", "Google-Extended"}

// maxRobotsBytes bounds the robots.txt read.
const maxRobotsBytes = 512 * 1024

// applyCrawlPolicy fills the robots.txt, llms.txt, and sitemap facts for
// the site hosting base. Fetch failures degrade to permissive defaults: a
// site without robots.txt allows every crawler.
func (in *Inspector) applyCrawlPolicy(ctx context.Context, base *url.URL, facts *types.PageFacts) {
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	facts.AICrawlersAllowed = true
	var sitemaps []string

	if resp, err := httputil.Get(ctx, in.Client, root.JoinPath("robots.txt").String(), in.Cfg.UserAgent); err == nil {
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
		resp.Body.Close()
		if readErr == nil {
			if robots, parseErr := robotstxt.FromBytes(data); parseErr == nil {
				for _, agent := range aiCrawlers {
					if !robots.FindGroup(agent).Test("/") {
						facts.AICrawlersAllowed = false
						break
					}
				}
				sitemaps = robots.Sitemaps
			}
		}
	}

	facts.HasLLMsFile = in.reachable(ctx, root.JoinPath("llms.txt").String())

	if len(sitemaps) > 0 {
		facts.SitemapDeclared = true
		facts.SitemapReachable = in.reachable(ctx, sitemaps[0])
		return
	}

	// No Sitemap directive; probe the conventional location.
	if in.reachable(ctx, root.JoinPath("sitemap.xml").String()) {
		facts.SitemapDeclared = true
		facts.SitemapReachable = true
	}
}

// reachable reports whether target fetches with a success status.
func (in *Inspector) reachable(ctx context.Context, target string) bool {
	resp, err := httputil.Get(ctx, in.Client, target, in.Cfg.UserAgent)
	if err != nil {
		return false
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	resp.Body.Close()
	return true
}
