// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/seo-auditor/internal/perf"
	"github.com/pdiddy/seo-auditor/internal/providers"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show which metric providers are configured",
	Long: `Providers lists each keyword, backlink, and performance provider with its
configuration state. Unconfigured providers are skipped by the cascade; a
run with no providers at all still works from on-page estimates.`,
	Run: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) {
	cfg := pipelineConfig()

	moz := &providers.MozProvider{Token: cfg.Providers.MozToken}
	dfs := &providers.DataForSEOProvider{Login: cfg.Providers.DataForSEOLogin, Password: cfg.Providers.DataForSEOPassword}
	gsc := &providers.GSCProvider{APIKey: cfg.Providers.GSCAPIKey, SiteURL: cfg.Providers.GSCSiteURL}
	ps := perf.New(cfg.Performance)

	rows := []struct {
		name       string
		role       string
		configured bool
	}{
		{"dataforseo", "keywords (primary), backlinks (fallback)", dfs.IsConfigured()},
		{"gsc", "keywords (fallback, own property only)", gsc.IsConfigured()},
		{"moz", "backlinks (primary)", moz.IsConfigured()},
		{"pagespeed", "performance", ps.IsConfigured()},
	}

	fmt.Printf("%-12s  %-42s  %s\n", "Provider", "Role", "State")
	for _, r := range rows {
		state := "not configured"
		if r.configured {
			state = "configured"
		}
		fmt.Printf("%-12s  %-42s  %s\n", r.name, r.role, state)
	}
}
