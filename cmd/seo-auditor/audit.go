// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/seo-auditor/internal/audit"
	"github.com/pdiddy/seo-auditor/internal/cascade"
	"github.com/pdiddy/seo-auditor/internal/history"
	"github.com/pdiddy/seo-auditor/internal/inspect"
	"github.com/pdiddy/seo-auditor/internal/perf"
	"github.com/pdiddy/seo-auditor/internal/providers"
	"github.com/pdiddy/seo-auditor/internal/scoring"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

var auditCmd = &cobra.Command{
	Use:   "audit [urls...]",
	Short: "Audit one or more URLs and score them across five pillars",
	Long: `Audit fetches each URL, inspects its structure, measures performance via
PageSpeed Insights, pulls keyword and backlink metrics through the provider
cascade, and prints a scored report.

Competitor domains can be audited in the same run for a side-by-side
comparison:

  seo-auditor audit example.com/pricing --competitor rival.com=rival.com/pricing`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringArray("competitor", nil, "competitor group as name=url[,url...] (repeatable)")
	auditCmd.Flags().Bool("json", false, "output the full result as JSON")
	auditCmd.Flags().Bool("yaml", false, "output the full result as YAML")
	auditCmd.Flags().Bool("save", false, "save the primary result to the scan history")
	auditCmd.Flags().Int("max-parallel", 0, "maximum URLs analyzed concurrently")

	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if mp, _ := cmd.Flags().GetInt("max-parallel"); mp > 0 {
		cfg.Audit.MaxParallel = mp
	}

	competitors, err := parseCompetitors(cmd)
	if err != nil {
		return err
	}

	auditor := newAuditor(cfg)
	primary, compResults, err := auditor.AnalyzeBatch(context.Background(), audit.BatchRequest{
		Caller:      "cli",
		URLs:        args,
		Competitors: competitors,
	})
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Save(context.Background(), primary)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved scan %d for %s\n", id, primary.Domain)
	}

	return formatAuditOutput(cmd, primary, compResults)
}

// newAuditor wires the full pipeline from configuration. Provider order is
// the cascade priority: DataForSEO then Search Console for keywords, Moz
// then DataForSEO for backlinks.
func newAuditor(cfg types.PipelineConfig) *audit.Auditor {
	client := &http.Client{Timeout: cfg.Providers.Timeout}

	dfs := &providers.DataForSEOProvider{
		Client:   client,
		Login:    cfg.Providers.DataForSEOLogin,
		Password: cfg.Providers.DataForSEOPassword,
		Cfg:      cfg.Providers.HTTPConfig,
	}
	gsc := &providers.GSCProvider{
		Client:  client,
		APIKey:  cfg.Providers.GSCAPIKey,
		SiteURL: cfg.Providers.GSCSiteURL,
		Cfg:     cfg.Providers.HTTPConfig,
	}
	moz := &providers.MozProvider{
		Client: client,
		Token:  cfg.Providers.MozToken,
		Cfg:    cfg.Providers.HTTPConfig,
	}

	engine := cascade.New(
		[]providers.KeywordProvider{dfs, gsc},
		[]providers.BacklinkProvider{moz, dfs},
		os.Stderr,
	)

	return audit.New(
		inspect.New(cfg.Inspect),
		perf.New(cfg.Performance),
		engine,
		audit.NewTokenBucket(cfg.Audit.RatePerMinute, cfg.Audit.RateBurst),
		cfg.Audit,
		os.Stderr,
	)
}

// parseCompetitors reads repeated --competitor name=url[,url...] flags.
func parseCompetitors(cmd *cobra.Command) ([]types.CompetitorGroup, error) {
	raw, _ := cmd.Flags().GetStringArray("competitor")
	var groups []types.CompetitorGroup
	for _, entry := range raw {
		name, urls, ok := strings.Cut(entry, "=")
		if !ok || name == "" || urls == "" {
			return nil, fmt.Errorf("invalid --competitor %q: expected name=url[,url...]", entry)
		}
		groups = append(groups, types.CompetitorGroup{
			Name: name,
			URLs: strings.Split(urls, ","),
		})
	}
	return groups, nil
}

type auditOutput struct {
	Primary     types.DomainResult   `json:"primary" yaml:"primary"`
	Competitors []types.DomainResult `json:"competitors,omitempty" yaml:"competitors,omitempty"`
	Comparison  *types.Comparison    `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

func formatAuditOutput(cmd *cobra.Command, primary types.DomainResult, competitors []types.DomainResult) error {
	out := auditOutput{Primary: primary, Competitors: competitors}
	if len(competitors) > 0 {
		cmp := audit.CompareScores(primary, competitors)
		out.Comparison = &cmp
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(out)
	}

	printDomainTable(primary)
	for _, c := range competitors {
		fmt.Println()
		printDomainTable(c)
	}
	if out.Comparison != nil {
		fmt.Println()
		printComparison(*out.Comparison)
	}
	return nil
}

func printDomainTable(d types.DomainResult) {
	fmt.Printf("%s  score %.0f/%.0f  (%d URL(s))\n", d.Domain, d.Average.Total, types.BudgetTotal, len(d.Results))
	fmt.Println(strings.Repeat("-", 60))
	for _, p := range types.Pillars {
		fmt.Printf("%-22s  %5.1f / %4.1f\n", scoring.PillarTitle(p), d.Average.PillarScore(p), types.PillarBudget(p))
	}

	fmt.Printf("\nData sources: %s\n", dataSourceLine(d.Average.DataSource))

	if len(d.Recommendations) > 0 {
		fmt.Println("\nTop recommendations:")
		max := len(d.Recommendations)
		if max > 5 {
			max = 5
		}
		for _, rec := range d.Recommendations[:max] {
			fmt.Printf("  [%-6s] %-24s %s\n", rec.Priority, rec.Title, rec.Description)
		}
	}

	for _, w := range d.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
}

func dataSourceLine(ds types.DataSource) string {
	var on []string
	if ds.Moz {
		on = append(on, "moz")
	}
	if ds.DataForSEO {
		on = append(on, "dataforseo")
	}
	if ds.GSC {
		on = append(on, "gsc")
	}
	if ds.PageSpeed {
		on = append(on, "pagespeed")
	}
	if len(on) == 0 {
		return "none (on-page estimates only)"
	}
	return strings.Join(on, ", ")
}

func printComparison(cmp types.Comparison) {
	fmt.Println("Comparison (best first):")
	for _, pr := range cmp.Pillars {
		parts := make([]string, 0, len(pr.Standings))
		for _, s := range pr.Standings {
			parts = append(parts, fmt.Sprintf("%s %.1f", s.Domain, s.Score))
		}
		fmt.Printf("  %-22s  %s\n", scoring.PillarTitle(pr.Pillar), strings.Join(parts, "  >  "))
	}
	fmt.Print("  Overall:  ")
	parts := make([]string, 0, len(cmp.Overall))
	for _, s := range cmp.Overall {
		parts = append(parts, fmt.Sprintf("%d. %s (%.0f)", s.Rank, s.Domain, s.Total))
	}
	fmt.Println(strings.Join(parts, "  "))
}
