// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/seo-auditor/internal/history"
	"github.com/pdiddy/seo-auditor/internal/scoring"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved scans (list, show, prune)",
	Long: `History reads the local scan store written by "audit --save". Use list to
see saved scans, show to print one in full, and prune to trim old scans
beyond the configured keep count.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list [domain]",
	Short: "List saved scans, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <scan-id>",
	Short: "Print one saved scan in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Trim every domain to the configured keep count",
	RunE:  runHistoryPrune,
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "maximum scans to list (0 = all)")
	historyShowCmd.Flags().Bool("json", false, "output the scan as JSON")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, error) {
	return history.NewStore(pipelineConfig().History)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	var domain string
	if len(args) == 1 {
		domain = args[0]
	}
	limit, _ := cmd.Flags().GetInt("limit")

	records, err := store.List(context.Background(), domain, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No saved scans.")
		return nil
	}

	fmt.Printf("%-6s  %-30s  %-20s  %-6s  %s\n", "ID", "Domain", "Date", "Score", "URLs")
	for _, r := range records {
		fmt.Printf("%-6d  %-30s  %-20s  %-6.0f  %d\n",
			r.ID, r.Domain, r.CreatedAt.Local().Format(time.DateTime), r.Total, r.URLCount)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid scan id %q", args[0])
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.Get(context.Background(), id)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printDomainTable(result)
	for _, ur := range result.Results {
		fmt.Printf("\n%s  %.0f/%.0f\n", ur.URL, ur.Score.Total, types.BudgetTotal)
		for _, p := range types.Pillars {
			fmt.Printf("  %-22s  %5.1f / %4.1f\n", scoring.PillarTitle(p), ur.Score.PillarScore(p), types.PillarBudget(p))
		}
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Prune(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d scan(s).\n", removed)
	return nil
}
