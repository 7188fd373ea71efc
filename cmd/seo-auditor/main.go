// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the seo-auditor CLI. The audit
// subcommand runs the full pipeline: page inspection, performance analysis,
// the provider cascade, scoring, and aggregation. History subcommands read
// the local scan store.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/seo-auditor/internal/secrets"
	"github.com/pdiddy/seo-auditor/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedKeys holds API credentials loaded from .secrets/ at startup.
var loadedKeys secrets.Keys

// rootCmd is the base command for the seo-auditor CLI.
var rootCmd = &cobra.Command{
	Use:   "seo-auditor",
	Short: "Audit websites for search and AI discoverability",
	Long: `seo-auditor scores web pages for classic search visibility and AI-assistant
discoverability. Each audited URL gets a 0-96 score across five pillars:
content structure, brand ranking, website technical, keyword visibility,
and AI trust.

Keyword and backlink metrics come from whichever providers are configured
(Moz, DataForSEO, Google Search Console); unconfigured providers are skipped
and missing data degrades to on-page estimates rather than failing the audit.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		keys, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedKeys = keys
		if names := keys.Names(); len(names) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", names)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./seo-auditor.yaml or ~/.config/seo-auditor/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("seo-auditor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "seo-auditor"))
		}
	}

	viper.SetEnvPrefix("SEO_AUDITOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the full configuration from the config file,
// environment, and loaded secrets. Secrets win over config values so
// credentials never need to live in seo-auditor.yaml.
func pipelineConfig() types.PipelineConfig {
	http := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
	if http.Timeout <= 0 {
		http.Timeout = 30 * time.Second
	}
	if http.UserAgent == "" {
		http.UserAgent = "seo-auditor/" + version
	}

	cfg := types.PipelineConfig{
		Providers: types.ProviderConfig{
			HTTPConfig:         http,
			MozToken:           firstOf(loadedKeys.MozToken, viper.GetString("providers.moz_token")),
			DataForSEOLogin:    firstOf(loadedKeys.DataForSEOLogin, viper.GetString("providers.dataforseo_login")),
			DataForSEOPassword: firstOf(loadedKeys.DataForSEOPassword, viper.GetString("providers.dataforseo_password")),
			GSCAPIKey:          firstOf(loadedKeys.GSCAPIKey, viper.GetString("providers.gsc_api_key")),
			GSCSiteURL:         viper.GetString("providers.gsc_site_url"),
		},
		Performance: types.PerformanceConfig{
			HTTPConfig: http,
			APIKey:     firstOf(loadedKeys.PageSpeedAPIKey, viper.GetString("performance.api_key")),
			Strategy:   viper.GetString("performance.strategy"),
		},
		Inspect: types.InspectConfig{
			HTTPConfig:    http,
			MaxLinkChecks: viper.GetInt("inspect.max_link_checks"),
		},
		Audit: types.AuditConfig{
			MaxParallel:         viper.GetInt("audit.max_parallel"),
			URLTimeout:          viper.GetDuration("audit.url_timeout"),
			MaxPrimaryURLs:      viper.GetInt("audit.max_primary_urls"),
			MaxCompetitorGroups: viper.GetInt("audit.max_competitor_groups"),
			MaxCompetitorURLs:   viper.GetInt("audit.max_competitor_urls"),
			RatePerMinute:       viper.GetInt("audit.rate_per_minute"),
			RateBurst:           viper.GetInt("audit.rate_burst"),
		},
		History: types.HistoryConfig{
			HistoryDir: viper.GetString("history.dir"),
			Keep:       viper.GetInt("history.keep"),
		},
	}
	if cfg.Inspect.MaxLinkChecks == 0 {
		cfg.Inspect.MaxLinkChecks = 10
	}
	return cfg
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
