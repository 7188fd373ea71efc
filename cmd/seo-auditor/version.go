package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of seo-auditor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("seo-auditor %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
