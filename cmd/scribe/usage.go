package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"inkwell/scribe/pkg/config"
	"inkwell/scribe/pkg/usage"
)

var usageSince time.Duration

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Inspect local usage accounting",
}

var usageSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize recorded usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return err
		}
		if !cfg.Usage.Enabled {
			return fmt.Errorf("usage accounting is disabled in the configuration")
		}

		store, err := usage.NewStore(usage.StoreConfig{Path: cfg.Usage.Path})
		if err != nil {
			return err
		}
		defer store.Close()

		since := time.Now().Add(-usageSince)
		summary, err := store.Summarize(cmd.Context(), since)
		if err != nil {
			return err
		}

		fmt.Printf("Since:        %s\n", since.Format(time.RFC3339))
		fmt.Printf("Calls:        %d (%d failed)\n", summary.Calls, summary.Failures)
		fmt.Printf("Total tokens: %d\n", summary.TotalTokens)

		ids := make([]string, 0, len(summary.ByProvider))
		for id := range summary.ByProvider {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("  %-10s %d tokens\n", id, summary.ByProvider[id])
		}
		return nil
	},
}

func init() {
	usageSummaryCmd.Flags().DurationVar(&usageSince, "since", 30*24*time.Hour, "summarize usage newer than this age")
	usageCmd.AddCommand(usageSummaryCmd)
	rootCmd.AddCommand(usageCmd)
}
