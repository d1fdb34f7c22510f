package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockradar/stockradar/internal/config"
	"github.com/stockradar/stockradar/internal/scanner"
)

func scanCmd(configPath *string) *cobra.Command {
	var (
		tickers  []string
		lookback int
		force    bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan tickers once and print a risk report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if lookback > 0 {
				cfg.LookbackDays = lookback
			}

			app, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()

			targets, err := app.resolveTickers(ctx, normalizeTickers(tickers))
			if err != nil {
				return err
			}

			state, err := scanner.OpenStateStore(cfg.StatePath)
			if err != nil {
				return err
			}
			interval, err := cfg.RescanIntervalDuration()
			if err != nil {
				return err
			}

			results, err := app.service.ScanIncremental(ctx, targets, state, interval, force)
			if err != nil {
				return err
			}
			scanner.SortByScore(results)

			for _, res := range results {
				if res.Err == nil {
					app.notifier.NotifyIfAlerting(ctx, res.Report)
				}
			}

			out, err := renderResults(results, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&tickers, "tickers", "t", nil, "tickers to scan (comma separated)")
	cmd.Flags().IntVar(&lookback, "lookback", 0, "lookback window in days (overrides config)")
	cmd.Flags().BoolVar(&force, "force", false, "rescan even when scan state is fresh")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or md")
	return cmd
}

func normalizeTickers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
