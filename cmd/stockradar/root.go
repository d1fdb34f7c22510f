package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "stockradar",
		Short: "Risk-signal scanner for public equities",
		Long: `stockradar collects risk-relevant events (SEC filings, insider trades,
submitted signals) for a set of tickers, scores them with a deterministic
rule engine, and reports a composite 0-100 risk score per ticker.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(scanCmd(&configPath))
	cmd.AddCommand(serveCmd(&configPath))
	return cmd
}
