package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stockradar/stockradar/internal/scanner"
)

func renderResults(results []scanner.Result, format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		return renderJSON(results)
	case "md", "markdown":
		return renderMarkdown(results), nil
	case "text", "":
		return renderText(results), nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or md)", format)
	}
}

func renderJSON(results []scanner.Result) (string, error) {
	type item struct {
		Ticker string          `json:"ticker"`
		Report *scanner.Report `json:"report,omitempty"`
		Error  string          `json:"error,omitempty"`
	}
	items := make([]item, 0, len(results))
	for _, res := range results {
		it := item{Ticker: res.Ticker, Report: res.Report}
		if res.Err != nil {
			it.Error = res.Err.Error()
		}
		items = append(items, it)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func renderText(results []scanner.Result) string {
	var b strings.Builder
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(&b, "%-6s scan failed: %v\n", res.Ticker, res.Err)
			continue
		}
		r := res.Report
		fmt.Fprintf(&b, "%-6s %6.1f  %-8s signals=%d%s\n",
			r.Ticker, r.Score, r.Level, r.TotalSignals, deltaSuffix(r.Deltas))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderMarkdown(results []scanner.Result) string {
	var b strings.Builder
	b.WriteString("# Risk scan report\n\n")
	b.WriteString("| Ticker | Score | Level | Signals | Δ7d |\n")
	b.WriteString("|--------|-------|-------|---------|-----|\n")
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(&b, "| %s | — | error | — | — |\n", res.Ticker)
			continue
		}
		r := res.Report
		fmt.Fprintf(&b, "| %s | %.1f | %s | %d | %s |\n",
			r.Ticker, r.Score, r.Level, r.TotalSignals, deltaCell(r.Deltas["7d"]))
	}

	for _, res := range results {
		r := res.Report
		if r == nil || r.NoData {
			continue
		}
		fmt.Fprintf(&b, "\n## %s — %.1f (%s)\n\n", r.Ticker, r.Score, r.Level)
		for _, cs := range r.Categories {
			if cs.Count == 0 {
				continue
			}
			fmt.Fprintf(&b, "- **%s**: %.1f from %d signal(s)\n", cs.Category, cs.Score, cs.Count)
			for _, top := range cs.TopSignals {
				title := top.Title
				if title == "" {
					title = string(top.Type)
				}
				fmt.Fprintf(&b, "  - %s (%.1f)\n", title, top.Contribution)
			}
		}
		if r.Explanation != "" {
			fmt.Fprintf(&b, "\n%s\n", r.Explanation)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func deltaSuffix(deltas map[string]*float64) string {
	d, ok := deltas["7d"]
	if !ok || d == nil {
		return ""
	}
	return fmt.Sprintf("  Δ7d=%+.1f", *d)
}

func deltaCell(d *float64) string {
	if d == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f", *d)
}
