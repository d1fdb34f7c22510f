package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stockradar/stockradar/internal/scanner"
	"github.com/stockradar/stockradar/internal/scoring"
)

func buildPayload(kind Kind, report *scanner.Report) ([]byte, error) {
	switch kind {
	case KindDiscord:
		return json.Marshal(discordPayload(report))
	case KindSlack:
		return json.Marshal(slackPayload(report))
	case KindGeneric, "":
		return json.Marshal(genericPayload(report))
	default:
		return nil, fmt.Errorf("webhook: unknown endpoint kind %q", kind)
	}
}

type genericAlert struct {
	Event  string          `json:"event"`
	Report *scanner.Report `json:"report"`
}

func genericPayload(report *scanner.Report) genericAlert {
	return genericAlert{Event: "risk_alert", Report: report}
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Timestamp   string              `json:"timestamp"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordMessage struct {
	Embeds []discordEmbed `json:"embeds"`
}

func discordPayload(report *scanner.Report) discordMessage {
	embed := discordEmbed{
		Title:       fmt.Sprintf("%s risk alert: %s scored %.1f", strings.ToUpper(string(report.Level)), report.Ticker, report.Score),
		Description: report.Explanation,
		Color:       levelColor(report.Level),
		Timestamp:   report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, cs := range report.Categories {
		if cs.Count == 0 {
			continue
		}
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:   string(cs.Category),
			Value:  fmt.Sprintf("%.1f (%d signals)", cs.Score, cs.Count),
			Inline: true,
		})
	}
	return discordMessage{Embeds: []discordEmbed{embed}}
}

func levelColor(level scoring.Level) int {
	switch level {
	case scoring.LevelHigh:
		return 0xE74C3C
	case scoring.LevelElevated:
		return 0xE67E22
	case scoring.LevelNeutral:
		return 0xF1C40F
	default:
		return 0x2ECC71
	}
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

func slackPayload(report *scanner.Report) slackMessage {
	headline := fmt.Sprintf(":rotating_light: %s risk %s (score %.1f)", report.Ticker, report.Level, report.Score)

	var lines []string
	for _, cs := range report.Categories {
		if cs.Count == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("*%s*: %.1f (%d signals)", cs.Category, cs.Score, cs.Count))
	}
	if report.Explanation != "" {
		lines = append(lines, report.Explanation)
	}

	blocks := []slackBlock{
		{Type: "header", Text: &slackText{Type: "plain_text", Text: headline}},
	}
	if len(lines) > 0 {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: strings.Join(lines, "\n")},
		})
	}
	return slackMessage{Text: headline, Blocks: blocks}
}
