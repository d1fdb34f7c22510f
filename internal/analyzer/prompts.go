package analyzer

import (
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/stockradar/stockradar/internal/scoring"
)

const systemPrompt = `You are a financial risk analyst reviewing detected risk signals for a single stock.
Given a category breakdown produced by a deterministic rule engine, independently estimate the
probability-weighted risk of an adverse corporate event on a 0-100 scale and explain the drivers
in plain English for a non-specialist reader.

Respond with a single JSON object and nothing else:
{"risk_score": <number 0-100>, "explanation": "<2-4 sentences>"}`

type promptCategory struct {
	Category string   `json:"category"`
	Score    float64  `json:"score"`
	Count    int      `json:"signal_count"`
	Top      []string `json:"top_signals,omitempty"`
}

func buildMessages(ticker string, result scoring.Result) []openai.ChatCompletionMessage {
	categories := make([]promptCategory, 0, len(result.Categories))
	for _, cs := range result.Categories {
		if cs.Count == 0 {
			continue
		}
		pc := promptCategory{
			Category: string(cs.Category),
			Score:    cs.Score,
			Count:    cs.Count,
		}
		for _, top := range cs.TopSignals {
			label := string(top.Type)
			if top.Title != "" {
				label = fmt.Sprintf("%s: %s", top.Type, top.Title)
			}
			pc.Top = append(pc.Top, label)
		}
		categories = append(categories, pc)
	}

	payload, _ := json.MarshalIndent(map[string]any{
		"ticker":        ticker,
		"rule_score":    result.Score,
		"risk_level":    result.Level,
		"total_signals": result.TotalSignals,
		"categories":    categories,
	}, "", "  ")

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: string(payload)},
	}
}
