// Package analyzer produces an independent risk assessment and a
// plain-English explanation for a scored entity. The LLM-backed analyzer
// talks to an OpenAI-compatible endpoint; a heuristic fallback keeps the
// pipeline alive when the model is unavailable.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/stockradar/stockradar/internal/scoring"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// Assessment is the analyzer's view of an entity. MLScore is an independent
// 0-100 risk estimate suitable for blending; nil means no model score was
// produced and the composite stays rule-only.
type Assessment struct {
	MLScore     *float64 `json:"ml_score,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// ChatClient captures the ability to perform chat completions.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMAnalyzer asks a chat model to independently assess the scored
// breakdown. Any failure falls back to the configured fallback analyzer.
type LLMAnalyzer struct {
	Client      ChatClient
	Model       string
	Temperature float32
	MaxTokens   int
	Fallback    interface {
		Assess(ctx context.Context, ticker string, result scoring.Result) (Assessment, error)
	}
}

// NewLLMAnalyzer builds an analyzer backed by the Groq OpenAI-compatible
// API.
func NewLLMAnalyzer(apiKey, model string, opts ...func(*LLMAnalyzer)) *LLMAnalyzer {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = defaultGroqBaseURL

	a := &LLMAnalyzer{
		Client:      openai.NewClientWithConfig(cfg),
		Model:       model,
		Temperature: 0.1,
		MaxTokens:   1000,
		Fallback:    &HeuristicAnalyzer{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithChatClient overrides the underlying chat client (useful for tests).
func WithChatClient(client ChatClient) func(*LLMAnalyzer) {
	return func(a *LLMAnalyzer) {
		a.Client = client
	}
}

// Assess implements the scanner's Analyzer contract.
func (a *LLMAnalyzer) Assess(ctx context.Context, ticker string, result scoring.Result) (Assessment, error) {
	if a.Client == nil || a.Model == "" {
		return a.assessWithFallback(ctx, ticker, result, errors.New("llm analyzer misconfigured"))
	}

	resp, err := a.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.Model,
		Messages:    buildMessages(ticker, result),
		Temperature: a.Temperature,
		MaxTokens:   a.MaxTokens,
	})
	if err != nil {
		return a.assessWithFallback(ctx, ticker, result, err)
	}
	if len(resp.Choices) == 0 {
		return a.assessWithFallback(ctx, ticker, result, errors.New("llm response missing choices"))
	}

	assessment, err := parseAssessment(resp.Choices[0].Message.Content)
	if err != nil {
		return a.assessWithFallback(ctx, ticker, result, err)
	}
	return assessment, nil
}

func (a *LLMAnalyzer) assessWithFallback(ctx context.Context, ticker string, result scoring.Result, cause error) (Assessment, error) {
	if a.Fallback == nil {
		return Assessment{}, fmt.Errorf("analyzer: %w", cause)
	}
	slog.Warn("llm assessment failed, using heuristic fallback", "ticker", ticker, "error", cause)
	return a.Fallback.Assess(ctx, ticker, result)
}

type llmAssessment struct {
	RiskScore   *float64 `json:"risk_score"`
	Explanation string   `json:"explanation"`
}

// parseAssessment extracts the JSON object from a model reply, tolerating
// surrounding prose and code fences.
func parseAssessment(content string) (Assessment, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return Assessment{}, fmt.Errorf("analyzer: no JSON object in reply")
	}

	var parsed llmAssessment
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return Assessment{}, fmt.Errorf("analyzer: decode reply: %w", err)
	}
	if parsed.RiskScore == nil {
		return Assessment{}, errors.New("analyzer: reply missing risk_score")
	}

	score := *parsed.RiskScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Assessment{MLScore: &score, Explanation: strings.TrimSpace(parsed.Explanation)}, nil
}
