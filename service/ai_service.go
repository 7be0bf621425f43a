package service

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"msme-risk/domain"
)

const (
	defaultAIURL   = "https://api.openai.com/v1/chat/completions"
	defaultAIModel = "gpt-4o-mini"
	driversPerSide = 3
)

// AIConfig configures the chat-completions endpoint. An empty APIKey disables it.
type AIConfig struct {
	APIKey    string
	APIURL    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// AIService writes the narrative part of an explanation. Without an API key,
// or when the call fails, it falls back to a rule-based summary.
type AIService struct {
	scorer     *RiskScorer
	apiKey     string
	apiURL     string
	model      string
	maxTokens  int
	enabled    bool
	httpClient *http.Client
	logger     *slog.Logger
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewAIService(cfg AIConfig, logger *slog.Logger) *AIService {
	return &AIService{
		scorer:    NewRiskScorer(),
		apiKey:    cfg.APIKey,
		apiURL:    cmp.Or(cfg.APIURL, defaultAIURL),
		model:     cmp.Or(cfg.Model, defaultAIModel),
		maxTokens: cmp.Or(cfg.MaxTokens, 300),
		enabled:   cfg.APIKey != "",
		httpClient: &http.Client{
			Timeout: cmp.Or(cfg.Timeout, 30*time.Second),
		},
		logger: logger,
	}
}

func (s *AIService) Enabled() bool {
	return s.enabled
}

// Explain scores inputs and describes what drove the score.
func (s *AIService) Explain(ctx context.Context, name string, inputs domain.RiskInputs) domain.Explanation {
	contributions := s.scorer.Contributions(inputs)
	result := s.scorer.Score(inputs)

	explanation := domain.Explanation{
		Result:        result,
		Contributions: contributions,
		Narrative:     fallbackNarrative(name, result, contributions),
		Source:        domain.ExplanationSourceRules,
	}
	if !s.enabled {
		return explanation
	}

	narrative, err := s.callLLM(ctx, buildPrompt(name, result, contributions))
	if err != nil {
		s.logger.Warn("error calling AI service for risk explanation", slog.String("error", err.Error()))
		return explanation
	}
	explanation.Narrative = narrative
	explanation.Source = domain.ExplanationSourceModel
	return explanation
}

func buildPrompt(name string, result domain.RiskResult, contributions []domain.Contribution) string {
	var lines strings.Builder
	for _, c := range contributions {
		fmt.Fprintf(&lines, "- %s: %+.2f points\n", c.Label, c.Points)
	}
	return fmt.Sprintf(`Explain this MSME credit risk assessment to a loan officer.

BUSINESS: %s
SCORE: %.2f
RISK LEVEL: %s (Low at 85 or above, Medium from 60 to below 85, High below 60)

POINTS BY FACTOR:
%s
INSTRUCTIONS:
1. Name the factors that pulled the score down the most and by how much.
2. Name the factors that supported the score.
3. Suggest what the business could improve to move to a better risk level.
4. Do not invent figures that are not listed above.

Answer in 3-4 plain sentences.`,
		cmp.Or(strings.TrimSpace(name), "unnamed business"),
		result.DisplayScore(), result.Label, lines.String())
}

func (s *AIService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a credit analyst for small and medium enterprise lending in India. You explain risk scores clearly and only use the numbers you are given.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: s.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode AI response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", errors.New("no response from AI")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// fallbackNarrative names the largest negative and positive contributions.
func fallbackNarrative(name string, result domain.RiskResult, contributions []domain.Contribution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s scored %.2f, which is %s risk.",
		cmp.Or(strings.TrimSpace(name), "This business"), result.DisplayScore(), result.Label)

	if drags := topDrivers(contributions, false); len(drags) > 0 {
		b.WriteString(" The score was pulled down most by " + joinDrivers(drags) + ".")
	}
	if supports := topDrivers(contributions, true); len(supports) > 0 {
		b.WriteString(" It was supported by " + joinDrivers(supports) + ".")
	}

	switch {
	case result.Label.Equal(domain.RiskLabelLow):
	case result.Label.Equal(domain.RiskLabelMedium):
		fmt.Fprintf(&b, " %.2f more points would reach Low risk.", LowRiskThreshold-result.Score)
	default:
		if result.Score < MediumRiskThreshold {
			fmt.Fprintf(&b, " %.2f more points would reach Medium risk.", MediumRiskThreshold-result.Score)
		}
	}
	return b.String()
}

// topDrivers returns up to driversPerSide contributions with the largest
// magnitude on one side of zero. Ties keep form order.
func topDrivers(contributions []domain.Contribution, positive bool) []domain.Contribution {
	var side []domain.Contribution
	for _, c := range contributions {
		if (positive && c.Points > 0) || (!positive && c.Points < 0) {
			side = append(side, c)
		}
	}
	slices.SortStableFunc(side, func(a, b domain.Contribution) int {
		if positive {
			return cmp.Compare(b.Points, a.Points)
		}
		return cmp.Compare(a.Points, b.Points)
	})
	if len(side) > driversPerSide {
		side = side[:driversPerSide]
	}
	return side
}

func joinDrivers(drivers []domain.Contribution) string {
	parts := make([]string, 0, len(drivers))
	for _, d := range drivers {
		parts = append(parts, fmt.Sprintf("%s (%+.2f)", d.Label, d.Points))
	}
	return strings.Join(parts, ", ")
}
