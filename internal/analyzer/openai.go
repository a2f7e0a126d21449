package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"masterspeak/internal/config"
	"masterspeak/internal/model"
)

const maxTokens = 1024

const systemPrompt = `You are a public-speaking coach. Evaluate the transcript you are given
and respond with a JSON object of this exact shape:
{
  "clarity_score": <float 0-10>,
  "structure_score": <float 0-10>,
  "filler_word_count": <int>,
  "summary": "<one-sentence summary>",
  "feedback": "<two to four sentences of actionable feedback>"
}`

// OpenAIScorer scores transcripts with a chat-completion model.
type OpenAIScorer struct {
	client *openai.Client
	model  string
}

// NewOpenAIScorer builds a scorer from config.
func NewOpenAIScorer(cfg config.OpenAIConfig) *OpenAIScorer {
	return &OpenAIScorer{client: openai.NewClient(cfg.APIKey), model: cfg.Model}
}

var _ Scorer = (*OpenAIScorer)(nil)

type scoreResponse struct {
	ClarityScore    float64 `json:"clarity_score"`
	StructureScore  float64 `json:"structure_score"`
	FillerWordCount int     `json:"filler_word_count"`
	Summary         string  `json:"summary"`
	Feedback        string  `json:"feedback"`
}

// Score evaluates one transcript. The word count is computed locally; the
// model supplies the judgment scores.
func (s *OpenAIScorer) Score(ctx context.Context, transcript string) (*Result, error) {
	chatModel := s.model
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model:     chatModel,
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	var parsed scoreResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("parse score response: %w", err)
	}

	return &Result{
		Metrics: model.AnalysisMetrics{
			WordCount:       len(strings.Fields(transcript)),
			ClarityScore:    clampScore(parsed.ClarityScore),
			StructureScore:  clampScore(parsed.StructureScore),
			FillerWordCount: max(parsed.FillerWordCount, 0),
		},
		Summary:  parsed.Summary,
		Feedback: parsed.Feedback,
	}, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
