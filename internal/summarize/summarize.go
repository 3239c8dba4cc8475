// Package summarize optionally condenses an extracted article through an
// OpenAI-compatible chat endpoint.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal interface needed to call a chat model. It mirrors the
// CreateChatCompletion method so that any OpenAI-compatible or local backend
// can be adapted.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// maxInputChars caps how much article text is sent to the model; anything
// beyond it adds cost without improving a short summary.
const maxInputChars = 12000

const systemMessage = "You summarize web articles. Reply with a concise plain-text " +
	"summary of the article's main points in at most five sentences. Do not add " +
	"commentary or formatting."

// Summarizer produces a short plain-text summary of an article.
type Summarizer struct {
	Client Client
	Model  string
}

// Summarize sends the article to the model and returns its summary.
func (s *Summarizer) Summarize(ctx context.Context, title, text string) (string, error) {
	if s == nil || s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return "", errors.New("summarizer not configured")
	}
	body := truncate(text, maxInputChars)
	user := fmt.Sprintf("Title: %s\n\n%s", title, body)

	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("summary call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("summary: empty response")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("summary: empty response")
	}
	return out, nil
}

// truncate cuts s to at most max bytes without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// NewOpenAIClient builds a client for an OpenAI-compatible endpoint.
func NewOpenAIClient(baseURL, apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
