package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// GroqOptions configures a GroqClient. Zero Timeout means no per-call limit.
type GroqOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
}

// GroqClient implements Collaborator against an OpenAI-compatible chat
// completions endpoint (Groq by default).
type GroqClient struct {
	client *openai.Client
	opts   GroqOptions
}

var _ Collaborator = (*GroqClient)(nil)

func NewGroqClient(opts GroqOptions) *GroqClient {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	return &GroqClient{client: openai.NewClientWithConfig(cfg), opts: opts}
}

const subtasksSystemPrompt = `You are a productivity assistant that breaks a task into small, concrete, actionable steps.
Reply with a JSON object only, in the form {"subtasks":[{"title":"...","description":"..."}]}.
Titles are short imperative phrases under 100 characters. Descriptions are one sentence.`

const translateSystemPrompt = `You are a professional translator. Translate the user's text into the requested language.
Reply with the translation only: no quotes, notes or explanations. Keep the meaning and tone.`

func (c *GroqClient) GenerateSubtasks(ctx context.Context, title, description string, maxCount int) ([]SubtaskSuggestion, error) {
	if maxCount <= 0 {
		maxCount = DefaultMaxSubtasks
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", title)
	if description != "" {
		fmt.Fprintf(&b, "Details: %s\n", description)
	}
	fmt.Fprintf(&b, "Suggest at most %d subtasks in the order they should be done.", maxCount)

	reply, err := c.complete(ctx, subtasksSystemPrompt, b.String(), true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return parseSubtasks(reply, maxCount)
}

func (c *GroqClient) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	prompt := fmt.Sprintf("Target language: %s\nText:\n%s", targetLanguage, text)
	reply, err := c.complete(ctx, translateSystemPrompt, prompt, false)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranslationFailed, err)
	}
	return parseTranslation(reply)
}

func (c *GroqClient) complete(ctx context.Context, system, user string, jsonReply bool) (string, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	}
	if jsonReply {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("provider returned %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
