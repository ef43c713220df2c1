package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using OpenAI's chat completion API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates a single text using OpenAI.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return req.Text, nil
	}

	userMessage, _ := json.Marshal(map[string]string{"text": req.Text})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: string(userMessage)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", &agrilingo.ProviderError{
			Message:    "OpenAI API call failed",
			Cause:      err,
			StatusCode: statusCode(err),
			Retryable:  isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &agrilingo.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return parseResponse(resp.Choices[0].Message.Content)
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	targetName := languageName(req.TargetLang)
	sourceName := languageName(sourceLang(req))

	prompt := fmt.Sprintf(`# Role
You translate short interface text for a farming dashboard used by farmers in India and abroad.

# Task
Translate the "text" value from %s into %s.

# Style Guide
- Use simple, everyday words a farmer would use, not formal or literary vocabulary.
- Keep agricultural terms (crop names, soil nutrients, units) accurate.
- Keep numbers, units, chemical symbols like (N), (P), (K) and placeholders unchanged.
- Preserve leading and trailing whitespace.`, sourceName, targetName)

	if agrilingo.IsRTL(req.TargetLang) {
		prompt += "\n- The target language is written right to left; do not add direction marks."
	}

	if format(req) == "html" {
		prompt += "\n- The text is HTML. Do NOT translate tags, attributes or URLs."
	}

	prompt += `

# Format
Return a valid JSON object with a single key "translation" containing the translated string.
Example: { "translation": "..." }
- Do NOT wrap in Markdown code blocks.`

	return prompt
}

func parseResponse(content string) (string, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(content), &obj); err == nil {
		if s, ok := obj["translation"].(string); ok && s != "" {
			return s, nil
		}
		// Fallback: first string value
		for _, v := range obj {
			if s, ok := v.(string); ok && s != "" {
				return s, nil
			}
		}
	}

	return "", &agrilingo.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

func languageName(code string) string {
	if l, ok := agrilingo.LookupLanguage(code); ok {
		return l.Name
	}
	return code
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func isRetryableError(err error) bool {
	if code := statusCode(err); code != 0 {
		return isRetryableStatus(code)
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
