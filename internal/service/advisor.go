package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
)

// DefaultPromptTemplate is used when no prompt template file is present
const DefaultPromptTemplate = `You are helping users find Hong Kong whole life insurance plans.
Answer the user's question and extract any plan search criteria they mention.
Respond only with a JSON object of the form:
{"response": "<your answer>", "insurance_criteria": {"coverage_type": "...", "age": ..., "gender": "...", "smoker_status": "...", "monthly_budget": ...}}
Leave "insurance_criteria" empty ({}) unless the user is asking to find or recommend plans.`

// ErrEmptyAdvice is returned when the model reply has no content
var ErrEmptyAdvice = errors.New("advisory reply is empty")

// OpenAIAdvisor answers chat turns through an OpenAI-compatible chat completion endpoint
type OpenAIAdvisor struct {
	client       AIClient
	systemPrompt string
	template     string
	logger       *zap.Logger
}

// NewOpenAIAdvisor creates an advisor. template is prepended to every prompt.
func NewOpenAIAdvisor(client AIClient, systemPrompt, template string, logger *zap.Logger) *OpenAIAdvisor {
	return &OpenAIAdvisor{
		client:       client,
		systemPrompt: systemPrompt,
		template:     template,
		logger:       logger,
	}
}

// LoadPromptTemplate reads the prompt template at path, falling back to DefaultPromptTemplate
// when the file does not exist.
func LoadPromptTemplate(path string, logger *zap.Logger) string {
	if path == "" {
		return DefaultPromptTemplate
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to read prompt template, using default",
				zap.String("path", path),
				zap.Error(err))
		}
		return DefaultPromptTemplate
	}
	template := strings.TrimSpace(string(data))
	if template == "" {
		return DefaultPromptTemplate
	}
	return template
}

// Advise sends prompt to the model and returns the raw reply text
func (a *OpenAIAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	if a.client == nil || !a.client.IsEnabled() {
		return "", ErrAIDisabled
	}

	req := ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: a.systemPrompt},
			{Role: "user", Content: fmt.Sprintf("%s\n\nUser Query: %s", a.template, prompt)},
		},
	}

	resp, err := a.client.ChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("advisory request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyAdvice
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyAdvice
	}
	return content, nil
}
