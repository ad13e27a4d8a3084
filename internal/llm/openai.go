package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/osusume/osusume-backend/internal/conf"
	apperrors "github.com/osusume/osusume-backend/internal/pkg/errors"
	"github.com/osusume/osusume-backend/internal/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	defaultModel     = "gpt-4.1"
	defaultMaxTokens = 2000
	defaultTimeout   = 60 * time.Second
)

// OpenAIClient implements Client on top of the OpenAI chat-completion
// API. Deterministic by default: temperature 0, bounded max tokens.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *logger.Logger
}

// NewOpenAIClient creates an OpenAI-backed model client.
func NewOpenAIClient(cfg conf.LLMConfig, log *logger.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = logger.L()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		logger:      log.Named("llm"),
	}, nil
}

// Complete sends one chat completion and returns the assistant text.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		c.logger.Error("chat completion failed",
			zap.Error(err),
			zap.String("model", c.model))
		return "", apperrors.Wrap(err, apperrors.ErrLLMUnavailable)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.ErrLLMUnavailable, "empty completion response")
	}

	c.logger.Debug("chat completion succeeded",
		zap.String("model", c.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}
