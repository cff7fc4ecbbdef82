package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/resume-profiler/internal/config"
	"github.com/fadilmartias/resume-profiler/internal/logger"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const openRouterSystemPrompt = "You extract structured data from resumes and reply with a single JSON object."

type OpenRouterService struct {
	client *resty.Client
	model  string
	logger *zap.Logger
}

func NewOpenRouterService(cfg *config.OpenRouterConfig, l *zap.Logger) (*OpenRouterService, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENROUTER_API_KEY not set", ErrNotConfigured)
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(90 * time.Second)

	return &OpenRouterService{
		client: client,
		model:  cfg.Model,
		logger: logger.WithFields(l, logger.CommonFields(config.ProviderOpenRouter, cfg.Model)...),
	}, nil
}

func (s *OpenRouterService) Provider() string {
	return config.ProviderOpenRouter
}

func (s *OpenRouterService) Model() string {
	return s.model
}

func (s *OpenRouterService) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model":       s.model,
			"temperature": 0.1,
			"response_format": map[string]string{
				"type": "json_object",
			},
			"messages": []map[string]string{
				{"role": "system", "content": openRouterSystemPrompt},
				{"role": "user", "content": prompt},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}

	body := resp.String()
	if resp.IsError() {
		msg := gjson.Get(body, "error.message").String()
		if msg == "" {
			msg = logger.TruncateForLog(body, 200)
		}
		return "", fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode(), msg)
	}

	text := gjson.Get(body, "choices.0.message.content").String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no response from LLM")
	}

	s.logger.Debug("openrouter reply received",
		zap.Int("status", resp.StatusCode()),
		zap.String("reply", logger.TruncateForLog(text, 200)),
	)
	return text, nil
}
