package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"booking-assistant/internal/application/port/output"
	"booking-assistant/internal/domain/entity"
	"booking-assistant/internal/infrastructure/prompts"
)

var _ output.FieldMapperPort = (*Mapper)(nil)

// Mapper asks a language model to reconcile the profile against the
// observed fields. It talks to any OpenAI-compatible endpoint; the default
// configuration targets OpenRouter.
type Mapper struct {
	client *openai.Client
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://openrouter.ai/api/v1",
	}
}

func NewMapper(cfg Config, logger output.LoggerPort) *Mapper {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Mapper{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// mapperResponse is the JSON shape the prompt instructs the model to emit.
type mapperResponse struct {
	Assignments []struct {
		FieldID string `json:"field_id"`
		Value   string `json:"value"`
		Action  string `json:"action"`
	} `json:"assignments"`
	MissingFields []string `json:"missing_fields"`
}

func (m *Mapper) Map(ctx context.Context, profile *entity.UserProfile, fields []entity.FormField) (*output.FieldMapping, error) {
	payload, err := json.Marshal(map[string]any{
		"profile": profile,
		"fields":  fields,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal mapper payload: %w", err)
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.FieldMapperPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
		Temperature: 0.0,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	parsed, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parse mapper response: %w", err)
	}

	mapping := &output.FieldMapping{MissingLabels: parsed.MissingFields}
	for _, a := range parsed.Assignments {
		action, err := actionKind(a.Action)
		if err != nil {
			return nil, err
		}
		mapping.Assignments = append(mapping.Assignments, entity.FieldAssignment{
			FieldID: a.FieldID,
			Value:   a.Value,
			Action:  action,
		})
	}

	m.logger.Info("LLM mapping completed",
		"model", m.model,
		"assignments", len(mapping.Assignments),
		"missing", len(mapping.MissingLabels))

	return mapping, nil
}

// parseResponse tolerates models that wrap the JSON in a markdown fence.
func parseResponse(content string) (*mapperResponse, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	var parsed mapperResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func actionKind(s string) (entity.ActionKind, error) {
	switch entity.ActionKind(s) {
	case entity.ActionType, entity.ActionSelect, entity.ActionClick:
		return entity.ActionKind(s), nil
	case "":
		return entity.ActionType, nil
	default:
		return "", fmt.Errorf("unknown action kind %q", s)
	}
}
