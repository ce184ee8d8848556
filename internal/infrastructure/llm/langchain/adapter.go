package langchain

import (
	"context"
	"fmt"
	"time"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
	"galaxy-recommender/internal/infrastructure/httpclient"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var _ output.LLMPort = (*Adapter)(nil)

// generator is the part of llms.Model the adapter uses.
type generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Logger  output.LoggerPort
}

// Adapter drives an OpenAI-compatible endpoint through langchaingo.
type Adapter struct {
	llm    generator
	model  string
	logger output.LoggerPort
}

func New(cfg Config) (*Adapter, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(httpclient.New(cfg.Timeout, cfg.Logger)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain client: %w", err)
	}
	return newAdapter(llm, cfg.Model, cfg.Logger), nil
}

func newAdapter(llm generator, model string, logger output.LoggerPort) *Adapter {
	return &Adapter{llm: llm, model: model, logger: logger}
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	model := a.model
	if req.Model != "" {
		model = req.Model
	}

	options := []llms.CallOption{
		llms.WithModel(model),
		llms.WithTemperature(float64(req.Temperature)),
	}
	if tools := convertTools(req.Tools); len(tools) > 0 {
		options = append(options, llms.WithTools(tools))
	}

	if a.logger != nil {
		a.logger.Debug("Generating content", "model", model, "messagesCount", len(req.Messages), "toolsCount", len(req.Tools))
	}

	resp, err := a.llm.GenerateContent(ctx, convertMessages(req.Messages), options...)
	if err != nil {
		return nil, fmt.Errorf("generate content failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &output.ChatResponse{Message: convertChoice(resp.Choices[0])}, nil
}

func convertMessages(messages []entity.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case entity.RoleSystem:
			result = append(result, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		case entity.RoleUser:
			result = append(result, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case entity.RoleAssistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if msg.Content != "" || len(msg.ToolCalls) == 0 {
				mc.Parts = append(mc.Parts, llms.TextContent{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   tc.ID,
					Type: entity.ToolTypeFunction,
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Function.Name,
						Arguments: tc.Function.Arguments,
					},
				})
			}
			result = append(result, mc)
		case entity.RoleTool:
			result = append(result, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: msg.ToolCallID,
					Name:       msg.Name,
					Content:    msg.Content,
				}},
			})
		}
	}
	return result
}

func convertTools(tools []entity.ToolDefinition) []llms.Tool {
	result := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, llms.Tool{
			Type: entity.ToolTypeFunction,
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return result
}

func convertChoice(choice *llms.ContentChoice) entity.Message {
	result := entity.Message{
		Role:    entity.RoleAssistant,
		Content: choice.Content,
	}
	for i, tc := range choice.ToolCalls {
		var name, args string
		if tc.FunctionCall != nil {
			name = tc.FunctionCall.Name
			args = tc.FunctionCall.Arguments
		}
		result.ToolCalls = append(result.ToolCalls, entity.NewToolCall(i, tc.ID, name, args))
	}
	return result
}
