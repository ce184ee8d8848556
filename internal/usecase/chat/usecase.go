package chat

import (
	"context"
	"errors"
	"fmt"

	"galaxy-recommender/internal/application/port/input"
	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ input.ChatService = (*UseCase)(nil)

const DefaultMaxToolRounds = 8

// ErrToolRoundsExceeded is returned when the model keeps requesting tools
// past Config.MaxToolRounds within a single turn.
var ErrToolRoundsExceeded = errors.New("tool round limit exceeded")

type Config struct {
	// MaxToolRounds bounds the model responses that request tools per turn.
	// Zero or negative means no limit.
	MaxToolRounds int
	Temperature   float32
}

type UseCase struct {
	llm          output.LLMPort
	store        output.ConversationStore
	tools        output.ToolRegistry
	logger       output.LoggerPort
	systemPrompt string
	cfg          Config
	tracer       trace.Tracer
}

func New(
	llm output.LLMPort,
	store output.ConversationStore,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	systemPrompt string,
	cfg Config,
) *UseCase {
	return &UseCase{
		llm:          llm,
		store:        store,
		tools:        tools,
		logger:       logger,
		systemPrompt: systemPrompt,
		cfg:          cfg,
		tracer:       otel.Tracer("galaxy-recommender/usecase/chat"),
	}
}

func (uc *UseCase) Turn(ctx context.Context, userText string, opts input.TurnOptions) (string, error) {
	ctx, span := uc.tracer.Start(ctx, "chat.turn", trace.WithAttributes(
		attribute.String("chat.model", opts.Model),
		attribute.Int("chat.input_len", len(userText)),
	))
	defer span.End()

	reply, err := uc.turn(ctx, userText, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return reply, err
}

func (uc *UseCase) History(ctx context.Context) ([]entity.Message, error) {
	messages, err := uc.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return messages, nil
}

func (uc *UseCase) turn(ctx context.Context, userText string, opts input.TurnOptions) (string, error) {
	if err := uc.store.Add(ctx, entity.NewUserMessage(userText)); err != nil {
		return "", fmt.Errorf("failed to persist user message: %w", err)
	}

	stored, err := uc.store.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load conversation: %w", err)
	}

	messages := uc.projectHistory(stored)
	toolDefs := uc.tools.Definitions()

	toolRounds := 0
	for {
		uc.logger.Debug("Requesting completion", "messages", len(messages), "toolRounds", toolRounds)

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Model:       opts.Model,
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: uc.cfg.Temperature,
		})
		if err != nil {
			return "", fmt.Errorf("llm request failed: %w", err)
		}

		reply := assistantMessage(resp.Message)
		if err := uc.store.Add(ctx, reply); err != nil {
			return "", fmt.Errorf("failed to persist assistant message: %w", err)
		}
		messages = append(messages, reply)

		if len(reply.ToolCalls) == 0 {
			return reply.Content, nil
		}

		toolRounds++
		if uc.cfg.MaxToolRounds > 0 && toolRounds > uc.cfg.MaxToolRounds {
			uc.logger.Warn("Tool round limit reached", "limit", uc.cfg.MaxToolRounds)
			return "", fmt.Errorf("%w: %d", ErrToolRoundsExceeded, uc.cfg.MaxToolRounds)
		}

		for _, tc := range reply.ToolCalls {
			toolMsg, err := uc.runToolCall(ctx, tc, opts.OnEvent)
			if err != nil {
				return "", err
			}
			messages = append(messages, toolMsg)
		}
	}
}

func (uc *UseCase) runToolCall(ctx context.Context, tc entity.ToolCall, onEvent entity.EventHandler) (entity.Message, error) {
	req := tc.Request()

	uc.notify(ctx, onEvent, entity.TurnEvent{
		Type: entity.EventToolCall,
		Name: req.Name.String(),
		ID:   req.ID,
		Args: req.Args,
	})

	content, err := uc.dispatch(ctx, req)
	if err != nil {
		return entity.Message{}, err
	}

	msg := entity.NewToolMessage(entity.ToolResult{Name: req.Name, Content: content, CallID: req.ID})
	if err := uc.store.Add(ctx, msg); err != nil {
		return entity.Message{}, fmt.Errorf("failed to persist tool result: %w", err)
	}

	uc.notify(ctx, onEvent, entity.TurnEvent{
		Type:   entity.EventToolResult,
		Name:   req.Name.String(),
		ID:     req.ID,
		Result: content,
	})
	return msg, nil
}

func (uc *UseCase) dispatch(ctx context.Context, req entity.ToolCallRequest) (string, error) {
	tool, ok := uc.tools.Get(req.Name)
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", req.Name)
		return fmt.Sprintf("Unsupported tool: %s", req.Name), nil
	}

	ctx, span := uc.tracer.Start(ctx, "chat.tool", trace.WithAttributes(
		attribute.String("tool.name", req.Name.String()),
		attribute.String("tool.call_id", req.ID),
	))
	defer span.End()

	uc.logger.Info("Executing tool", "name", req.Name, "args", req.Args)

	result, err := tool.Execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.logger.Error("Tool execution failed", "name", req.Name, "error", err)
		return "", fmt.Errorf("tool %s failed: %w", req.Name, err)
	}

	uc.logger.Debug("Tool completed", "name", req.Name, "resultLen", len(result))
	return result, nil
}

// notify delivers an event without ever failing the turn.
func (uc *UseCase) notify(ctx context.Context, handler entity.EventHandler, ev entity.TurnEvent) {
	if handler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Warn("Event handler panicked", "event", ev.Type, "panic", r)
		}
	}()
	if err := handler(ctx, ev); err != nil {
		uc.logger.Warn("Event handler failed", "event", ev.Type, "error", err)
	}
}

// projectHistory rebuilds the model-visible history from storage: the system
// prompt followed by user and assistant text. Tool messages and stored tool
// calls are not replayed, so an assistant message that only requested tools
// has nothing left to send and is dropped.
func (uc *UseCase) projectHistory(stored []entity.Message) []entity.Message {
	messages := make([]entity.Message, 0, len(stored)+1)
	messages = append(messages, entity.Message{Role: entity.RoleSystem, Content: uc.systemPrompt})
	for _, m := range stored {
		switch m.Role {
		case entity.RoleUser:
			messages = append(messages, entity.Message{Role: m.Role, Content: m.Content})
		case entity.RoleAssistant:
			if m.Content == "" {
				continue
			}
			messages = append(messages, entity.Message{Role: m.Role, Content: m.Content})
		}
	}
	return messages
}

func assistantMessage(m entity.Message) entity.Message {
	reply := entity.Message{
		Role:      entity.RoleAssistant,
		Content:   m.Content,
		Refusal:   m.Refusal,
		Reasoning: m.Reasoning,
	}
	for i, tc := range m.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, entity.NewToolCall(i, tc.ID, tc.Function.Name, tc.Function.Arguments))
	}
	return reply
}
