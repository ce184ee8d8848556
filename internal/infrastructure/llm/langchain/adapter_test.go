package langchain

import (
	"context"
	"errors"
	"testing"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
	"galaxy-recommender/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeGenerator struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	resp     *llms.ContentResponse
	err      error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	return f.resp, f.err
}

func TestConvertMessages(t *testing.T) {
	msgs := convertMessages([]entity.Message{
		{Role: entity.RoleSystem, Content: "sys"},
		{Role: entity.RoleUser, Content: "align?"},
		{Role: entity.RoleAssistant, ToolCalls: []entity.ToolCall{entity.NewToolCall(0, "c1", "tool_search", `{"query":"x"}`)}},
		{Role: entity.RoleTool, Content: "[]", ToolCallID: "c1", Name: "tool_search"},
		{Role: entity.RoleAssistant, Content: "done"},
	})

	require.Len(t, msgs, 5)
	assert.Equal(t, llms.ChatMessageTypeSystem, msgs[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, msgs[1].Role)

	require.Len(t, msgs[2].Parts, 1)
	call, ok := msgs[2].Parts[0].(llms.ToolCall)
	require.True(t, ok)
	assert.Equal(t, "c1", call.ID)
	assert.Equal(t, "tool_search", call.FunctionCall.Name)

	resp, ok := msgs[3].Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, llms.ChatMessageTypeTool, msgs[3].Role)
	assert.Equal(t, "c1", resp.ToolCallID)
	assert.Equal(t, "[]", resp.Content)

	assert.Equal(t, []llms.ContentPart{llms.TextContent{Text: "done"}}, msgs[4].Parts)
}

func TestChat_AppliesOptionsAndConvertsToolCalls(t *testing.T) {
	gen := &fakeGenerator{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{
			{ID: "call_1", Type: "function", FunctionCall: &llms.FunctionCall{Name: "tool_search", Arguments: `{"query":"bwa"}`}},
			{ID: "call_2"},
		},
	}}}}
	a := newAdapter(gen, "default-model", logger.NewNop())

	resp, err := a.Chat(context.Background(), output.ChatRequest{
		Model:       "override",
		Temperature: 0.5,
		Messages:    []entity.Message{{Role: entity.RoleUser, Content: "bwa?"}},
		Tools:       []entity.ToolDefinition{{Name: "tool_search", Description: "search"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "override", gen.opts.Model)
	assert.InDelta(t, 0.5, gen.opts.Temperature, 1e-9)
	require.Len(t, gen.opts.Tools, 1)
	assert.Equal(t, "tool_search", gen.opts.Tools[0].Function.Name)

	require.Len(t, resp.Message.ToolCalls, 2)
	assert.Equal(t, entity.NewToolCall(0, "call_1", "tool_search", `{"query":"bwa"}`), resp.Message.ToolCalls[0])
	assert.Equal(t, "tool_search", resp.Message.ToolCalls[1].Function.Name)
	assert.Equal(t, "{}", resp.Message.ToolCalls[1].Function.Arguments)
}

func TestChat_DefaultModelAndErrors(t *testing.T) {
	gen := &fakeGenerator{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "hi"}}}}
	a := newAdapter(gen, "default-model", nil)

	resp, err := a.Chat(context.Background(), output.ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "default-model", gen.opts.Model)
	assert.Equal(t, "hi", resp.Message.Content)
	assert.Nil(t, gen.opts.Tools)

	boom := errors.New("rate limited")
	_, err = newAdapter(&fakeGenerator{err: boom}, "m", nil).Chat(context.Background(), output.ChatRequest{})
	assert.ErrorIs(t, err, boom)

	_, err = newAdapter(&fakeGenerator{resp: &llms.ContentResponse{}}, "m", nil).Chat(context.Background(), output.ChatRequest{})
	assert.Error(t, err)
}
