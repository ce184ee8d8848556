package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
	"galaxy-recommender/internal/infrastructure/logger"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertResponseMessage_WithContent(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "Hello, world!",
		Refusal: "",
	}

	result := convertResponseMessage(msg)

	assert.Equal(t, entity.RoleAssistant, result.Role)
	assert.Equal(t, "Hello, world!", result.Content)
	assert.Empty(t, result.ToolCalls)
}

func TestConvertResponseMessage_WithToolCalls(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role: "assistant",
		ToolCalls: []openai.ToolCall{
			{
				ID:   "call_123",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "tool_search",
					Arguments: `{"query":"align reads"}`,
				},
			},
			{
				ID:       "call_124",
				Function: openai.FunctionCall{},
			},
		},
	}

	result := convertResponseMessage(msg)

	require.Len(t, result.ToolCalls, 2)
	assert.Equal(t, entity.NewToolCall(0, "call_123", "tool_search", `{"query":"align reads"}`), result.ToolCalls[0])
	assert.Equal(t, "tool_search", result.ToolCalls[1].Function.Name)
	assert.Equal(t, "{}", result.ToolCalls[1].Function.Arguments)
	assert.Equal(t, 1, result.ToolCalls[1].Index)
}

func TestConvertMessages_ToolExchange(t *testing.T) {
	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: "sys"},
		{Role: entity.RoleUser, Content: "align?"},
		{Role: entity.RoleAssistant, ToolCalls: []entity.ToolCall{entity.NewToolCall(0, "c1", "tool_search", `{"query":"x"}`)}},
		{Role: entity.RoleTool, Content: "[]", ToolCallID: "c1", Name: "tool_search"},
	}

	result := convertMessages(messages)

	require.Len(t, result, 4)
	assert.Equal(t, "system", result[0].Role)
	require.Len(t, result[2].ToolCalls, 1)
	assert.Equal(t, "tool_search", result[2].ToolCalls[0].Function.Name)
	assert.Equal(t, openai.ToolTypeFunction, result[2].ToolCalls[0].Type)
	assert.Equal(t, "c1", result[3].ToolCallID)
	assert.Equal(t, "tool_search", result[3].Name)
}

func TestChat_RoundTrip(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "gen-1",
			"object": "chat.completion",
			"model": "openai/gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "tool_search", "arguments": "{\"query\":\"bwa\"}"}}]
				}
			}]
		}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig("secret", "default-model")
	cfg.BaseURL = srv.URL
	cfg.Logger = logger.NewNop()
	adapter := NewOpenRouterAdapter(cfg)

	resp, err := adapter.Chat(context.Background(), output.ChatRequest{
		Model:    "override-model",
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "bwa?"}},
		Tools:    []entity.ToolDefinition{{Name: "tool_search", Parameters: map[string]interface{}{"type": "object"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "override-model", got.Model)
	require.Len(t, got.Tools, 1)
	assert.Equal(t, "tool_search", got.Tools[0].Function.Name)

	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.Message.ToolCalls[0].ID)
	assert.JSONEq(t, `{"query":"bwa"}`, resp.Message.ToolCalls[0].Function.Arguments)
}

func TestChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "gen-2", "choices": []}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig("secret", "m")
	cfg.BaseURL = srv.URL
	_, err := NewOpenRouterAdapter(cfg).Chat(context.Background(), output.ChatRequest{})
	assert.Error(t, err)
}
