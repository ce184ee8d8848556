package entity

import (
	"time"
)

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// Message is one persisted conversation turn. Which fields carry meaning
// depends on Role: ToolCalls only on assistant messages, ToolCallID only on
// tool messages.
type Message struct {
	ID         string      `json:"id"`
	Role       MessageRole `json:"role"`
	Content    string      `json:"content"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	Name       string      `json:"name,omitempty"`
	Refusal    string      `json:"refusal,omitempty"`
	Reasoning  string      `json:"reasoning,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func NewToolMessage(result ToolResult) Message {
	return Message{
		Role:       RoleTool,
		Content:    result.Content,
		ToolCallID: result.CallID,
		Name:       result.Name.String(),
	}
}

type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}
