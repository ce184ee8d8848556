package entity

type ToolName string

const (
	ToolSearch ToolName = "tool_search"

	ToolSearchAliasPlural ToolName = "search_tools"
	ToolSearchAliasLegacy ToolName = "tool_search_tool"
)

// DefaultToolName is assumed when a provider returns a tool call without a
// function name.
const DefaultToolName = ToolSearch

func (t ToolName) String() string {
	return string(t)
}

const ToolTypeFunction = "function"

// ToolCall is the serialized form of a tool invocation as it is persisted
// inside the owning assistant message.
type ToolCall struct {
	Index    int          `json:"index"`
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewToolCall normalizes a provider tool call into its persisted shape.
// args may be JSON text, a mapping or nil.
func NewToolCall(index int, id, name string, args any) ToolCall {
	if name == "" {
		name = DefaultToolName.String()
	}
	return ToolCall{
		Index: index,
		ID:    id,
		Type:  ToolTypeFunction,
		Function: FunctionCall{
			Name:      name,
			Arguments: SerializeArguments(args),
		},
	}
}

// Request derives the transient, parsed form of the call.
func (tc ToolCall) Request() ToolCallRequest {
	name := tc.Function.Name
	if name == "" {
		name = DefaultToolName.String()
	}
	return ToolCallRequest{
		ID:   tc.ID,
		Name: ToolName(name),
		Args: ParseArguments(tc.Function.Arguments),
	}
}

// ToolCallRequest is never persisted directly.
type ToolCallRequest struct {
	ID   string
	Name ToolName
	Args map[string]any
}

type ToolResult struct {
	Name    ToolName
	Content string
	CallID  string
}
