package prompts

import (
	"strings"
	"testing"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
)

type mockToolRegistry struct {
	defs []entity.ToolDefinition
}

func (r *mockToolRegistry) Register(tool output.ToolPort, aliases ...entity.ToolName) {}

func (r *mockToolRegistry) Get(name entity.ToolName) (output.ToolPort, bool) {
	return nil, false
}

func (r *mockToolRegistry) All() []output.ToolPort {
	return nil
}

func (r *mockToolRegistry) Definitions() []entity.ToolDefinition {
	return r.defs
}

func TestGenerateSystemPrompt(t *testing.T) {
	registry := &mockToolRegistry{defs: []entity.ToolDefinition{
		{Name: "tool_search", Description: "Search Galaxy tools"},
	}}

	result, err := GenerateSystemPrompt(SystemPromptTemplate, registry)
	if err != nil {
		t.Fatalf("GenerateSystemPrompt failed: %v", err)
	}

	if !strings.Contains(result, "`tool_search` function") {
		t.Error("Result should contain base instruction text")
	}

	if !strings.Contains(result, "- tool_search: Search Galaxy tools") {
		t.Error("Result should list the tool_search function")
	}
}

func TestGenerateSystemPromptEmptyRegistry(t *testing.T) {
	result, err := GenerateSystemPrompt(SystemPromptTemplate, &mockToolRegistry{})
	if err != nil {
		t.Fatalf("GenerateSystemPrompt failed: %v", err)
	}

	if strings.Contains(result, "Available functions") {
		t.Error("Empty registry should not render the functions section")
	}
}

func TestGenerateSystemPromptNilRegistry(t *testing.T) {
	if _, err := GenerateSystemPrompt("static prompt", nil); err != nil {
		t.Fatalf("GenerateSystemPrompt failed: %v", err)
	}
}

func TestGenerateSystemPromptInvalidTemplate(t *testing.T) {
	_, err := GenerateSystemPrompt(`Test {{.InvalidField}}`, &mockToolRegistry{})
	if err == nil {
		t.Error("Expected error for invalid template, got nil")
	}
}
