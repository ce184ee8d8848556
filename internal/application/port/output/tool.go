package output

import (
	"context"

	"galaxy-recommender/internal/domain/entity"
)

type ToolPort interface {
	Name() entity.ToolName
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, req entity.ToolCallRequest) (string, error)
}

type ToolRegistry interface {
	Register(tool ToolPort, aliases ...entity.ToolName)
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
}
