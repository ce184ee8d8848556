package output

import (
	"context"

	"galaxy-recommender/internal/domain/entity"
)

type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest.Model overrides the adapter's configured model when set.
type ChatRequest struct {
	Model       string
	Messages    []entity.Message
	Tools       []entity.ToolDefinition
	Temperature float32
}

type ChatResponse struct {
	Message entity.Message
}
