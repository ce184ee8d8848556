package tool

import (
	"context"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
	"galaxy-recommender/internal/usecase/search"
)

var _ output.ToolPort = (*ToolSearchTool)(nil)

// Searcher is the slice of the search use case the tool depends on.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]entity.ToolSummary, error)
}

// ToolSearchTool exposes the Galaxy tool index to the model as tool_search.
type ToolSearchTool struct {
	searcher Searcher
	logger   output.LoggerPort
}

func NewToolSearchTool(searcher Searcher, logger output.LoggerPort) *ToolSearchTool {
	return &ToolSearchTool{
		searcher: searcher,
		logger:   logger,
	}
}

func (t *ToolSearchTool) Name() entity.ToolName {
	return entity.ToolSearch
}

func (t *ToolSearchTool) Description() string {
	return "Search the Galaxy tool catalog for tools relevant to a bioinformatics task. Returns name, description, version and owner of the best matches."
}

func (t *ToolSearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Natural language description of the analysis step or tool wanted",
			},
			"top_k": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of tools to return",
				"default":     search.DefaultTopK,
			},
		},
		"required": []string{"query"},
	}
}

// Execute accepts query or q and top_k or k. The result is the debug dump
// produced by search.Render.
func (t *ToolSearchTool) Execute(ctx context.Context, req entity.ToolCallRequest) (string, error) {
	query := req.String("query", "q")
	topK := req.Int(search.DefaultTopK, "top_k", "k")

	t.logger.Info("Searching tools", "query", query, "topK", topK)

	summaries, err := t.searcher.Search(ctx, query, topK)
	if err != nil {
		t.logger.Error("Tool search failed", "query", query, "error", err)
		return "", err
	}

	return search.Render(summaries), nil
}
