package service

import (
	"sort"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
)

var _ output.ToolRegistry = (*ToolRegistryImpl)(nil)

// ToolRegistryImpl resolves tool names, including aliases, to tools. Only
// canonical names are advertised to the model.
type ToolRegistryImpl struct {
	tools   map[entity.ToolName]output.ToolPort
	aliases map[entity.ToolName]entity.ToolName
}

func NewToolRegistry() *ToolRegistryImpl {
	return &ToolRegistryImpl{
		tools:   make(map[entity.ToolName]output.ToolPort),
		aliases: make(map[entity.ToolName]entity.ToolName),
	}
}

func (r *ToolRegistryImpl) Register(tool output.ToolPort, aliases ...entity.ToolName) {
	r.tools[tool.Name()] = tool
	for _, alias := range aliases {
		r.aliases[alias] = tool.Name()
	}
}

func (r *ToolRegistryImpl) Get(name entity.ToolName) (output.ToolPort, bool) {
	if tool, ok := r.tools[name]; ok {
		return tool, true
	}
	if canonical, ok := r.aliases[name]; ok {
		tool, ok := r.tools[canonical]
		return tool, ok
	}
	return nil, false
}

func (r *ToolRegistryImpl) All() []output.ToolPort {
	result := make([]output.ToolPort, 0, len(r.tools))
	for _, name := range r.names() {
		result = append(result, r.tools[name])
	}
	return result
}

func (r *ToolRegistryImpl) Definitions() []entity.ToolDefinition {
	result := make([]entity.ToolDefinition, 0, len(r.tools))
	for _, tool := range r.All() {
		result = append(result, entity.ToolDefinition{
			Name:        tool.Name().String(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return result
}

func (r *ToolRegistryImpl) names() []entity.ToolName {
	names := make([]entity.ToolName, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
