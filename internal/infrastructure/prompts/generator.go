package prompts

import (
	"bytes"
	"text/template"

	"galaxy-recommender/internal/application/port/output"
)

type ToolInfo struct {
	Name        string
	Description string
}

type SystemPromptData struct {
	Tools []ToolInfo
}

// GenerateSystemPrompt renders baseTemplate with the registry's advertised
// tools. The result is computed once per process and replayed unchanged on
// every model call.
func GenerateSystemPrompt(baseTemplate string, registry output.ToolRegistry) (string, error) {
	var data SystemPromptData
	if registry != nil {
		for _, def := range registry.Definitions() {
			data.Tools = append(data.Tools, ToolInfo{
				Name:        def.Name,
				Description: def.Description,
			})
		}
	}

	tmpl, err := template.New("system").Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
