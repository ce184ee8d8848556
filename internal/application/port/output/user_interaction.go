package output

import "context"

type UserInteractionPort interface {
	ShowBanner(ctx context.Context)
	ShowUser(ctx context.Context, text string)
	ShowAgent(ctx context.Context, text string)
	ShowToolStart(ctx context.Context, toolName string, args map[string]any)
	ShowToolResult(ctx context.Context, toolName, result string)
	ShowError(ctx context.Context, err error)
	ShowInfo(ctx context.Context, text string)
}
