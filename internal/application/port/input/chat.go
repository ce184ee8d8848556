package input

import (
	"context"

	"galaxy-recommender/internal/domain/entity"
)

type TurnOptions struct {
	Model   string
	OnEvent entity.EventHandler
}

type ChatService interface {
	Turn(ctx context.Context, userText string, opts TurnOptions) (string, error)
	History(ctx context.Context) ([]entity.Message, error)
}
