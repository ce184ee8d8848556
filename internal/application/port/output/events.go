package output

import (
	"context"

	"galaxy-recommender/internal/domain/entity"
)

type EventPublisher interface {
	Publish(ctx context.Context, ev entity.TurnEvent) error
	Close() error
}
