package output

import (
	"context"

	"galaxy-recommender/internal/domain/entity"
)

type CatalogSource interface {
	ListTools(ctx context.Context) ([]entity.CatalogEntry, error)
}
