package input

import (
	"context"
	"time"
)

type IngestReport struct {
	Fetched  int
	Upserted int
	Failed   int
	Skipped  int
	Duration time.Duration
}

type CatalogIngester interface {
	Run(ctx context.Context) (*IngestReport, error)
}
