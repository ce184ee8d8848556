package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"galaxy-recommender/internal/application/port/input"
	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
)

var _ input.CatalogIngester = (*UseCase)(nil)

const progressEvery = 100

type UseCase struct {
	source output.CatalogSource
	index  output.VectorIndex
	logger output.LoggerPort
	now    func() time.Time
}

func New(source output.CatalogSource, index output.VectorIndex, logger output.LoggerPort) *UseCase {
	return &UseCase{
		source: source,
		index:  index,
		logger: logger,
		now:    time.Now,
	}
}

// Run fetches the catalog once and upserts every entry by id. A failed entry
// is logged and counted; it never aborts the run.
func (uc *UseCase) Run(ctx context.Context) (*input.IngestReport, error) {
	start := uc.now()

	entries, err := uc.source.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	report := &input.IngestReport{Fetched: len(entries)}
	uc.logger.Info("Indexing tools", "total", len(entries))

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			report.Duration = uc.now().Sub(start)
			return report, err
		}

		if strings.TrimSpace(entry.ID) == "" {
			report.Skipped++
			uc.logger.Warn("Skipping tool without id", "name", entry.Name)
			continue
		}

		if err := uc.index.Upsert(ctx, entity.NewVectorRecord(entry)); err != nil {
			report.Failed++
			uc.logger.Error("Failed to upsert tool", "id", entry.ID, "name", entry.Name, "error", err)
			continue
		}
		report.Upserted++

		if (i+1)%progressEvery == 0 {
			uc.logger.Info("Indexing progress", "done", i+1, "total", len(entries))
		}
	}

	report.Duration = uc.now().Sub(start)
	uc.logger.Info("Indexing finished",
		"fetched", report.Fetched,
		"upserted", report.Upserted,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"duration", report.Duration,
	)
	return report, nil
}

// RunPeriodic runs immediately and then every interval until ctx is done.
// Failed runs are logged and retried on the next tick.
func (uc *UseCase) RunPeriodic(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		_, err := uc.Run(ctx)
		return err
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if _, err := uc.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			uc.logger.Error("Ingestion run failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
