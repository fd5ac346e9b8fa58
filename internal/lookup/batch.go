package lookup

import (
	"context"
	"proplookup/pkg/domain"
	"proplookup/pkg/logger"
	"proplookup/pkg/serrors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunBatch looks up the first MaxRows rows, at most Concurrency at a time.
// Rows past the cap are dropped silently. Rows whose lookup failed are
// reported in Errors with their index and content; the rest are returned in
// Results in input order.
func (s *service) RunBatch(ctx context.Context, rows []domain.RawAddressInput) domain.BatchOutcome {
	out := domain.BatchOutcome{
		ID:      uuid.NewString(),
		Results: []domain.LookupResult{},
		Errors:  []domain.RowError{},
	}
	ctx = logger.WithFields(ctx, zap.String("batchID", out.ID))
	ctx, span := s.tracer.Start(ctx, "lookup.RunBatch",
		trace.WithAttributes(attribute.String("batch.id", out.ID), attribute.Int("batch.rows", len(rows))))
	defer span.End()

	dropped := 0
	if len(rows) > s.options.MaxRows {
		dropped = len(rows) - s.options.MaxRows
		rows = rows[:s.options.MaxRows]
		logger.Info(ctx, "batch truncated", zap.Int("maxRows", s.options.MaxRows), zap.Int("dropped", dropped))
	}

	results := make([]domain.LookupResult, len(rows))
	var g errgroup.Group
	g.SetLimit(s.options.Concurrency)
	for i, row := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = domain.LookupResult{
					Input: row.String(),
					Error: domain.NewLookupError(serrors.Wrap(serrors.ErrTimeout, err, "batch cancelled")),
				}

				return nil
			}
			results[i] = s.Lookup(logger.WithFields(ctx, zap.Int("row", i)), row)

			return nil
		})
	}
	_ = g.Wait()

	for i, res := range results {
		if res.Error != nil {
			out.Errors = append(out.Errors, domain.RowError{
				Row:     i,
				Input:   rows[i].String(),
				Kind:    res.Error.Kind,
				Message: res.Error.Message,
			})

			continue
		}
		out.Results = append(out.Results, res)
	}

	s.metrics.Batch(ctx, len(out.Results), len(out.Errors), dropped)
	logger.Info(ctx, "batch completed",
		zap.Int("results", len(out.Results)),
		zap.Int("errors", len(out.Errors)),
		zap.Int("dropped", dropped))

	return out
}
