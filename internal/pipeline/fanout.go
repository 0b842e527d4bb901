package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/weather-series-etl/internal/domain"
)

// FanoutLoader loads every batch into each loader in order and stops at the
// first failure. Put the durable sink first so secondary loaders only see
// batches it accepted.
type FanoutLoader []BatchLoader

func (f FanoutLoader) LoadBatch(ctx context.Context, events []domain.SeriesEvent) error {
	for i, l := range f {
		if err := l.LoadBatch(ctx, events); err != nil {
			return fmt.Errorf("loader %d: %w", i, err)
		}
	}
	return nil
}
