package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-series-etl/internal/domain"
	"github.com/couchcryptid/weather-series-etl/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw provider payload into a normalized series event.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.SeriesEvent, error)
}

// BatchLoader writes multiple series events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.SeriesEvent) error
}

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has loaded at least one series.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any series yet")
	}
	return nil
}

// Run executes the batch ETL loop until the context is cancelled. Extract and
// load failures are retried with a growing delay; transform failures are
// committed and dropped.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	retry := newRetryDelay(200*time.Millisecond, 5*time.Second)
	for ctx.Err() == nil {
		if err := p.runOnce(ctx, retry); err != nil && !retry.wait(ctx) {
			break
		}
	}
	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

// runOnce handles a single batch. A non-nil error means the batch must be
// retried after a delay.
func (p *Pipeline) runOnce(ctx context.Context, retry *retryDelay) error {
	start := time.Now()

	raws, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("extract batch failed", "error", err)
		}
		return err
	}
	if len(raws) == 0 {
		return nil
	}
	p.metrics.MessagesConsumed.Add(float64(len(raws)))
	p.metrics.BatchSize.Observe(float64(len(raws)))
	retry.reset()

	events, sources := p.transformAll(ctx, raws)
	if len(events) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, events); err != nil {
		if ctx.Err() == nil {
			p.logger.Error("load batch failed", "error", err, "batch_size", len(events))
		}
		return err
	}
	p.metrics.MessagesProduced.Add(float64(len(events)))
	for _, raw := range sources {
		p.commitOffset(ctx, raw)
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return nil
}

// transformAll normalizes every payload in the batch. It returns the series
// events and, index aligned, the raw events they came from. Payloads that
// fail are committed here so they are not redelivered.
func (p *Pipeline) transformAll(ctx context.Context, raws []domain.RawEvent) ([]domain.SeriesEvent, []domain.RawEvent) {
	events := make([]domain.SeriesEvent, 0, len(raws))
	sources := make([]domain.RawEvent, 0, len(raws))
	for _, raw := range raws {
		event, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("skipping payload that failed to normalize",
				"error", err,
				"provider", raw.Provider(),
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.WithLabelValues(errorReason(err)).Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		events = append(events, event)
		sources = append(sources, raw)
	}
	return events, sources
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

// errorReason buckets a transform error for the transform_errors_total label.
func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, domain.ErrUnknownProvider):
		return "unknown_provider"
	default:
		return "other"
	}
}

// retryDelay is an exponential delay between failed batches.
type retryDelay struct {
	initial, limit, current time.Duration
}

func newRetryDelay(initial, limit time.Duration) *retryDelay {
	return &retryDelay{initial: initial, limit: limit, current: initial}
}

func (r *retryDelay) reset() { r.current = r.initial }

// wait sleeps for the current delay and doubles it, capped at the limit. It
// returns false if ctx ends first.
func (r *retryDelay) wait(ctx context.Context) bool {
	timer := time.NewTimer(r.current)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}
	r.current = min(r.current*2, r.limit)
	return true
}
