package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"proforma/config"
	"proforma/internal/models"
	"proforma/internal/proforma"
)

var ErrBatchTooLarge = errors.New("batch exceeds maximum size")

// BatchItem is the outcome for one scenario of a batch
type BatchItem struct {
	Index    int           `json:"index"`
	Result   models.Result `json:"result"`
	Replaced []string      `json:"replaced"`
}

// BatchProcessor calculates many proforma scenarios with a bounded pool of workers
type BatchProcessor struct {
	logger  *logrus.Logger
	workers int
	maxSize int
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(cfg *config.Config, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
	}
	return &BatchProcessor{
		logger:  logger,
		workers: max(1, cfg.BatchProcessing.ProcessorCount),
		maxSize: cfg.BatchProcessing.MaxBatchSize,
	}
}

// MaxBatchSize is the largest batch Process accepts
func (p *BatchProcessor) MaxBatchSize() int {
	return p.maxSize
}

// Process coerces and calculates every raw scenario. Items keep the order of
// the batch. A cancelled context stops feeding workers and fails the batch.
func (p *BatchProcessor) Process(ctx context.Context, batch []map[string]any) ([]BatchItem, error) {
	if len(batch) > p.maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(batch), p.maxSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	items := make([]BatchItem, len(batch))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < min(p.workers, len(batch)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				items[idx] = calculate(idx, batch[idx])
			}
		}()
	}

	var err error
feed:
	for i := range batch {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	p.logger.WithField("batch_size", len(batch)).Debug("Processed batch")
	return items, nil
}

func calculate(idx int, raw map[string]any) BatchItem {
	in, rejected := proforma.CoerceWithReport(raw)
	if rejected == nil {
		rejected = []string{}
	}
	return BatchItem{
		Index:    idx,
		Result:   proforma.Calculate(in),
		Replaced: rejected,
	}
}
