// Package routing orchestrates batch routing runs: many orders evaluated
// against one immutable catalog snapshot, with bounded concurrency,
// per-order error capture and progress reporting.
package routing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"supplier-routing-service/internal/engine"
	"supplier-routing-service/internal/models"
	"supplier-routing-service/pkg/errors"
	"supplier-routing-service/pkg/logger"
)

// BatchRequest describes one batch routing run. The catalog is treated as
// a read-only snapshot for the duration of the run; callers editing the
// catalog must pass a copy.
type BatchRequest struct {
	Orders  []*models.Order
	Catalog []models.Supplier

	// Concurrency bounds the number of orders routed at once.
	// Zero or negative selects DefaultConcurrency.
	Concurrency int
}

// DefaultConcurrency is the worker bound applied when a request does not
// set one. A single routing pass is cheap; this mostly matters for very
// large order exports.
const DefaultConcurrency = 8

// OrderResult is the outcome of routing a single order in a batch. Exactly
// one of Match or Err is meaningful: an invalid order carries Err, every
// routable order carries a Match (possibly the no-supplier result).
type OrderResult struct {
	Index int                 `json:"index"`
	Order *models.Order       `json:"order"`
	Match *models.MatchResult `json:"match,omitempty"`
	Err   error               `json:"-"`
}

// BatchSummary aggregates a batch run
type BatchSummary struct {
	TotalOrders   int           `json:"total_orders"`
	Matched       int           `json:"matched"`
	Unmatched     int           `json:"unmatched"`
	InvalidOrders int           `json:"invalid_orders"`
	Duration      time.Duration `json:"duration"`
}

// String returns a human-readable summary
func (bs *BatchSummary) String() string {
	return fmt.Sprintf("Routed %d orders: %d matched, %d unmatched, %d invalid in %v",
		bs.TotalOrders, bs.Matched, bs.Unmatched, bs.InvalidOrders, bs.Duration)
}

// BatchResult holds the per-order results, in input order, plus the summary
type BatchResult struct {
	Results []OrderResult `json:"results"`
	Summary *BatchSummary `json:"summary"`
}

// ProgressCallback receives completed/total counts as the batch advances
type ProgressCallback func(completed, total int)

// Service runs batch routing over an engine
type Service struct {
	engine    *engine.Engine
	logger    logger.Logger
	callbacks []ProgressCallback
	mutex     sync.Mutex
}

// NewService creates a batch routing service around an engine
func NewService(eng *engine.Engine) *Service {
	return &Service{
		engine: eng,
		logger: logger.GetGlobalLogger().WithComponent("routing"),
	}
}

// AddProgressCallback registers a progress callback. Callbacks may be
// invoked from worker goroutines but never concurrently with each other.
func (s *Service) AddProgressCallback(callback ProgressCallback) {
	s.callbacks = append(s.callbacks, callback)
}

// RouteBatch routes every order in the request. Invalid orders are captured
// in their result slot and never abort the batch. The context cancels
// scheduling of not-yet-started orders; in-flight evaluations run to
// completion since a single pass is sub-millisecond.
func (s *Service) RouteBatch(ctx context.Context, req *BatchRequest) (*BatchResult, error) {
	if req == nil || len(req.Orders) == 0 {
		return nil, errors.ValidationError(errors.CodeMissingField, "orders", "empty", nil)
	}

	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(req.Orders) {
		concurrency = len(req.Orders)
	}

	start := time.Now()
	tracker := logger.NewProgressTracker(logger.ProgressConfig{
		Operation: "route_batch",
		Total:     int64(len(req.Orders)),
		Logger:    s.logger,
	})

	results := make([]OrderResult, len(req.Orders))
	indexes := make(chan int)
	completed := 0

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = s.routeOne(i, req.Orders[i], req.Catalog)
				tracker.Increment()

				s.mutex.Lock()
				completed++
				done := completed
				s.mutex.Unlock()
				s.notifyProgress(done, len(req.Orders))
			}
		}()
	}

	var cancelled error
feed:
	for i := range req.Orders {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if cancelled != nil {
		tracker.CompleteWithError(cancelled)
		return nil, errors.Wrap(cancelled, errors.CategoryInternal, errors.CodeUnexpectedError,
			"batch routing cancelled")
	}
	tracker.Complete()

	result := &BatchResult{
		Results: results,
		Summary: s.summarize(results, time.Since(start)),
	}

	s.logger.Info(result.Summary.String())
	return result, nil
}

func (s *Service) routeOne(index int, order *models.Order, catalog []models.Supplier) OrderResult {
	match, err := s.engine.Route(order, catalog)
	if err != nil {
		s.logger.WithError(err).WithField("order_index", index).Warn("Order rejected")
		return OrderResult{Index: index, Order: order, Err: err}
	}

	return OrderResult{Index: index, Order: order, Match: match}
}

func (s *Service) notifyProgress(completed, total int) {
	if len(s.callbacks) == 0 {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, callback := range s.callbacks {
		callback(completed, total)
	}
}

func (s *Service) summarize(results []OrderResult, duration time.Duration) *BatchSummary {
	summary := &BatchSummary{
		TotalOrders: len(results),
		Duration:    duration,
	}

	for i := range results {
		switch {
		case results[i].Err != nil:
			summary.InvalidOrders++
		case results[i].Match != nil && results[i].Match.Matched:
			summary.Matched++
		default:
			summary.Unmatched++
		}
	}

	return summary
}
