// Package worker runs background jobs off the request path.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/pathshala/backend/internal/application/common"
	"github.com/pathshala/backend/internal/domain/centre"
	"github.com/pathshala/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const maxCreditRetries = 3

// TargetCreditWorker applies sales-target credits asynchronously so the
// admission path never waits on target bookkeeping. Credits arrive on a
// buffered channel; a full channel drops the credit with a loud log
// rather than blocking the caller.
type TargetCreditWorker struct {
	targets  centre.SalesTargetRepository
	queue    chan common.TargetCredit
	logger   *zap.Logger
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewTargetCreditWorker creates a worker with the given queue capacity
func NewTargetCreditWorker(targets centre.SalesTargetRepository, queueSize int, logger *zap.Logger) *TargetCreditWorker {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &TargetCreditWorker{
		targets:  targets,
		queue:    make(chan common.TargetCredit, queueSize),
		logger:   logger,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Enqueue hands a credit to the worker without blocking
func (w *TargetCreditWorker) Enqueue(credit common.TargetCredit) {
	select {
	case w.queue <- credit:
	default:
		w.logger.Error("target credit queue full, dropping credit",
			zap.String("tenant_id", credit.TenantID.String()),
			zap.String("centre_id", credit.CentreID.String()),
			zap.String("amount", credit.Amount.String()))
	}
}

// Start launches the consumer goroutine
func (w *TargetCreditWorker) Start() {
	go w.run()
}

// Stop drains the queue and waits for the consumer to exit, up to the
// given timeout
func (w *TargetCreditWorker) Stop(timeout time.Duration) {
	close(w.stopChan)
	select {
	case <-w.doneChan:
	case <-time.After(timeout):
		w.logger.Warn("target credit worker did not drain in time",
			zap.Int("pending", len(w.queue)))
	}
}

func (w *TargetCreditWorker) run() {
	defer close(w.doneChan)
	for {
		select {
		case credit := <-w.queue:
			w.apply(credit)
		case <-w.stopChan:
			// drain what is already queued before exiting
			for {
				select {
				case credit := <-w.queue:
					w.apply(credit)
				default:
					return
				}
			}
		}
	}
}

// apply credits the active sales target. The achieved amount is contended
// by concurrent admissions, so the optimistic save retries on conflict
// with a fresh read.
func (w *TargetCreditWorker) apply(credit common.TargetCredit) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for attempt := 0; attempt < maxCreditRetries; attempt++ {
		target, err := w.targets.FindActive(ctx, credit.TenantID, credit.CentreID, time.Now())
		if err != nil {
			if shared.IsNotFound(err) {
				// no target configured for the period, nothing to credit
				return
			}
			w.logger.Error("failed to load sales target", zap.Error(err),
				zap.String("centre_id", credit.CentreID.String()))
			return
		}

		expectedVersion := target.Version
		if err := target.RecordAchievement(credit.Amount); err != nil {
			w.logger.Error("failed to record target achievement", zap.Error(err))
			return
		}

		err = w.targets.SaveWithLock(ctx, target, expectedVersion)
		if err == nil {
			w.logger.Debug("sales target credited",
				zap.String("centre_id", credit.CentreID.String()),
				zap.String("amount", credit.Amount.String()))
			return
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			w.logger.Error("failed to save sales target", zap.Error(err))
			return
		}
	}

	w.logger.Warn("sales target credit lost to contention",
		zap.String("centre_id", credit.CentreID.String()),
		zap.String("amount", credit.Amount.String()),
		zap.Int("attempts", maxCreditRetries))
}

// Ensure TargetCreditWorker implements TargetCreditQueue
var _ common.TargetCreditQueue = (*TargetCreditWorker)(nil)
