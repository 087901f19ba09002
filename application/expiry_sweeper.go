package application

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// ExpirySweeper periodically closes stale wagers: Open wagers past the
// expiry threshold are expired, and Accepted wagers past the recovery
// threshold (stuck mid-resolution after a crash) are force-failed. Each
// closure is its own compare-and-set transaction, so a sweep racing an
// in-flight Accept is safe in either direction.
type ExpirySweeper struct {
	uowFactory        UnitOfWorkFactory
	machine           *WagerStateMachine
	interval          time.Duration
	expiryThreshold   time.Duration
	recoveryThreshold time.Duration
}

// NewExpirySweeper creates a sweeper over the given state machine.
func NewExpirySweeper(uowFactory UnitOfWorkFactory, machine *WagerStateMachine, interval, expiryThreshold, recoveryThreshold time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		uowFactory:        uowFactory,
		machine:           machine,
		interval:          interval,
		expiryThreshold:   expiryThreshold,
		recoveryThreshold: recoveryThreshold,
	}
}

// Start runs one recovery pass immediately, then begins the periodic sweep
// loop. Returns a cleanup function that stops the worker.
func (s *ExpirySweeper) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	if err := s.Sweep(ctx); err != nil {
		log.Errorf("Error in startup wager sweep: %v", err)
	}

	go func() {
		log.Infof("Expiry sweeper started, interval %v", s.interval)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Expiry sweeper shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Expiry sweeper shutting down (stop requested)...")
				return
			case <-ticker.C:
				if err := s.Sweep(ctx); err != nil {
					log.Errorf("Error sweeping wagers: %v", err)
				}
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// Sweep performs one pass: list the stale wagers in a read-only transaction,
// then close each one independently. Per-wager failures are logged and do
// not stop the pass.
func (s *ExpirySweeper) Sweep(ctx context.Context) error {
	now := time.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stale, err := uow.WagerRepository().ListOpenOlderThan(ctx, now.Add(-s.expiryThreshold))
	if err != nil {
		uow.Rollback()
		return fmt.Errorf("failed to list stale open wagers: %w", err)
	}

	stuck, err := uow.WagerRepository().ListAcceptedOlderThan(ctx, now.Add(-s.recoveryThreshold))
	if err != nil {
		uow.Rollback()
		return fmt.Errorf("failed to list stuck accepted wagers: %w", err)
	}

	// read-only transaction
	uow.Rollback()

	for _, wager := range stale {
		if err := s.machine.Expire(ctx, wager); err != nil {
			log.Errorf("Error expiring wager %d: %v", wager.MessageID, err)
		}
	}

	for _, wager := range stuck {
		if err := s.machine.ForceFail(ctx, wager); err != nil {
			log.Errorf("Error force-failing wager %d: %v", wager.MessageID, err)
		}
	}

	if len(stale) > 0 || len(stuck) > 0 {
		log.WithFields(log.Fields{
			"expired":      len(stale),
			"force_failed": len(stuck),
		}).Info("Completed wager sweep")
	}

	return nil
}
