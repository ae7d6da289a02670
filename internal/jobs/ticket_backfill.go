package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"techzeon/internal/database"
	"techzeon/internal/logger"
)

const backfillBatchSize = 100

// TicketStore is what the backfill needs from the registration repository.
type TicketStore interface {
	ListMissingTickets(ctx context.Context, limit int) ([]int64, error)
	AssignTicket(ctx context.Context, id int64, ticketID string) (bool, error)
}

// TicketBackfillJob gives a ticket id to registrations stored without one,
// which the old two-statement write could leave behind.
type TicketBackfillJob struct {
	store       TicketStore
	nextTicket  func() string
	maxAttempts int
	interval    time.Duration
	ticker      *time.Ticker
	done        chan struct{}
	stopOnce    sync.Once
	log         *slog.Logger
}

func NewTicketBackfillJob(store TicketStore, nextTicket func() string, maxAttempts int, interval time.Duration) *TicketBackfillJob {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &TicketBackfillJob{
		store:       store,
		nextTicket:  nextTicket,
		maxAttempts: maxAttempts,
		interval:    interval,
		done:        make(chan struct{}),
		log:         logger.WithFields("job", "ticket_backfill"),
	}
}

// Start runs one pass immediately and then one per interval until Stop.
func (j *TicketBackfillJob) Start(ctx context.Context) {
	j.log.Info("Starting ticket backfill job", "check_interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	go func() {
		j.RunOnce(ctx)
		for {
			select {
			case <-j.ticker.C:
				j.RunOnce(ctx)
			case <-ctx.Done():
				return
			case <-j.done:
				j.log.Info("Ticket backfill job stopped")
				return
			}
		}
	}()
}

func (j *TicketBackfillJob) Stop() {
	j.stopOnce.Do(func() {
		if j.ticker != nil {
			j.ticker.Stop()
		}
		close(j.done)
	})
}

// RunOnce assigns tickets to one batch and returns how many were assigned.
func (j *TicketBackfillJob) RunOnce(ctx context.Context) int {
	ids, err := j.store.ListMissingTickets(ctx, backfillBatchSize)
	if err != nil {
		j.log.Error("Failed to list registrations without ticket", "error", err)
		return 0
	}

	if len(ids) == 0 {
		j.log.Debug("No registrations without ticket")
		return 0
	}

	j.log.Info("Found registrations without ticket", "count", len(ids))

	assigned := 0
	for _, id := range ids {
		ticketID, err := j.assign(ctx, id)
		if err != nil {
			j.log.Error("Failed to backfill ticket", "error", err, "registration_id", id)
			continue
		}
		if ticketID != "" {
			assigned++
			j.log.Info("Backfilled ticket", "registration_id", id, "ticket_id", ticketID)
		}
	}

	return assigned
}

func (j *TicketBackfillJob) assign(ctx context.Context, id int64) (string, error) {
	var lastErr error
	for attempt := 0; attempt < j.maxAttempts; attempt++ {
		ticketID := j.nextTicket()

		ok, err := j.store.AssignTicket(ctx, id, ticketID)
		if err == nil {
			if !ok {
				// assigned concurrently
				return "", nil
			}
			return ticketID, nil
		}
		if !database.IsUniqueViolation(err, database.ConstraintTicketID) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
