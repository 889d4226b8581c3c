package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/Sukhirthan10/expense-tracker/internal/api/metrics"
	"github.com/Sukhirthan10/expense-tracker/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans ledger events out to a fixed set of workers using
// consistent hashing on the owner id, keeping each owner's events in order.
// Workers record Prometheus metrics and emit the audit-style log line so
// neither sits on the request path.
type Dispatcher struct {
	workers []chan ports.LedgerEvent
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.LedgerEvent, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.LedgerEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify sends an event to the worker responsible for its owner.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Notify(event ports.LedgerEvent) {
	d.workers[d.shardIndex(event.OwnerID)] <- event
}

// shardIndex maps an owner id deterministically to a worker index.
func (d *Dispatcher) shardIndex(ownerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ownerID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.LedgerEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.process(id, event)
		}
	}
}

func (d *Dispatcher) process(workerID int, event ports.LedgerEvent) {
	switch event.Action {
	case ports.LedgerExpenseCreated:
		metrics.ExpensesCreatedTotal.WithLabelValues(event.Category).Inc()
	case ports.LedgerExpenseDeleted:
		metrics.ExpensesDeletedTotal.Inc()
	}

	d.log.Debug().
		Str("action", string(event.Action)).
		Str("owner_id", event.OwnerID).
		Str("expense_id", event.ExpenseID).
		Int("worker_id", workerID).
		Msg("ledger event processed")
}
