// Package queue moves audit writes off the request path.
package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/spaceapp/space-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrQueueFull is returned by Record when the target worker is saturated.
var ErrQueueFull = errors.New("audit queue full")

// ErrClosed is returned by Record after Close.
var ErrClosed = errors.New("audit queue closed")

// Dispatcher is an asynchronous ports.AuditRecorder. Entries are routed to a
// fixed set of workers by hashing entity and id, so the trail of a single
// entity keeps its order.
type Dispatcher struct {
	workers []chan ports.AuditEntry
	next    ports.AuditRecorder
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers in
// front of next. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, next ports.AuditRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuditEntry, numWorkers),
		next:    next,
		log:     log.With().Str("component", "audit_dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx is handed to the wrapped
// recorder; workers exit once Close has drained their queue.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues entry without blocking.
func (d *Dispatcher) Record(_ context.Context, entry ports.AuditEntry) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	select {
	case d.workers[d.shardIndex(entry)] <- entry:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting entries and waits for queued ones to be written.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
	return nil
}

// shardIndex maps an entity deterministically to a worker index.
func (d *Dispatcher) shardIndex(entry ports.AuditEntry) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entry.Entity))
	_, _ = h.Write([]byte(strconv.FormatInt(entry.EntityID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuditEntry) {
	defer d.wg.Done()
	for entry := range ch {
		if err := d.next.Record(ctx, entry); err != nil {
			d.log.Error().Err(err).
				Str("entity", entry.Entity).
				Int64("entity_id", entry.EntityID).
				Str("action", entry.Action).
				Int("worker_id", id).
				Msg("audit write failed")
		}
	}
}
