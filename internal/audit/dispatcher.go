package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Event struct {
	ClinicID uint
	Actor    string
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Writer persists one event.
type Writer interface {
	Log(ctx context.Context, ev Event) error
}

const defaultQueueSize = 100

// Dispatcher writes audit events off the request path. Audit never fails a
// request: a full queue drops the event.
type Dispatcher struct {
	writer Writer
	logger zerolog.Logger
	queue  chan Event

	// mu guards closed and the send on queue against Close.
	mu     sync.RWMutex
	closed bool

	wg   sync.WaitGroup
	once sync.Once
}

func NewDispatcher(writer Writer, logger zerolog.Logger) *Dispatcher {
	return newDispatcher(writer, logger, defaultQueueSize)
}

func newDispatcher(writer Writer, logger zerolog.Logger, size int) *Dispatcher {
	d := &Dispatcher{
		writer: writer,
		logger: logger,
		queue:  make(chan Event, size),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.writer.Log(ctx, ev); err != nil {
			d.logger.Error().
				Err(err).
				Str("action", ev.Action).
				Uint("clinic_id", ev.ClinicID).
				Msg("audit write failed")
		}
		cancel()
	}
}

// Dispatch is safe on a nil Dispatcher and after Close; late events are
// dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn().
			Str("action", ev.Action).
			Uint("clinic_id", ev.ClinicID).
			Msg("audit dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.logger.Warn().
			Str("action", ev.Action).
			Uint("clinic_id", ev.ClinicID).
			Msg("audit queue full, dropping event")
	}
}

// Close drains the queue.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()

		d.wg.Wait()
	})
}
