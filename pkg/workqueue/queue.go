package workqueue

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/layerdisplay/internal/logging"
)

// Queue runs submitted work items on a single worker goroutine.
// Each Work is queued at most once at a time, so the queue never holds more
// entries than there are registered items.
type Queue struct {
	mu    sync.Mutex // guards registration only
	works atomic.Pointer[[]*Work]

	kick    chan struct{}
	done    chan struct{}
	stopped chan struct{}

	life    sync.Mutex
	started bool
	closed  bool

	logger *slog.Logger
}

// Option configures the Queue.
type Option func(*Queue)

// WithLogger configures a logger for panics raised by work handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		q.logger = logger
	}
}

// New creates a queue. Call Start before expecting work to run.
func New(opts ...Option) *Queue {
	q := &Queue{
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  logging.NewNop(),
	}
	empty := make([]*Work, 0)
	q.works.Store(&empty)
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// NewWork registers a handler and returns the item used to submit it.
func (q *Queue) NewWork(fn func()) *Work {
	w := &Work{queue: q, fn: fn}

	q.mu.Lock()
	defer q.mu.Unlock()
	current := *q.works.Load()
	next := make([]*Work, len(current), len(current)+1)
	copy(next, current)
	next = append(next, w)
	q.works.Store(&next)

	return w
}

// Start launches the worker goroutine. Calling it more than once is a no-op.
func (q *Queue) Start() {
	q.life.Lock()
	defer q.life.Unlock()
	if q.started {
		return
	}
	q.started = true
	go q.loop()
}

// Stop terminates the worker and waits for the running handler, if any, to return.
// Items still pending are dropped.
func (q *Queue) Stop() {
	q.life.Lock()
	if !q.closed {
		q.closed = true
		close(q.done)
	}
	started := q.started
	q.life.Unlock()

	if started {
		<-q.stopped
	}
}

func (q *Queue) loop() {
	defer close(q.stopped)
	for {
		select {
		case <-q.done:
			return
		case <-q.kick:
			q.drain()
		}
	}
}

// drain runs every pending item once, in registration order.
func (q *Queue) drain() {
	for _, w := range *q.works.Load() {
		select {
		case <-q.done:
			return
		default:
		}
		if w.pending.CompareAndSwap(true, false) {
			q.run(w)
		}
	}
}

func (q *Queue) run(w *Work) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("work handler panicked", "panic", r)
		}
	}()
	w.fn()
	w.runs.Add(1)
}

// Work is a handler that can be submitted to its Queue.
type Work struct {
	queue   *Queue
	fn      func()
	pending atomic.Bool
	runs    atomic.Uint64
}

// Submit marks the item pending and wakes the worker.
// It never blocks. It returns false when the item was already pending, in
// which case the earlier submission covers this one.
func (w *Work) Submit() bool {
	if !w.pending.CompareAndSwap(false, true) {
		return false
	}
	select {
	case w.queue.kick <- struct{}{}:
	default:
		// The worker has a wake-up queued already and will see the flag.
	}
	return true
}

// Pending reports whether the item is waiting to run.
func (w *Work) Pending() bool {
	return w.pending.Load()
}

// Runs returns how many times the handler has completed.
func (w *Work) Runs() uint64 {
	return w.runs.Load()
}
