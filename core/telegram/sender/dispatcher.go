// Package sender runs cosmetic Telegram calls (button stripping, dice
// cleanup) on a small worker pool so handlers never wait on them.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/cashflowbot/core/logger"
	"github.com/m3rciful/cashflowbot/core/telegram/netutil"
)

var (
	// ErrQueueClosed is returned once Close has started.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull is returned when the job did not fit into the queue.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

const component = "tg.sender"

// Options tune the dispatcher. Zero values pick defaults.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent on a single job, retries included.
	MaxDuration time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	o.MaxRetries = max(o.MaxRetries, 0)
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 2 * time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 12 * time.Second
	}
	return o
}

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
}

func (j job) attrs() []slog.Attr {
	return []slog.Attr{slog.String("action", j.action), slog.String("op", j.endpoint)}
}

// Dispatcher executes queued Telegram calls with retries on transient errors.
type Dispatcher struct {
	opts Options
	jobs chan job

	mu sync.Mutex
	// draining stops new delays from being tracked; closed stops the queue.
	draining bool
	closed   bool
	once     sync.Once
	workers sync.WaitGroup
	delayed sync.WaitGroup

	failures atomic.Uint64
}

// NewDispatcher starts the worker pool.
func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{opts: opts, jobs: make(chan job, opts.QueueSize)}
	d.workers.Add(opts.Workers)
	for range opts.Workers {
		go func() {
			defer d.workers.Done()
			for j := range d.jobs {
				d.handle(j)
			}
		}()
	}
	return d
}

// Enqueue queues run without blocking. run may be called more than once.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.jobs <- job{ctx: ctx, action: action, endpoint: endpoint, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// EnqueueAfter queues run once delay has passed. Close waits for pending
// delays; a job whose ctx ended meanwhile is dropped.
func (d *Dispatcher) EnqueueAfter(ctx context.Context, delay time.Duration, action, endpoint string, run func() error) {
	if delay <= 0 {
		d.enqueueOrLog(ctx, action, endpoint, run)
		return
	}
	d.mu.Lock()
	if d.draining {
		d.mu.Unlock()
		d.enqueueOrLog(ctx, action, endpoint, run)
		return
	}
	d.delayed.Add(1)
	d.mu.Unlock()

	time.AfterFunc(delay, func() {
		defer d.delayed.Done()
		if ctx != nil && ctx.Err() != nil {
			return
		}
		d.enqueueOrLog(ctx, action, endpoint, run)
	})
}

func (d *Dispatcher) enqueueOrLog(ctx context.Context, action, endpoint string, run func() error) {
	if err := d.Enqueue(ctx, action, endpoint, run); err != nil {
		logger.Warn(ctx, component, "queue.drop",
			slog.String("action", action),
			slog.String("op", endpoint),
			slog.String("err", err.Error()),
		)
	}
}

// ErrorCount returns how many jobs failed for good.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.failures.Load()
}

// Close lets pending delayed jobs reach the queue, drains it and stops the
// workers. Delays requested while closing are skipped and the job is queued
// at once. It is safe to call more than once.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.draining = true
		d.mu.Unlock()
		d.delayed.Wait()
		d.mu.Lock()
		d.closed = true
		close(d.jobs)
		d.mu.Unlock()
		d.workers.Wait()
	})
}

func (d *Dispatcher) handle(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	attempt, err := d.attempt(ctx, j)
	took := logger.Took(start)

	attrs := append(j.attrs(), slog.Int("attempt", attempt), slog.Duration("duration", took))
	if err == nil {
		logger.Debug(j.ctx, component, "send", append(attrs, slog.String("status", "ok"))...)
		return
	}
	d.failures.Add(1)
	logger.Error(j.ctx, component, "send", append(attrs,
		slog.String("status", "fail"),
		slog.String("err", redactToken(err)),
		slog.String("err_code", classifyError(err)),
	)...)
}

// attempt runs the job until it succeeds, fails permanently, runs out of
// retries or ctx ends. It returns the number of calls made.
func (d *Dispatcher) attempt(ctx context.Context, j job) (int, error) {
	calls := d.opts.MaxRetries + 1
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return n - 1, err
		}
		err := j.run()
		if err == nil || n == calls || !netutil.ShouldRetry(err) {
			return n, err
		}

		delay := max(d.opts.RetryBackoff*time.Duration(n), netutil.RetryAfter(err))
		logger.Debug(j.ctx, component, "send.retry", append(j.attrs(),
			slog.Int("attempt", n),
			slog.Duration("backoff", delay),
		)...)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return n, ctx.Err()
		case <-timer.C:
		}
	}
}
