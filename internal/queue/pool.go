package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrQueueFull is returned by Enqueue when every buffer slot is taken.
	ErrQueueFull = errors.New("queue: buffer full")
	// ErrClosed is returned by Enqueue after Close.
	ErrClosed = errors.New("queue: closed")
)

// Pool runs a Handler on a fixed number of goroutines fed by a bounded
// channel.  Jobs run on a background context so they outlive the request
// that queued them.
type Pool struct {
	jobs    chan ThankYouJob
	handle  Handler
	timeout time.Duration
	log     *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool starts workers goroutines draining a buffer of size buffer.  Each
// job gets at most timeout to finish; zero means no limit.
func NewPool(workers, buffer int, timeout time.Duration, h Handler, log *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if log == nil {
		log = slog.Default()
	}
	p := &Pool{
		jobs:    make(chan ThankYouJob, buffer),
		handle:  h,
		timeout: timeout,
		log:     log,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

// Enqueue submits a job without blocking.
func (p *Pool) Enqueue(job ThankYouJob) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting jobs and waits until the queued ones are handled
// or ctx is done.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(job)
	}
}

func (p *Pool) run(job ThankYouJob) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("notify job panicked", "job_id", job.ID, "panic", r)
		}
	}()
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.handle(ctx, job); err != nil {
		p.log.Error("notify job failed", "job_id", job.ID, "err", err)
		return
	}
	p.log.Debug("notify job done", "job_id", job.ID)
}
