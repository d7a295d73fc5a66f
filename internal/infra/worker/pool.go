// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"xeyronox-link-bot/internal/infra/metrics"
)

var (
	ErrQueueFull  = errors.New("worker queue full")
	ErrPoolClosed = errors.New("worker pool closed")
)

type Task func(ctx context.Context) error

type job struct {
	id   string
	name string
	run  Task
}

// Pool runs submitted tasks on a fixed number of goroutines. Submit never
// blocks; when the queue is full the task is rejected and the caller decides.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan job
	n    int
	log  *zerolog.Logger

	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	busy   atomic.Int64
}

func NewPool(workers, queueSize int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = workers * 4
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "WorkerPool").Logger()
	return &Pool{jobs: make(chan job, queueSize), n: workers, log: &l}
}

// Start launches the workers. Tasks receive a context derived from parent
// that is cancelled when Shutdown gives up waiting.
func (p *Pool) Start(parent context.Context) {
	p.mu.Lock()
	p.ctx, p.cancel = context.WithCancel(parent)
	p.mu.Unlock()

	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for j := range p.jobs {
				metrics.SetQueueDepth(len(p.jobs))
				if p.ctx.Err() != nil {
					// abandoned; counted by Shutdown
					p.log.Warn().Str("task_id", j.id).Str("task", j.name).Msg("task abandoned")
					continue
				}
				p.run(id, j)
			}
		}(i)
	}
}

func (p *Pool) run(worker int, j job) {
	p.busy.Add(1)
	defer p.busy.Add(-1)

	l := p.log.With().Int("worker", worker).Str("task_id", j.id).Str("task", j.name).Logger()
	defer func() {
		if rec := recover(); rec != nil {
			metrics.IncWorkerTask("panic")
			l.Error().Interface("panic", rec).Msg("task panicked")
		}
	}()

	if err := j.run(p.ctx); err != nil {
		metrics.IncWorkerTask("error")
		l.Error().Err(err).Msg("task error")
		return
	}
	metrics.IncWorkerTask("ok")
}

// Submit enqueues task and returns its id.
func (p *Pool) Submit(name string, task Task) (string, error) {
	if task == nil {
		return "", errors.New("nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.ctx == nil {
		metrics.IncWorkerTask("rejected")
		return "", ErrPoolClosed
	}

	j := job{id: ulid.Make().String(), name: name, run: task}
	select {
	case p.jobs <- j:
		metrics.SetQueueDepth(len(p.jobs))
		return j.id, nil
	default:
		// drop when saturated; the webhook must not block on it
		metrics.IncWorkerTask("rejected")
		return "", ErrQueueFull
	}
}

// Pending is the number of queued plus running tasks.
func (p *Pool) Pending() int {
	return len(p.jobs) + int(p.busy.Load())
}

// Shutdown stops intake and lets queued and running tasks finish. If ctx
// expires first, running tasks are cancelled and whatever was still pending
// is logged as abandoned.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info().Msg("worker pool drained")
		if p.cancel != nil {
			p.cancel()
		}
		return nil
	case <-ctx.Done():
		abandoned := p.Pending()
		metrics.AddWorkerTasks("abandoned", abandoned)
		p.log.Error().Int("abandoned", abandoned).Msg("shutdown grace expired, abandoning tasks")
		if p.cancel != nil {
			p.cancel()
		}
		return fmt.Errorf("worker pool: %d task(s) abandoned: %w", abandoned, ctx.Err())
	}
}
