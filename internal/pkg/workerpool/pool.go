package workerpool

import (
	"context"
	"sync"
	"time"
)

type Task func(ctx context.Context) error

type Result struct {
	Err error
}

// Pool runs submitted tasks on a fixed number of goroutines. Call Run before Submit when the
// buffer is smaller than the number of tasks.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	rate    <-chan time.Time
	ticker  *time.Ticker
}

func New(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, buffer),
	}
}

// SetRateLimit spaces task starts across all workers; rps <= 0 removes the limit.
func (p *Pool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.stopTicker()
	if rps <= 0 {
		return
	}
	t := time.NewTicker(time.Second / time.Duration(rps))
	p.mu.Lock()
	p.ticker = t
	p.rate = t.C
	p.mu.Unlock()
}

func (p *Pool) Submit(t Task) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- t
}

// Close stops accepting tasks; queued tasks still run and the rate limit stays in force until the
// workers exit.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

func (p *Pool) stopTicker() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
}

// Run starts the workers. The returned channel closes once every worker has exited, which happens
// after Close drains the queue or when ctx is cancelled.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	if p == nil {
		out := make(chan Result)
		close(out)
		return out
	}
	out := make(chan Result, p.workers+cap(p.tasks))

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if !p.wait(ctx) {
						return
					}
					err := t(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- Result{Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		p.stopTicker()
		close(out)
	}()

	return out
}

func (p *Pool) wait(ctx context.Context) bool {
	p.mu.RLock()
	rate := p.rate
	p.mu.RUnlock()
	if rate == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-rate:
		return true
	}
}

// Do runs every task with at most workers in flight and returns once all of them finished or ctx
// was cancelled.
func Do(ctx context.Context, workers int, tasks []Task) []error {
	return DoRateLimited(ctx, workers, 0, tasks)
}

// DoRateLimited is Do with task starts spaced to at most rps per second.
func DoRateLimited(ctx context.Context, workers, rps int, tasks []Task) []error {
	p := New(workers, len(tasks))
	p.SetRateLimit(rps)
	results := p.Run(ctx)
	for _, t := range tasks {
		p.Submit(t)
	}
	p.Close()

	var errs []error
	for r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
