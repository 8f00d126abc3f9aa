package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/rest"
)

// Fetcher runs a single SDMX query. *sdmx.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, args *rest.RequestArgs) (message.Message, error)
}

// Pool runs jobs on a fixed set of worker goroutines. Submit queues a
// job; results arrive on Results in completion order. The pool must be
// closed with Close or CloseAndWait when no more jobs will be submitted.
type Pool struct {
	workers    int
	jobsChan   chan Job
	resultChan chan *Result
	fetcher    Fetcher
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	closed     atomic.Bool

	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
	jobsFailed    atomic.Uint64
	totalDuration atomic.Uint64
}

// NewPool starts a pool of workers fetching through f. A non-positive
// worker count defaults to runtime.NumCPU.
func NewPool(ctx context.Context, f Fetcher, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		workers:    workers,
		jobsChan:   make(chan Job, workers*2),
		resultChan: make(chan *Result, workers*2),
		fetcher:    f,
		ctx:        ctx,
		cancel:     cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit queues a job, blocking while the queue is full. It reports
// false once the pool is closed or its context cancelled.
func (p *Pool) Submit(job Job) bool {
	if p.closed.Load() {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return true
	}
}

// Results returns the channel results are delivered on. It is closed
// after CloseAndWait has drained the pool.
func (p *Pool) Results() <-chan *Result {
	return p.resultChan
}

// Close stops the pool, discarding results not yet consumed.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}
	p.cancel()
	close(p.jobsChan)

	done := make(chan struct{})
	go func() {
		for range p.resultChan {
		}
		close(done)
	}()

	p.wg.Wait()
	close(p.resultChan)
	<-done
}

// CloseAndWait lets the queued jobs finish, collects every result and
// shuts the pool down.
func (p *Pool) CloseAndWait() *BatchResult {
	if p.closed.Swap(true) {
		return &BatchResult{}
	}
	close(p.jobsChan)

	go func() {
		p.wg.Wait()
		close(p.resultChan)
	}()

	var results []*Result
	for r := range p.resultChan {
		results = append(results, r)
	}
	p.cancel()

	return &BatchResult{
		Results:       results,
		TotalJobs:     int(p.jobsSubmitted.Load()),
		CompletedJobs: int(p.jobsCompleted.Load()),
		FailedJobs:    int(p.jobsFailed.Load()),
		TotalDuration: time.Duration(p.totalDuration.Load()),
	}
}

// Stats is a snapshot of the pool counters.
type Stats struct {
	Workers       int
	JobsSubmitted uint64
	JobsCompleted uint64
	JobsFailed    uint64
	AvgDuration   time.Duration
}

// Stats returns the current pool counters.
func (p *Pool) Stats() Stats {
	s := Stats{
		Workers:       p.workers,
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsCompleted: p.jobsCompleted.Load(),
		JobsFailed:    p.jobsFailed.Load(),
	}
	if s.JobsCompleted > 0 {
		s.AvgDuration = time.Duration(p.totalDuration.Load() / s.JobsCompleted)
	}
	return s
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobsChan {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		r := p.run(job)
		p.jobsCompleted.Add(1)
		if r.Err != nil {
			p.jobsFailed.Add(1)
		}
		p.totalDuration.Add(uint64(r.Duration))

		select {
		case <-p.ctx.Done():
			return
		case p.resultChan <- r:
		}
	}
}

func (p *Pool) run(job Job) *Result {
	start := time.Now()
	msg, err := p.fetcher.Get(p.ctx, job.Args)
	return &Result{
		ID:       job.ID,
		Message:  msg,
		Err:      err,
		Duration: time.Since(start),
	}
}

// FetchAll runs every query in argsList through f with at most workers
// in flight and returns the results in input order. Result IDs are the
// input indices. Cancelling ctx leaves the results of unfinished jobs
// nil.
func FetchAll(ctx context.Context, f Fetcher, argsList []*rest.RequestArgs, workers int) *BatchResult {
	br := &BatchResult{
		Results:   make([]*Result, len(argsList)),
		TotalJobs: len(argsList),
	}
	if len(argsList) == 0 {
		return br
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(argsList) {
		workers = len(argsList)
	}

	type indexed struct {
		index int
		args  *rest.RequestArgs
	}
	jobs := make(chan indexed)
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
		failed    int
		total     time.Duration
	)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				start := time.Now()
				msg, err := f.Get(ctx, job.args)
				r := &Result{
					ID:       strconv.Itoa(job.index),
					Message:  msg,
					Err:      err,
					Duration: time.Since(start),
				}
				mu.Lock()
				br.Results[job.index] = r
				completed++
				if err != nil {
					failed++
				}
				total += r.Duration
				mu.Unlock()
			}
		}()
	}

	for i, args := range argsList {
		select {
		case <-ctx.Done():
		case jobs <- indexed{index: i, args: args}:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()

	br.CompletedJobs = completed
	br.FailedJobs = failed
	br.TotalDuration = total
	return br
}
