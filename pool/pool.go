package pool

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/utkarsh5026/taskfarm/logging"
	"github.com/utkarsh5026/taskfarm/task"
)

// Pool runs fixed batches of tasks across a resolved number of workers. A
// Pool carries no per-run state, so the same instance can run any number of
// batches.
type Pool struct {
	cfg     Config
	workers int
	logger  *logging.Logger
	clock   Clock
	limiter *rate.Limiter
}

// Summary reports the outcome of one batch run.
type Summary struct {
	// Results holds the successful result values ordered by request index.
	Results []int

	// Submitted counts every value handed to Run; Accepted those that passed
	// request validation; Succeeded and Failed partition the responses.
	Submitted int
	Accepted  int
	Succeeded int
	Failed    int

	// Workers is the resolved pool size used for the run.
	Workers int

	// Elapsed is the wall-clock duration of the whole run.
	Elapsed time.Duration
}

// New creates a Pool, resolving the effective worker count from the
// configuration's requested count and detected parallelism.
func New(cfg Config) *Pool {
	cfg = cfg.withDefaults()
	workers := resolveWorkers(cfg.Workers, cfg.Parallelism)
	return &Pool{
		cfg:     cfg,
		workers: workers,
		logger:  cfg.Logger,
		clock:   cfg.Clock,
		limiter: cfg.limiter(workers),
	}
}

// Workers returns the resolved pool size.
func (p *Pool) Workers() int { return p.workers }

// Run executes one batch. Each value becomes a request with a 1-based index
// matching its position; values that fail validation are logged and skipped.
// Successful results come back ordered by request index. Failed tasks are
// counted but excluded from the results, never fatal.
func (p *Pool) Run(ctx context.Context, values []int) *Summary {
	start := p.clock.Now()

	sum := &Summary{Submitted: len(values), Workers: p.workers}
	reqs := p.buildRequests(values)
	sum.Accepted = len(reqs)

	p.logger.Infof("dispatching %d tasks to %d workers", len(reqs), p.workers)
	var kept []task.Response
	if p.workers == 1 {
		kept = p.runSingle(ctx, reqs, sum)
	} else {
		kept = p.runParallel(ctx, reqs, sum)
	}
	p.logger.Infof("workers have finished the batch")

	sort.Slice(kept, func(i, j int) bool { return kept[i].Index() < kept[j].Index() })
	sum.Succeeded = len(kept)
	sum.Results = make([]int, 0, len(kept))
	for _, res := range kept {
		sum.Results = append(sum.Results, res.Value())
	}

	sum.Elapsed = p.clock.Since(start)
	p.logger.Infof("processing time: %s", sum.Elapsed.Round(time.Millisecond))
	return sum
}

// buildRequests validates the batch, assigning 1-based indices in submission
// order. A value out of range is a warning, not an error: the offending task
// is dropped and the rest of the batch proceeds.
func (p *Pool) buildRequests(values []int) []task.Request {
	reqs := make([]task.Request, 0, len(values))
	for i, v := range values {
		req, err := task.NewRequest(i+1, v)
		if err != nil {
			p.logger.Warnf("skipping task %d: %v", i+1, err)
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs
}

// runSingle is the synchronous path: one in-process worker, no channels. It
// must stay observably equivalent to runParallel.
func (p *Pool) runSingle(ctx context.Context, reqs []task.Request, sum *Summary) []task.Response {
	w := NewWorker(WorkerConfig{
		Index:    0,
		Logger:   p.logger,
		Clock:    p.clock,
		MinDelay: p.cfg.MinDelay,
		MaxDelay: p.cfg.MaxDelay,
		Limiter:  p.limiter,
	})

	bar := p.progressBar(len(reqs))
	kept := make([]task.Response, 0, len(reqs))
	for _, req := range reqs {
		res := w.Run(ctx, req)
		if res.Succeeded() {
			kept = append(kept, res)
		} else {
			sum.Failed++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return kept
}

// runParallel is the channel path. All requests are posted before any worker
// starts, so no worker can find the channel empty before the batch is
// complete. The request channel leaves one slot of headroom for the shutdown
// token.
func (p *Pool) runParallel(ctx context.Context, reqs []task.Request, sum *Summary) []task.Response {
	accepted := len(reqs)
	requests := make(chan envelope, accepted+1)
	responses := make(chan task.Response, accepted)
	for _, req := range reqs {
		requests <- envelope{req: req}
	}

	relay := logging.NewRelay(p.logger.Handler(), p.cfg.RelayBuffer)
	relay.Start()

	var g errgroup.Group
	for i := range p.workers {
		w := NewWorker(WorkerConfig{
			Index:    i,
			Logger:   logging.New(fmt.Sprintf("worker%02d", i), p.logger.Level(), relay),
			Clock:    p.clock,
			MinDelay: p.cfg.MinDelay,
			MaxDelay: p.cfg.MaxDelay,
			Limiter:  p.limiter,
		})
		g.Go(func() error {
			w.loop(ctx, requests, responses)
			return nil
		})
	}

	// Drain exactly one response per accepted request. Workers race, so
	// responses arrive in no particular order; failed ones still count
	// toward completion.
	bar := p.progressBar(accepted)
	kept := make([]task.Response, 0, accepted)
	for remaining := accepted; remaining > 0; remaining-- {
		res := <-responses
		if res.Succeeded() {
			kept = append(kept, res)
		} else {
			sum.Failed++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	// Every accepted request has been acknowledged, so the channel holds no
	// requests anymore. Circulate a single shutdown token, join the workers,
	// then reclaim the copy the last worker re-posted.
	requests <- envelope{shutdown: true}
	_ = g.Wait()
	<-requests

	close(requests)
	close(responses)
	relay.Stop()
	return kept
}

func defaultLogger() *logging.Logger {
	return logging.New("", logging.LevelInfo, logging.NewConsoleHandler(os.Stdout, logging.LevelInfo))
}
