package pool

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"

	"github.com/utkarsh5026/taskfarm/logging"
	"github.com/utkarsh5026/taskfarm/task"
)

// envelope is what travels on the request channel: either one task request or
// the shutdown token. The token is the only out-of-band value workers ever
// see; whoever consumes it must re-post one copy before leaving its loop.
type envelope struct {
	shutdown bool
	req      task.Request
}

// WorkerConfig configures a single worker.
type WorkerConfig struct {
	// Index identifies the worker in log output.
	Index int

	// Logger receives the worker's log lines. In a multi-worker pool it must
	// post through the coordinator's relay, never straight to the shared sink.
	Logger *logging.Logger

	// Clock supplies the artificial delay; nil means the real clock.
	Clock Clock

	// MinDelay and MaxDelay bound the uniformly random per-task delay.
	MinDelay time.Duration
	MaxDelay time.Duration

	// Limiter, when non-nil, throttles task starts across the pool.
	Limiter *rate.Limiter
}

// Worker handles one task at a time: dequeue, compute, report. It never
// retries and never holds more than one in-flight request.
type Worker struct {
	index    int
	logger   *logging.Logger
	clock    Clock
	minDelay time.Duration
	maxDelay time.Duration
	limiter  *rate.Limiter
}

// NewWorker creates a worker from an explicit configuration.
func NewWorker(cfg WorkerConfig) *Worker {
	if cfg.Clock == nil {
		cfg.Clock = NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = defaultLogger()
	}
	return &Worker{
		index:    cfg.Index,
		logger:   cfg.Logger,
		clock:    cfg.Clock,
		minDelay: cfg.MinDelay,
		maxDelay: cfg.MaxDelay,
		limiter:  cfg.Limiter,
	}
}

// Run completes exactly one request: square the input, wait out the simulated
// computation cost, and build the response. A response that fails validation
// is converted into the sentinel failure response instead of propagating, so
// the request is acknowledged either way.
func (w *Worker) Run(ctx context.Context, req task.Request) task.Response {
	if w.limiter != nil {
		_ = w.limiter.Wait(ctx)
	}

	value := req.Value()
	squared := value * value
	if d := w.pickDelay(); d > 0 {
		w.clock.Sleep(d)
	}
	w.logger.Debugf("req(%d) -> res(%d)", value, squared)

	res, err := task.NewResponse(req.Index(), squared, true)
	if err != nil {
		w.logger.Warnf("task %d: %v", req.Index(), err)
		w.logger.Warnf("task %d: substituting failure response", req.Index())
		return task.Failure(req.Index())
	}
	return res
}

// loop is the worker's channel-facing state machine: block on the request
// channel, handle one item, repeat until the shutdown token (or a closed
// channel) ends the loop. On shutdown the token is re-posted once so the next
// still-running worker observes it too.
func (w *Worker) loop(ctx context.Context, requests chan envelope, responses chan<- task.Response) {
	for {
		env, ok := <-requests
		if !ok {
			// Channel torn down underneath us; treat as termination.
			return
		}
		if env.shutdown {
			requests <- env
			w.logger.Debugf("worker %d relayed shutdown, terminating", w.index)
			return
		}
		responses <- w.Run(ctx, env.req)
	}
}

// pickDelay draws the simulated task cost uniformly from [minDelay, maxDelay].
func (w *Worker) pickDelay() time.Duration {
	if w.maxDelay <= w.minDelay {
		return w.minDelay
	}
	return w.minDelay + rand.N(w.maxDelay-w.minDelay)
}
