package pool

import (
	"runtime"
	"time"

	"golang.org/x/time/rate"

	"github.com/utkarsh5026/taskfarm/logging"
)

// Config holds every knob for a Pool. The zero value is usable; New fills in
// defaults for anything left unset.
type Config struct {
	// Workers is the requested worker count. Negative means "auto", i.e.
	// detected parallelism minus one. See resolveWorkers for the full policy.
	Workers int

	// Parallelism overrides the detected CPU count. Zero means detect via
	// runtime.NumCPU(). Values below 2 force single-worker mode.
	Parallelism int

	// MinDelay and MaxDelay bound the artificial per-task delay that
	// simulates heterogeneous task cost. The delay is drawn uniformly from
	// [MinDelay, MaxDelay]; both zero disables it.
	MinDelay time.Duration
	MaxDelay time.Duration

	// TasksPerSecond caps task throughput across all workers when positive.
	// Burst is the limiter's burst size and defaults to the worker count.
	TasksPerSecond float64
	Burst          int

	// ShowProgress renders a progress bar while responses are drained.
	ShowProgress bool

	// RelayBuffer is the log relay's channel capacity.
	RelayBuffer int

	// Logger is the coordinator's logger; worker loggers share its handler
	// level but post through the relay. Nil means info-level stdout.
	Logger *logging.Logger

	// Clock supplies time operations; nil means the real clock.
	Clock Clock
}

// DefaultConfig returns the configuration used by the demo binary: automatic
// worker count and the 1-3s simulated task cost of the reference workload.
func DefaultConfig() Config {
	return Config{
		Workers:     -1,
		MinDelay:    time.Second,
		MaxDelay:    3 * time.Second,
		RelayBuffer: defaultRelayBuffer,
	}
}

const defaultRelayBuffer = 64

// resolveWorkers maps the requested worker count and the detected parallelism
// onto the effective pool size. The policy keeps one core free for the
// coordinator and never runs a pool smaller than one worker:
//
//   - parallelism unknown or below 2: 1 (single-worker mode)
//   - requested 0 or 1: 1
//   - requested negative or >= parallelism: parallelism - 1
//   - otherwise: requested
func resolveWorkers(requested, parallelism int) int {
	if parallelism < 2 {
		return 1
	}
	if requested == 0 || requested == 1 {
		return 1
	}
	if requested < 0 || requested >= parallelism {
		return parallelism - 1
	}
	return requested
}

func (cfg Config) withDefaults() Config {
	if cfg.Parallelism == 0 {
		cfg.Parallelism = runtime.NumCPU()
	}
	if cfg.Clock == nil {
		cfg.Clock = NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = defaultLogger()
	}
	if cfg.RelayBuffer <= 0 {
		cfg.RelayBuffer = defaultRelayBuffer
	}
	return cfg
}

func (cfg Config) limiter(workers int) *rate.Limiter {
	if cfg.TasksPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = workers
	}
	return rate.NewLimiter(rate.Limit(cfg.TasksPerSecond), burst)
}
