// Package pool coordinates a fixed batch of independent CPU-bound tasks
// across a pool of workers and reassembles the results in submission order.
//
// The primary type is Pool. It owns the request channel, the response channel
// and the log relay; workers only ever touch those channels, which are the
// sole synchronization primitive in the package.
//
// # Basic Usage
//
//	p := pool.New(pool.DefaultConfig())
//	summary := p.Run(context.Background(), []int{1, 2, 3, 4})
//	fmt.Println(summary.Results) // [1 4 9 16]
//
// # Lifecycle
//
// Run pre-populates the request channel with every accepted request, starts
// the workers, drains exactly as many responses as requests were accepted,
// then circulates a single shutdown token: each worker that consumes the
// token re-posts one copy before exiting, so every worker observes it exactly
// once regardless of pool size. After joining the workers the coordinator
// reclaims the final token, leaving the channel empty.
//
// # Single-Worker Mode
//
// When the resolved worker count is 1 the channel machinery is skipped
// entirely and one in-process worker handles the batch synchronously. Both
// paths honor the same validation rules and produce identical ordered output.
package pool
