package pool

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/utkarsh5026/taskfarm/internal/testutils"
	"github.com/utkarsh5026/taskfarm/logging"
	"github.com/utkarsh5026/taskfarm/task"
)

func quietLogger() *logging.Logger {
	return logging.New("", logging.LevelError, logging.NewConsoleHandler(io.Discard, logging.LevelError))
}

func mustRequest(t *testing.T, index, value int) task.Request {
	t.Helper()
	req, err := task.NewRequest(index, value)
	if err != nil {
		t.Fatalf("building request (%d, %d): %v", index, value, err)
	}
	return req
}

func TestWorker_Run_Squares(t *testing.T) {
	w := NewWorker(WorkerConfig{Logger: quietLogger()})

	for v := 1; v <= 10; v++ {
		res := w.Run(context.Background(), mustRequest(t, v, v))
		if !res.Succeeded() {
			t.Fatalf("value %d: expected success", v)
		}
		if res.Value() != v*v {
			t.Errorf("value %d: expected %d, got %d", v, v*v, res.Value())
		}
		if res.Index() != v {
			t.Errorf("value %d: response index %d does not match request", v, res.Index())
		}
	}
}

func TestWorker_Run_OutOfRangeResult(t *testing.T) {
	w := NewWorker(WorkerConfig{Logger: quietLogger()})

	// 11^2 = 121 exceeds the response bound: the worker must swallow the
	// validation error and acknowledge with the sentinel failure response.
	res := w.Run(context.Background(), mustRequest(t, 11, 11))
	if res.Succeeded() {
		t.Fatal("expected a failure response")
	}
	if res.Value() != task.FailureValue {
		t.Errorf("expected sentinel value %d, got %d", task.FailureValue, res.Value())
	}
	if res.Index() != 11 {
		t.Errorf("expected index 11, got %d", res.Index())
	}
}

func TestWorker_PickDelay_Bounds(t *testing.T) {
	w := NewWorker(WorkerConfig{
		Logger:   quietLogger(),
		MinDelay: 10 * time.Millisecond,
		MaxDelay: 20 * time.Millisecond,
	})

	for range 100 {
		d := w.pickDelay()
		if d < 10*time.Millisecond || d > 20*time.Millisecond {
			t.Fatalf("delay %s outside [10ms, 20ms]", d)
		}
	}
}

func TestWorker_PickDelay_Fixed(t *testing.T) {
	w := NewWorker(WorkerConfig{
		Logger:   quietLogger(),
		MinDelay: 5 * time.Millisecond,
		MaxDelay: 5 * time.Millisecond,
	})
	if d := w.pickDelay(); d != 5*time.Millisecond {
		t.Fatalf("expected fixed 5ms delay, got %s", d)
	}
}

func TestWorker_Run_DelayUsesClock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mock := testutils.NewMockClock(t)
	trap := mock.Trap().NewTimer()
	defer trap.Close()

	w := NewWorker(WorkerConfig{
		Logger:   quietLogger(),
		Clock:    testutils.NewClockWrapper(mock),
		MinDelay: 2 * time.Second,
		MaxDelay: 2 * time.Second,
	})

	req := mustRequest(t, 3, 3)
	results := make(chan task.Response, 1)
	go func() {
		results <- w.Run(context.Background(), req)
	}()

	call := trap.MustWait(ctx)
	if call.Duration != 2*time.Second {
		t.Errorf("expected a 2s delay, got %s", call.Duration)
	}
	call.MustRelease(ctx)
	mock.Advance(2 * time.Second).MustWait(ctx)

	select {
	case res := <-results:
		if !res.Succeeded() || res.Value() != 9 {
			t.Fatalf("unexpected response: value=%d success=%v", res.Value(), res.Succeeded())
		}
	case <-ctx.Done():
		t.Fatal("worker did not finish after the clock advanced")
	}
}

func TestWorker_Loop_ShutdownRelay(t *testing.T) {
	w := NewWorker(WorkerConfig{Logger: quietLogger()})

	requests := make(chan envelope, 4)
	responses := make(chan task.Response, 4)
	requests <- envelope{req: mustRequest(t, 1, 2)}
	requests <- envelope{req: mustRequest(t, 2, 3)}
	requests <- envelope{shutdown: true}

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.loop(context.Background(), requests, responses)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not terminate on the shutdown token")
	}

	if got := len(responses); got != 2 {
		t.Fatalf("expected 2 responses, got %d", got)
	}

	// The token must have been re-posted exactly once for the next worker.
	if got := len(requests); got != 1 {
		t.Fatalf("expected the re-posted token on the channel, found %d items", got)
	}
	env := <-requests
	if !env.shutdown {
		t.Fatal("residual channel item is not the shutdown token")
	}
}

func TestWorker_Loop_ClosedChannel(t *testing.T) {
	w := NewWorker(WorkerConfig{Logger: quietLogger()})

	requests := make(chan envelope)
	responses := make(chan task.Response, 1)
	close(requests)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.loop(context.Background(), requests, responses)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not treat the closed channel as termination")
	}
}
