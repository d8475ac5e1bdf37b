package logging

// Relay funnels records produced by concurrently running workers through a
// single channel so a lone listener can forward them, one at a time and in
// arrival order, to the downstream handler. The downstream handler keeps its
// own severity threshold; the relay never drops or reorders records.
//
// Lifecycle is owned by whoever creates the relay: Start before the first
// producer runs, Stop only after the last producer has exited. Stop drains
// everything already posted before returning.
type Relay struct {
	records chan Record
	out     Handler
	done    chan struct{}
}

// NewRelay creates a relay forwarding to out. The buffer bounds how many
// records producers can post ahead of the listener without blocking.
func NewRelay(out Handler, buffer int) *Relay {
	if buffer < 0 {
		buffer = 0
	}
	return &Relay{
		records: make(chan Record, buffer),
		out:     out,
		done:    make(chan struct{}),
	}
}

// Handle posts a record for forwarding. It implements Handler, so worker
// loggers can use the relay as their destination directly.
func (r *Relay) Handle(rec Record) {
	r.records <- rec
}

// Start launches the listener goroutine.
func (r *Relay) Start() {
	go func() {
		defer close(r.done)
		for rec := range r.records {
			r.out.Handle(rec)
		}
	}()
}

// Stop closes the record channel and blocks until the listener has forwarded
// every posted record. No producer may post after Stop is called.
func (r *Relay) Stop() {
	close(r.records)
	<-r.done
}
