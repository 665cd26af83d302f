package imagediff

import (
	"context"
	"sync"
	"time"
)

// DebounceInterval is how long Submit waits for the request stream to go
// quiet before starting a computation.
const DebounceInterval = 150 * time.Millisecond

// Request is one classification request. Requests are value objects; the
// runner never mutates the buffers.
type Request struct {
	OldPix []byte
	NewPix []byte
	Width  int
	Height int
	Opt    Options
}

// Completed pairs a finished result with the request generation that
// produced it.
type Completed struct {
	Result *Result
	Err    error
	Gen    uint64
}

// Runner serializes image-diff computations for one view: at most one in
// flight, new submissions debounced, and a superseded computation's
// result discarded instead of overwriting a newer one. Results are
// idempotent given the same inputs, so no hard cancellation is needed;
// the generation check before commit is the only guard.
type Runner struct {
	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	results chan Completed
}

// NewRunner creates a runner delivering results on a buffered channel
// the owning view drains.
func NewRunner() *Runner {
	return &Runner{results: make(chan Completed, 1)}
}

// Results is the delivery channel. Only results that were still current
// when they finished are sent.
func (r *Runner) Results() <-chan Completed { return r.results }

// Submit schedules a classification after the debounce interval. A
// newer Submit supersedes any pending or running one: the older
// computation finishes but its result is dropped at the generation
// check.
func (r *Runner) Submit(ctx context.Context, req Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	gen := r.gen

	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(DebounceInterval, func() {
		r.run(ctx, req, gen)
	})
}

// Generation returns the identifier of the most recent submission.
func (r *Runner) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

func (r *Runner) run(ctx context.Context, req Request, gen uint64) {
	if !r.current(gen) {
		return
	}
	res, err := Classify(ctx, req.OldPix, req.NewPix, req.Width, req.Height, req.Opt)
	if !r.current(gen) {
		// Superseded while computing; a newer result owns the view.
		return
	}

	// Drop a stale undelivered result rather than blocking.
	select {
	case <-r.results:
	default:
	}
	r.results <- Completed{Result: res, Err: err, Gen: gen}
}

func (r *Runner) current(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen == r.gen
}
