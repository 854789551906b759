package engine

import (
	"context"
	"sync"
	"time"
)

// Runner owns the lifecycle of a bot loop: Start launches the loop
// goroutine with a cancellable context, Stop cancels it and waits for
// the loop to drain. Both bots embed one.
type Runner struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool

	// UI callbacks, all optional.
	LogFunc    func(format string, args ...interface{})
	StatusFunc func(status string)
	DebugFunc  func(format string, args ...interface{})
}

// Start launches loop in its own goroutine. A second Start while
// running is a no-op.
func (r *Runner) Start(loop func(ctx context.Context)) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		loop(ctx)
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()
}

// Stop cancels the loop and blocks until it returns. Safe to call
// when not running.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// Running reports whether the loop is live.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Log forwards to LogFunc when set.
func (r *Runner) Log(format string, args ...interface{}) {
	if r.LogFunc != nil {
		r.LogFunc(format, args...)
	}
}

// Status forwards to StatusFunc when set.
func (r *Runner) Status(status string) {
	if r.StatusFunc != nil {
		r.StatusFunc(status)
	}
}

// Sleep blocks for d or until ctx is cancelled, returning ctx.Err()
// in that case. Bot loops use it for every pause so Stop interrupts
// them promptly.
func Sleep(ctx context.Context, d time.Duration) error {
	return sleepCtx(ctx, d)
}

// Debug forwards to DebugFunc when set.
func (r *Runner) Debug(format string, args ...interface{}) {
	if r.DebugFunc != nil {
		r.DebugFunc(format, args...)
	}
}
