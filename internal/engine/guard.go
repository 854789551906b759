package engine

import (
	"image"
	"strconv"
	"sync"
	"time"
)

// StallGuard notices when a bot keeps repeating the same action
// without the screen moving on. Actions are keyed by target plus a
// quantized position so tiny render jitter still counts as the same
// spot; a quiet period resets the streak.
type StallGuard struct {
	mu     sync.Mutex
	key    string
	count  int
	last   time.Time
	limit  int
	window time.Duration
	quant  int
}

// NewStallGuard creates a guard that trips after limit consecutive
// identical actions, where actions more than window apart never chain.
func NewStallGuard(limit int, window time.Duration) *StallGuard {
	return &StallGuard{
		limit:  limit,
		window: window,
		quant:  20,
	}
}

// Record notes one action and returns the current streak length.
func (g *StallGuard) Record(target string, p image.Point) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := target + "@" + strconv.Itoa((p.X/g.quant)*g.quant) + "," + strconv.Itoa((p.Y/g.quant)*g.quant)
	now := time.Now()
	if key == g.key && now.Sub(g.last) <= g.window {
		g.count++
	} else {
		g.key = key
		g.count = 1
	}
	g.last = now
	return g.count
}

// Exceeded reports whether the streak hit the limit.
func (g *StallGuard) Exceeded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count >= g.limit
}

// Reset clears the streak, to be called whenever the bot observes
// real progress.
func (g *StallGuard) Reset() {
	g.mu.Lock()
	g.key = ""
	g.count = 0
	g.mu.Unlock()
}
