// Package web serves the optional status endpoint: liveness, the
// latest per-mode bot status and a display snapshot for checking on a
// run from another machine.
package web

import (
	"bytes"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ConserveLee/uma-auto/internal/engine/screen"
)

// Board collects the latest status line per bot mode. Panels write,
// the HTTP handlers read. All methods are safe on a nil receiver so
// panels never have to care whether the server is enabled.
type Board struct {
	mu       sync.RWMutex
	statuses map[string]string
	updated  map[string]time.Time
	display  int
}

func NewBoard() *Board {
	return &Board{
		statuses: make(map[string]string),
		updated:  make(map[string]time.Time),
	}
}

// Set records the current status line of one mode.
func (b *Board) Set(mode, status string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.statuses[mode] = status
	b.updated[mode] = time.Now()
	b.mu.Unlock()
}

// SetDisplay records which display the bots are watching, so the
// snapshot endpoint captures the right one.
func (b *Board) SetDisplay(display int) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.display = display
	b.mu.Unlock()
}

func (b *Board) Display() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.display
}

type modeStatus struct {
	Status  string    `json:"status"`
	Updated time.Time `json:"updated"`
}

func (b *Board) snapshot() map[string]modeStatus {
	out := make(map[string]modeStatus)
	if b == nil {
		return out
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for mode, status := range b.statuses {
		out[mode] = modeStatus{Status: status, Updated: b.updated[mode]}
	}
	return out
}

// Serve runs the status server until the listener fails. Call it in a
// goroutine; a bind failure is logged, never fatal.
func Serve(addr string, board *Board) {
	r := Router(board)
	log.Info().Str("addr", addr).Msg("status server listening")
	if err := r.Run(addr); err != nil {
		log.Error().Err(err).Msg("status server stopped")
	}
}

// Router builds the handler tree. Split from Serve so tests can drive
// it through httptest.
func Router(board *Board) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLog())

	searcher := screen.NewSearcher()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"display": board.Display(),
			"modes":   board.snapshot(),
		})
	})

	r.GET("/screenshot.png", func(c *gin.Context) {
		img, err := searcher.CaptureDisplay(board.Display())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	})

	return r
}

// requestLog is a minimal zerolog access log.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	}
}
