// Package engine ties perception (template search) to action
// (synthetic pointer input) with bounded, cancellable polling.
package engine

import (
	"context"
	"image"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ConserveLee/uma-auto/internal/constants"
	"github.com/ConserveLee/uma-auto/internal/engine/screen"
)

// Outcome classifies a single locate attempt.
type Outcome int

const (
	// OutcomeFound: the target was located at or above the threshold.
	OutcomeFound Outcome = iota
	// OutcomeNoMatch: the search ran but nothing cleared the threshold.
	OutcomeNoMatch
	// OutcomeMissingAsset: the template file is absent or unreadable.
	// Downstream handling is the same as a miss; the distinction only
	// feeds logging and diagnostics.
	OutcomeMissingAsset
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNoMatch:
		return "no match"
	case OutcomeMissingAsset:
		return "missing asset"
	}
	return "unknown"
}

// LocateResult is the outcome of one perception attempt.
type LocateResult struct {
	Outcome Outcome
	Box     screen.Box
}

// Found collapses the outcome to the boolean most callers consume:
// a missing asset reads as not found.
func (r LocateResult) Found() bool {
	return r.Outcome == OutcomeFound
}

// Options narrow a locate call. The zero value means the default
// confidence over the whole display.
type Options struct {
	Threshold float64         // 0 selects the default confidence
	Region    image.Rectangle // empty selects the whole display
}

// Policy bounds a polling loop.
type Policy struct {
	Attempts int
	Interval time.Duration
}

// Quick gives up after one attempt; Patient waits out an expected
// screen transition.
var (
	Quick   = Policy{Attempts: constants.QuickAttempts, Interval: constants.QuickInterval}
	Patient = Policy{Attempts: constants.PatientAttempts, Interval: constants.PatientInterval}
)

// PollResult reports how a polling loop ended.
type PollResult struct {
	Found    bool
	Attempts int        // perception attempts actually made
	Box      screen.Box // valid only when Found
}

// Oracle locates a named visual target on the game display.
type Oracle interface {
	Locate(target string, opt Options) (LocateResult, error)
}

// Pointer issues synthetic pointer actions in display coordinates.
type Pointer interface {
	Click(x, y int)
}

// Actor runs the locate/act loops against an Oracle and a Pointer.
// Actors hold no mutable state between calls; one instance can serve
// any number of goroutines.
type Actor struct {
	oracle  Oracle
	pointer Pointer
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewActor wires an Actor.
func NewActor(oracle Oracle, pointer Pointer) *Actor {
	return &Actor{
		oracle:  oracle,
		pointer: pointer,
		sleep:   sleepCtx,
	}
}

// Locate runs a single perception attempt.
func (a *Actor) Locate(target string, opt Options) (LocateResult, error) {
	return a.oracle.Locate(target, opt)
}

// Exists reports whether the target is currently visible. It never
// clicks and swallows capture errors as "not there right now".
func (a *Actor) Exists(target string, opt Options) bool {
	res, err := a.Locate(target, opt)
	if err != nil {
		log.Warn().Err(err).Str("target", target).Msg("[Actor] locate failed")
		return false
	}
	return res.Found()
}

// Poll runs probe up to pol.Attempts times, sleeping pol.Interval
// between attempts but never after the last one. Cancellation is
// honored before every attempt and during every sleep; a cancelled
// poll reports the attempts completed so far alongside ctx.Err().
func (a *Actor) Poll(ctx context.Context, pol Policy, probe func() (LocateResult, error)) (PollResult, error) {
	attempts := pol.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return PollResult{Attempts: i - 1}, err
		}
		res, err := probe()
		if err != nil {
			return PollResult{Attempts: i}, err
		}
		if res.Found() {
			return PollResult{Found: true, Attempts: i, Box: res.Box}, nil
		}
		if i < attempts {
			if err := a.sleep(ctx, pol.Interval); err != nil {
				return PollResult{Attempts: i}, err
			}
		}
	}
	return PollResult{Attempts: attempts}, nil
}

// WaitFor polls until the target shows up or the policy is exhausted.
// No pointer action is taken.
func (a *Actor) WaitFor(ctx context.Context, target string, pol Policy, opt Options) (PollResult, error) {
	return a.Poll(ctx, pol, func() (LocateResult, error) {
		return a.Locate(target, opt)
	})
}

// WaitGone polls until the target is no longer visible. Useful after a
// click that should dismiss a screen.
func (a *Actor) WaitGone(ctx context.Context, target string, pol Policy, opt Options) (PollResult, error) {
	return a.Poll(ctx, pol, func() (LocateResult, error) {
		res, err := a.Locate(target, opt)
		if err != nil {
			return LocateResult{}, err
		}
		if res.Found() {
			return LocateResult{Outcome: OutcomeNoMatch}, nil
		}
		return LocateResult{Outcome: OutcomeFound}, nil
	})
}

// ActOnMatch polls for the target and, on the first hit, issues
// exactly one click at the match center before returning. On
// exhaustion it returns with zero clicks issued. The hit click is the
// only side effect.
func (a *Actor) ActOnMatch(ctx context.Context, target string, pol Policy, opt Options) (PollResult, error) {
	res, err := a.WaitFor(ctx, target, pol, opt)
	if err != nil || !res.Found {
		return res, err
	}
	center := res.Box.Center()
	a.pointer.Click(center.X, center.Y)
	log.Debug().Str("target", target).Int("attempt", res.Attempts).
		Int("x", center.X).Int("y", center.Y).Msg("[Actor] clicked")
	return res, nil
}

// sleepCtx waits for d unless ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
