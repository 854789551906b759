package engine

import (
	"image"
	"sync"

	"github.com/kbinani/screenshot"
	"github.com/rs/zerolog/log"

	"github.com/ConserveLee/uma-auto/internal/engine/screen"
)

// Vision is the production Oracle: it resolves target names (template
// file paths), captures the configured display and runs the template
// search. Templates are cached after the first load; a missing file is
// reported once and then treated as a normal miss.
type Vision struct {
	searcher *screen.Searcher
	display  int

	mu       sync.Mutex
	cache    map[string]image.Image
	reported map[string]bool
}

// NewVision creates a Vision for one display.
func NewVision(display int) *Vision {
	return &Vision{
		searcher: screen.NewSearcher(),
		display:  display,
		cache:    make(map[string]image.Image),
		reported: make(map[string]bool),
	}
}

// SetDisplay switches the captured display.
func (v *Vision) SetDisplay(display int) {
	v.mu.Lock()
	v.display = display
	v.mu.Unlock()
}

// Display returns the captured display index.
func (v *Vision) Display() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.display
}

// Locate captures the requested region and searches it for the target
// template. A missing or unreadable template yields OutcomeMissingAsset
// with a nil error; only capture failures are errors.
func (v *Vision) Locate(target string, opt Options) (LocateResult, error) {
	tpl, ok := v.template(target)
	if !ok {
		return LocateResult{Outcome: OutcomeMissingAsset}, nil
	}

	display := v.Display()
	var capture *image.RGBA
	var err error
	if opt.Region.Empty() {
		capture, err = v.searcher.CaptureDisplay(display)
	} else {
		capture, err = v.searcher.CaptureRegion(display, opt.Region)
	}
	if err != nil {
		return LocateResult{}, err
	}

	box, found := v.searcher.FindTemplate(capture, tpl, opt.Threshold)
	if !found {
		return LocateResult{Outcome: OutcomeNoMatch}, nil
	}
	if !opt.Region.Empty() {
		box.Left += opt.Region.Min.X
		box.Top += opt.Region.Min.Y
	}
	return LocateResult{Outcome: OutcomeFound, Box: box}, nil
}

// LocateAll finds every hit of the target in the region, for icon
// counting. Misses and missing templates return an empty slice.
func (v *Vision) LocateAll(target string, opt Options) ([]screen.Box, error) {
	tpl, ok := v.template(target)
	if !ok {
		return nil, nil
	}

	display := v.Display()
	var capture *image.RGBA
	var err error
	if opt.Region.Empty() {
		capture, err = v.searcher.CaptureDisplay(display)
	} else {
		capture, err = v.searcher.CaptureRegion(display, opt.Region)
	}
	if err != nil {
		return nil, err
	}

	boxes := v.searcher.FindAllTemplates(capture, tpl, opt.Threshold)
	if !opt.Region.Empty() {
		for i := range boxes {
			boxes[i].Left += opt.Region.Min.X
			boxes[i].Top += opt.Region.Min.Y
		}
	}
	return boxes, nil
}

// Capture exposes a raw region grab for pixel reads (energy bar,
// brightness checks) and the status server.
func (v *Vision) Capture(region image.Rectangle) (*image.RGBA, error) {
	display := v.Display()
	if region.Empty() {
		return v.searcher.CaptureDisplay(display)
	}
	return v.searcher.CaptureRegion(display, region)
}

// DisplayBounds returns the bounds of the captured display.
func (v *Vision) DisplayBounds() image.Rectangle {
	display := v.Display()
	if display < 0 || display >= screenshot.NumActiveDisplays() {
		display = 0
	}
	return screenshot.GetDisplayBounds(display)
}

// template loads and caches the target file. Failures are logged the
// first time only; repeated polling should not spam the log.
func (v *Vision) template(target string) (image.Image, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if tpl, ok := v.cache[target]; ok {
		return tpl, true
	}
	tpl, err := v.searcher.LoadImage(target)
	if err != nil {
		if !v.reported[target] {
			v.reported[target] = true
			log.Warn().Err(err).Str("target", target).Msg("[Vision] template unavailable")
		}
		return nil, false
	}
	v.cache[target] = tpl
	return tpl, true
}
