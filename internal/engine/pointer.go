package engine

import (
	"image"
	"math/rand/v2"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"

	"github.com/ConserveLee/uma-auto/internal/engine/screen"
)

// Clicker extends Pointer with the gestures the bots use between
// matches: taps inside a region, result-skipping triple clicks and
// parking the cursor away from tooltips.
type Clicker interface {
	Pointer
	ClickWithin(b screen.Box)
	TripleClick(x, y int)
	MoveAway()
}

// RobotPointer drives the real mouse. Coordinates are display-relative
// and shifted by the display origin before moving, so multi-monitor
// setups keep working.
type RobotPointer struct {
	display int
	random  bool // scatter ClickWithin taps instead of using the center
}

// NewRobotPointer creates a pointer for one display.
func NewRobotPointer(display int, random bool) *RobotPointer {
	return &RobotPointer{display: display, random: random}
}

// SetDisplay switches the target display.
func (p *RobotPointer) SetDisplay(display int) {
	p.display = display
}

func (p *RobotPointer) origin() image.Point {
	d := p.display
	if d < 0 || d >= screenshot.NumActiveDisplays() {
		d = 0
	}
	return screenshot.GetDisplayBounds(d).Min
}

// Click moves to the display-relative point and issues one left click.
func (p *RobotPointer) Click(x, y int) {
	o := p.origin()
	robotgo.MoveMouse(o.X+x, o.Y+y)
	robotgo.MilliSleep(30)
	robotgo.Click("left")
}

// ClickWithin taps somewhere inside the box. With randomization on,
// the tap lands in the middle 80% of the box so edge pixels that
// belong to neighbouring controls are never hit; otherwise it taps
// the center.
func (p *RobotPointer) ClickWithin(b screen.Box) {
	if !p.random || b.Width < 4 || b.Height < 4 {
		c := b.Center()
		p.Click(c.X, c.Y)
		return
	}
	pt := randomPointIn(b, 0.1)
	p.Click(pt.X, pt.Y)
}

// TripleClick taps the point three times, fast enough to skip result
// screens but spaced enough for the client to register each tap.
func (p *RobotPointer) TripleClick(x, y int) {
	o := p.origin()
	robotgo.MoveMouse(o.X+x, o.Y+y)
	for i := 0; i < 3; i++ {
		robotgo.MilliSleep(80)
		robotgo.Click("left")
	}
}

// MoveAway parks the cursor on a neutral spot so hover tooltips do not
// cover the regions the bot is about to read.
func (p *RobotPointer) MoveAway() {
	o := p.origin()
	x := 120 + rand.IntN(60)
	y := 300 + rand.IntN(120)
	robotgo.MoveMouse(o.X+x, o.Y+y)
}

// randomPointIn picks a uniform point inside b shrunk by pad (a
// fraction of each dimension) on every side.
func randomPointIn(b screen.Box, pad float64) image.Point {
	dx := int(float64(b.Width) * pad)
	dy := int(float64(b.Height) * pad)
	w := b.Width - 2*dx
	h := b.Height - 2*dy
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Point{
		X: b.Left + dx + rand.IntN(w),
		Y: b.Top + dy + rand.IntN(h),
	}
}
