// Package screen provides display capture and template matching for
// the automation engine.
package screen

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoder for template files
	_ "image/png"  // register decoder for template files
	"math"
	"os"

	"github.com/kbinani/screenshot"

	"github.com/ConserveLee/uma-auto/internal/constants"
)

// Box is a template match: left/top corner plus the template size, in
// display-relative pixels.
type Box struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Center returns the click point of the match.
func (b Box) Center() image.Point {
	return image.Point{X: b.Left + b.Width/2, Y: b.Top + b.Height/2}
}

// Rect converts to the stdlib rectangle form.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Left+b.Width, b.Top+b.Height)
}

func (b Box) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.Left, b.Top, b.Width, b.Height)
}

// Searcher captures displays and matches templates against the capture.
// It holds no per-call state and is safe for concurrent use.
type Searcher struct{}

// NewSearcher creates a Searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// LoadImage decodes a template file.
func (s *Searcher) LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode template %s: %w", path, err)
	}
	return img, nil
}

// CaptureDisplay grabs the whole display.
func (s *Searcher) CaptureDisplay(displayID int) (*image.RGBA, error) {
	if displayID < 0 || displayID >= screenshot.NumActiveDisplays() {
		displayID = 0
	}
	bounds := screenshot.GetDisplayBounds(displayID)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", displayID, err)
	}
	return img, nil
}

// CaptureRegion grabs a sub-rectangle of the display. The rectangle is
// display-relative; it is clamped to the display bounds.
func (s *Searcher) CaptureRegion(displayID int, region image.Rectangle) (*image.RGBA, error) {
	if displayID < 0 || displayID >= screenshot.NumActiveDisplays() {
		displayID = 0
	}
	bounds := screenshot.GetDisplayBounds(displayID)
	abs := region.Add(bounds.Min).Intersect(bounds)
	if abs.Empty() {
		return nil, fmt.Errorf("capture region %v: outside display %d", region, displayID)
	}
	img, err := screenshot.CaptureRect(abs)
	if err != nil {
		return nil, fmt.Errorf("capture region %v: %w", region, err)
	}
	return img, nil
}

// FindTemplate scans screenImg for tpl and returns the best match at
// or above threshold, which grades the fraction of template pixels
// that must stay within the color tolerance (1.0 means every pixel).
// Fully transparent template pixels match anything. The returned box
// is relative to screenImg's origin.
func (s *Searcher) FindTemplate(screenImg, tpl image.Image, threshold float64) (Box, bool) {
	threshold = clampThreshold(threshold)

	sb := screenImg.Bounds()
	tb := tpl.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	if tw == 0 || th == 0 || tw > sb.Dx() || th > sb.Dy() {
		return Box{}, false
	}

	keys := keyPixels(tpl)
	best := Box{}
	bestScore := 0.0
	found := false

	for y := sb.Min.Y; y <= sb.Max.Y-th; y++ {
		for x := sb.Min.X; x <= sb.Max.X-tw; x++ {
			if !keysMatch(screenImg, keys, x, y) {
				continue
			}
			score, ok := matchAt(screenImg, tpl, x, y, threshold)
			if !ok {
				continue
			}
			if !found || score > bestScore {
				found = true
				bestScore = score
				best = Box{Left: x - sb.Min.X, Top: y - sb.Min.Y, Width: tw, Height: th}
			}
		}
	}
	return best, found
}

// FindAllTemplates returns every non-overlapping match at or above
// threshold, scanning top-left to bottom-right. Used for icon counting
// where the same template appears several times.
func (s *Searcher) FindAllTemplates(screenImg, tpl image.Image, threshold float64) []Box {
	threshold = clampThreshold(threshold)

	sb := screenImg.Bounds()
	tb := tpl.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	if tw == 0 || th == 0 || tw > sb.Dx() || th > sb.Dy() {
		return nil
	}

	keys := keyPixels(tpl)
	var matches []Box

	for y := sb.Min.Y; y <= sb.Max.Y-th; y++ {
		for x := sb.Min.X; x <= sb.Max.X-tw; x++ {
			if !keysMatch(screenImg, keys, x, y) {
				continue
			}
			if _, ok := matchAt(screenImg, tpl, x, y, threshold); ok {
				matches = append(matches, Box{Left: x - sb.Min.X, Top: y - sb.Min.Y, Width: tw, Height: th})
				// Skip ahead so overlapping hits collapse to one.
				x += tw / 2
			}
		}
	}
	return matches
}

// keyPixel is a cheap pre-check sample: three pixels rule out most
// positions before the full scan.
type keyPixel struct {
	dx, dy  int
	r, g, b uint32
	opaque  bool
}

func keyPixels(tpl image.Image) [3]keyPixel {
	tb := tpl.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	spots := [3]image.Point{
		{0, 0},
		{tw / 2, th / 2},
		{tw - 1, th - 1},
	}
	var keys [3]keyPixel
	for i, p := range spots {
		r, g, b, a := rgba8(tpl, tb.Min.X+p.X, tb.Min.Y+p.Y)
		keys[i] = keyPixel{dx: p.X, dy: p.Y, r: r, g: g, b: b, opaque: a > 0}
	}
	return keys
}

func keysMatch(screenImg image.Image, keys [3]keyPixel, x, y int) bool {
	for _, k := range keys {
		if !k.opaque {
			continue
		}
		sr, sg, sb, _ := rgba8(screenImg, x+k.dx, y+k.dy)
		if !colorSimilar(sr, sg, sb, k.r, k.g, k.b, constants.ColorTolerance) {
			return false
		}
	}
	return true
}

// matchAt compares the template at one position and returns the
// similarity (fraction of opaque pixels within tolerance). It bails
// out early once the remaining pixels cannot reach the threshold.
func matchAt(screenImg, tpl image.Image, sx, sy int, threshold float64) (float64, bool) {
	tb := tpl.Bounds()
	maxFail := 1.0 - threshold

	total := 0
	failed := 0
	for ty := 0; ty < tb.Dy(); ty++ {
		for tx := 0; tx < tb.Dx(); tx++ {
			tr, tg, tbl, ta := rgba8(tpl, tb.Min.X+tx, tb.Min.Y+ty)
			if ta == 0 {
				continue
			}
			total++
			sr, sg, sbl, _ := rgba8(screenImg, sx+tx, sy+ty)
			if !colorSimilar(sr, sg, sbl, tr, tg, tbl, constants.ColorTolerance) {
				failed++
				if total > 100 && float64(failed)/float64(total) > maxFail {
					return 0, false
				}
			}
		}
	}
	if total == 0 {
		return 0, false
	}
	score := 1.0 - float64(failed)/float64(total)
	return score, score >= threshold
}

func rgba8(img image.Image, x, y int) (r, g, b, a uint32) {
	r, g, b, a = img.At(x, y).RGBA()
	return r >> 8, g >> 8, b >> 8, a >> 8
}

func colorSimilar(r1, g1, b1, r2, g2, b2 uint32, tolerance float64) bool {
	dr := int(r1) - int(r2)
	dg := int(g1) - int(g2)
	db := int(b1) - int(b2)
	return math.Sqrt(float64(dr*dr+dg*dg+db*db)) <= tolerance
}

func clampThreshold(t float64) float64 {
	if t <= 0 || t > 1 {
		return constants.DefaultConfidence
	}
	return t
}
