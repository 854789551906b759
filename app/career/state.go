package career

import (
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"

	"github.com/ConserveLee/uma-auto/internal/assets"
	"github.com/ConserveLee/uma-auto/internal/constants"
)

// Moods ordered worst to best. The index is the comparable value.
var Moods = []string{"AWFUL", "BAD", "NORMAL", "GOOD", "GREAT"}

// MoodIndex returns the position of a known mood name, or -1.
func MoodIndex(mood string) int {
	for i, m := range Moods {
		if m == mood {
			return i
		}
	}
	return -1
}

// moodPatterns catch the usual OCR mangling per mood before the edit
// distance fallback runs.
var moodPatterns = map[string][]string{
	"AWFUL":  {"AWFU", "AVVFUL", "AWFL"},
	"BAD":    {"8AD", "BAO"},
	"NORMAL": {"NORMA", "N0RMAL", "NORMAI", "NORMAT"},
	"GOOD":   {"G00D", "GO0D", "G0OD", "GOOO"},
	"GREAT":  {"GREA", "6REAT", "GRFAT"},
}

// ParseMood fuzzy-matches the OCR'd mood label. Exact wins, then the
// known confusion patterns, then prefix/suffix containment, then a
// two-edit tolerance. Unknown text returns an error.
func ParseMood(text string) (string, error) {
	up := strings.ToUpper(strings.TrimSpace(text))
	up = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, up)
	if up == "" {
		return "", fmt.Errorf("empty mood text")
	}

	for _, m := range Moods {
		if up == m {
			return m, nil
		}
	}
	for _, m := range Moods {
		for _, p := range moodPatterns[m] {
			if strings.Contains(up, p) {
				return m, nil
			}
		}
	}
	for _, m := range Moods {
		if len(up) >= 3 && (strings.HasPrefix(m, up) || strings.HasSuffix(m, up) || strings.Contains(up, m)) {
			return m, nil
		}
	}
	best, bestDist := "", 3
	for _, m := range Moods {
		if d := editDistance(up, m); d < bestDist {
			best, bestDist = m, d
		}
	}
	if best != "" {
		return best, nil
	}
	return "", fmt.Errorf("unrecognized mood %q", text)
}

func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// EnergyPercent scans the energy bar scanline and reports the filled
// percentage. The empty portion of the bar renders as a flat gray
// (118,117,118); everything else counts as filled. A bar that cannot
// be read reports 100 so the bot never rests on a misread.
func EnergyPercent(img image.Image, bar assets.Line) int {
	if img == nil {
		return 100
	}
	b := img.Bounds()
	width := bar.X2 - bar.X1
	if width <= 0 {
		return 100
	}
	gray := 0
	sampled := 0
	for x := bar.X1; x < bar.X2; x++ {
		px, py := b.Min.X+x, b.Min.Y+bar.Y1
		if px < b.Min.X || px >= b.Max.X || py < b.Min.Y || py >= b.Max.Y {
			continue
		}
		sampled++
		r, g, bl, _ := img.At(px, py).RGBA()
		if near(uint8(r>>8), 118) && near(uint8(g>>8), 117) && near(uint8(bl>>8), 118) {
			gray++
		}
	}
	if sampled == 0 {
		return 100
	}
	pct := 100 - gray*100/width
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

func near(v, target uint8) bool {
	d := int(v) - int(target)
	return d >= -2 && d <= 2
}

// turnFixes handles the digit strip above the date, where T, I and l
// read as 1, O as 0 and S as 5.
var turnFixes = strings.NewReplacer(
	"T", "1", "I", "1", "l", "1", "|", "1",
	"O", "0", "o", "0",
	"S", "5", "s", "5",
)

var turnDigits = regexp.MustCompile(`\d+`)

// ParseTurn decodes the "turns until race" counter. "Race Day" yields
// zero remaining turns.
func ParseTurn(text string) (int, error) {
	t := strings.TrimSpace(text)
	if strings.Contains(strings.ToUpper(t), "RACE") {
		return 0, nil
	}
	fixed := turnFixes.Replace(t)
	m := turnDigits.FindString(fixed)
	if m == "" {
		return 0, fmt.Errorf("unreadable turn counter %q", text)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, err
	}
	return n, nil
}

var failurePattern = regexp.MustCompile(`(\d{1,3})\s*%`)

// ParseFailureChance extracts the training failure percentage. Text
// with no percentage reads as zero risk.
func ParseFailureChance(text string) int {
	m := failurePattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n > 100 {
		return 0
	}
	return n
}

// ParseStatValue decodes one stat number. Values outside (0,1200] are
// OCR garbage and rejected.
func ParseStatValue(text string) (int, error) {
	digits := turnDigits.FindString(turnFixes.Replace(strings.TrimSpace(text)))
	if digits == "" {
		return 0, fmt.Errorf("unreadable stat %q", text)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > 1200 {
		return 0, fmt.Errorf("stat value %d out of range", n)
	}
	return n, nil
}

// Brightness is the mean pixel luma of an image region, used to tell
// an enabled infirmary button (bright) from a disabled one (dimmed).
func Brightness(img image.Image) float64 {
	if img == nil {
		return 0
	}
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	var sum float64
	var count int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			sum += 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			count++
		}
	}
	return sum / float64(count)
}

// InfirmaryEnabled applies the brightness cutoff.
func InfirmaryEnabled(img image.Image) bool {
	return Brightness(img) > constants.InfirmaryBrightness
}
