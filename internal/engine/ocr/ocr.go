// Package ocr wraps a tesseract client for the small fixed-position
// text reads the career bot depends on: dates, turn counters, moods,
// stat values and failure percentages.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/image/draw"
)

const digitWhitelist = "0123456789"

// Reader is a mutex-guarded tesseract client. gosseract clients are
// not safe for concurrent use, so every read serializes here.
type Reader struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewReader starts a tesseract client for the given language. The
// error surfaces missing tesseract installs; callers degrade instead
// of crashing.
func NewReader(lang string) (*Reader, error) {
	client := gosseract.NewClient()
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("ocr language %q: %w", lang, err)
	}
	return &Reader{client: client}, nil
}

// Close releases the tesseract client.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}

// Text reads free text from the image.
func (r *Reader) Text(img image.Image) (string, error) {
	return r.read(img, gosseract.PSM_SINGLE_BLOCK, "")
}

// Line reads a single line, the right mode for the narrow UI strips.
func (r *Reader) Line(img image.Image) (string, error) {
	return r.read(img, gosseract.PSM_SINGLE_LINE, "")
}

// Digits reads a numeric field with a digit whitelist and returns the
// cleaned string (which may still be empty when nothing was legible).
func (r *Reader) Digits(img image.Image) (string, error) {
	text, err := r.read(img, gosseract.PSM_SINGLE_LINE, digitWhitelist)
	if err != nil {
		return "", err
	}
	return CleanDigits(text), nil
}

func (r *Reader) read(img image.Image, psm gosseract.PageSegMode, whitelist string) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", fmt.Errorf("empty ocr input")
	}
	prepared, err := encodePNG(Prepare(img))
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.client.SetWhitelist(whitelist); err != nil {
		return "", fmt.Errorf("ocr whitelist: %w", err)
	}
	if err := r.client.SetPageSegMode(psm); err != nil {
		return "", fmt.Errorf("ocr page mode: %w", err)
	}
	if err := r.client.SetImageFromBytes(prepared); err != nil {
		return "", fmt.Errorf("ocr image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr read: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Prepare upscales the capture and flattens it to high-contrast
// grayscale. Game UI text is small and anti-aliased; tesseract does
// noticeably better on a 2x thresholded version.
func Prepare(img image.Image) image.Image {
	b := img.Bounds()
	scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*2, b.Dy()*2))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Over, nil)

	gray := image.NewGray(scaled.Bounds())
	draw.Draw(gray, gray.Bounds(), scaled, scaled.Bounds().Min, draw.Src)

	// Threshold around the mean so both light-on-dark and dark-on-light
	// strips binarize sensibly.
	var sum, n int
	gb := gray.Bounds()
	for y := gb.Min.Y; y < gb.Max.Y; y++ {
		for x := gb.Min.X; x < gb.Max.X; x++ {
			sum += int(gray.GrayAt(x, y).Y)
			n++
		}
	}
	if n == 0 {
		return gray
	}
	mean := uint8(sum / n)
	out := image.NewGray(gb)
	for y := gb.Min.Y; y < gb.Max.Y; y++ {
		for x := gb.Min.X; x < gb.Max.X; x++ {
			if gray.GrayAt(x, y).Y > mean {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode ocr image: %w", err)
	}
	return buf.Bytes(), nil
}

// digitFixes are the usual tesseract confusions on the game's digit
// font.
var digitFixes = strings.NewReplacer(
	"O", "0", "o", "0", "Q", "0", "D", "0",
	"l", "1", "I", "1", "i", "1", "|", "1", "T", "1",
	"Z", "2", "z", "2",
	"A", "4",
	"S", "5", "s", "5",
	"G", "6", "b", "6",
	"B", "8",
	"g", "9", "q", "9",
)

// CleanDigits maps confusable glyphs to digits and drops everything
// else.
func CleanDigits(s string) string {
	s = digitFixes.Replace(s)
	var out strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out.WriteRune(r)
		}
	}
	return out.String()
}
