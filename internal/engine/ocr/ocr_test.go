package ocr

import (
	"image"
	"image/color"
	"testing"
)

func TestCleanDigits(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"123", "123"},
		{"l2O", "120"},
		{"S0%", "50"},
		{"T5", "15"},
		{"1O0%", "100"},
		{"B4D", "840"},
		{"x#y", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := CleanDigits(c.in); got != c.want {
			t.Errorf("CleanDigits(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPrepareDoublesAndBinarizes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			c := color.RGBA{R: 40, G: 40, B: 40, A: 255}
			if x >= 10 {
				c = color.RGBA{R: 220, G: 220, B: 220, A: 255}
			}
			src.SetRGBA(x, y, c)
		}
	}

	out := Prepare(src)
	if b := out.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("prepared bounds = %v, want 40x20", b)
	}

	gray, ok := out.(*image.Gray)
	if !ok {
		t.Fatalf("prepared image is %T, want *image.Gray", out)
	}
	// Away from the scaled edge the two halves must binarize to the
	// extremes.
	if v := gray.GrayAt(5, 10).Y; v != 0 {
		t.Errorf("dark half = %d, want 0", v)
	}
	if v := gray.GrayAt(35, 10).Y; v != 255 {
		t.Errorf("light half = %d, want 255", v)
	}
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if v := gray.GrayAt(x, y).Y; v != 0 && v != 255 {
				t.Fatalf("pixel (%d,%d) = %d, want pure black or white", x, y, v)
			}
		}
	}
}
