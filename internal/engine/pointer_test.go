package engine

import (
	"testing"

	"github.com/ConserveLee/uma-auto/internal/engine/screen"
)

func TestRandomPointInStaysInsidePaddedBox(t *testing.T) {
	b := screen.Box{Left: 100, Top: 200, Width: 50, Height: 30}
	// pad 0.1 shrinks to x in [105,145), y in [203,227).
	for i := 0; i < 500; i++ {
		p := randomPointIn(b, 0.1)
		if p.X < 105 || p.X >= 145 {
			t.Fatalf("x = %d outside padded range [105,145)", p.X)
		}
		if p.Y < 203 || p.Y >= 227 {
			t.Fatalf("y = %d outside padded range [203,227)", p.Y)
		}
	}
}

func TestRandomPointInDegenerateBox(t *testing.T) {
	// Padding shrinks these below one pixel; the point must still land
	// inside the original box.
	cases := []struct {
		b   screen.Box
		pad float64
	}{
		{screen.Box{Left: 10, Top: 10, Width: 2, Height: 2}, 0.5},
		{screen.Box{Left: 10, Top: 10, Width: 3, Height: 3}, 0.4},
		{screen.Box{Left: 10, Top: 10, Width: 1, Height: 1}, 0.1},
	}
	for _, c := range cases {
		for i := 0; i < 100; i++ {
			p := randomPointIn(c.b, c.pad)
			if p.X < c.b.Left || p.X >= c.b.Left+c.b.Width || p.Y < c.b.Top || p.Y >= c.b.Top+c.b.Height {
				t.Fatalf("point %v escaped box %v at pad %v", p, c.b, c.pad)
			}
		}
	}
}
