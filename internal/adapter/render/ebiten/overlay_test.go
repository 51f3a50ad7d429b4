package ebitenrender

import (
	"image"
	"image/color"
	"testing"

	"minimap/internal/app/minimap"
)

func TestAlphaScale(t *testing.T) {
	cases := []struct {
		in   int
		want float32
	}{
		{-5, 0},
		{0, 0},
		{255, 1},
		{300, 1},
	}
	for _, tc := range cases {
		if got := alphaScale(tc.in); got != tc.want {
			t.Fatalf("alphaScale(%d) got=%v want=%v", tc.in, got, tc.want)
		}
	}
	if got := alphaScale(128); got <= 0.5 || got >= 0.51 {
		t.Fatalf("alphaScale(128) got=%v", got)
	}
}

func TestOutlineRect(t *testing.T) {
	x, y, w, h := outlineRect(image.Rect(10, 20, 110, 70))
	if x != 10.5 || y != 20.5 || w != 99 || h != 49 {
		t.Fatalf("outline got=(%v,%v,%v,%v)", x, y, w, h)
	}
}

func TestFadeKeepsRGB(t *testing.T) {
	got := fade(color.NRGBA{R: 10, G: 20, B: 30, A: 200}, 0.5).(color.NRGBA)
	if got.R != 10 || got.G != 20 || got.B != 30 || got.A != 100 {
		t.Fatalf("fade got=%+v", got)
	}
}

func TestDrawSkipsHiddenFrames(t *testing.T) {
	o := NewOverlay()
	// a nil screen would panic if anything were drawn
	o.Draw(nil, minimap.Frame{Pending: true})
	if o.img != nil {
		t.Fatalf("hidden frame must not allocate")
	}
	o.Dispose()
}
