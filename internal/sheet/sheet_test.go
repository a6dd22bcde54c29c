package sheet

import (
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/portal/render"
)

func filledTarget(w, h int, c color.RGBA) *render.PixmapTarget {
	t := render.NewPixmapTarget(w, h)
	t.Clear(c)
	return t
}

func TestComposeLayout(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		cols, rows int
	}{
		{"one", 1, 1, 1},
		{"three", 3, 2, 2},
		{"four", 4, 2, 2},
		{"five", 5, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targets := make([]render.RenderTarget, tt.n)
			for i := range targets {
				targets[i] = filledTarget(40, 20, color.RGBA{R: 255, A: 255})
			}
			img := Compose(targets, 10)
			wantW := tt.cols*10 + (tt.cols+1)*Gap
			wantH := tt.rows*5 + (tt.rows+1)*Gap
			if b := img.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
				t.Errorf("Compose() size = %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
			}
		})
	}
}

func TestComposeContent(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	gpu, err := render.NewTextureTarget(render.NullDeviceHandle{},
		render.DefaultTextureDescriptor(8, 8, gputypes.TextureFormatRGBA8Unorm))
	if err != nil {
		t.Fatalf("NewTextureTarget() = %v", err)
	}
	targets := []render.RenderTarget{filledTarget(8, 8, red), filledTarget(8, 8, green), gpu}

	img := Compose(targets, 6)
	center := func(i int) color.RGBA {
		x := Gap + (i%2)*(6+Gap) + 3
		y := Gap + (i/2)*(6+Gap) + 3
		return img.RGBAAt(x, y)
	}
	if got := center(0); got != red {
		t.Errorf("thumbnail 0 = %v, want %v", got, red)
	}
	if got := center(1); got != green {
		t.Errorf("thumbnail 1 = %v, want %v", got, green)
	}
	if got := center(2); got != placeholder {
		t.Errorf("GPU thumbnail = %v, want placeholder", got)
	}
	if got := img.RGBAAt(0, 0); got != background {
		t.Errorf("gap = %v, want background", got)
	}
}

func TestComposeEmpty(t *testing.T) {
	if Compose(nil, 10) != nil {
		t.Error("Compose(nil) should be nil")
	}
	if Compose([]render.RenderTarget{filledTarget(2, 2, color.RGBA{})}, 0) != nil {
		t.Error("Compose with zero width should be nil")
	}
}
