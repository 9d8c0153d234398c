package aspen

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-spawn", "after-spawn"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		100, 50, 0, 255, // opaque: unchanged
		64, 32, 0, 128, // half alpha: doubled
		10, 20, 30, 0, // transparent: unchanged
		200, 0, 0, 100, // clamped at 255
	}
	img := unpremultiply(pixels, 2, 2)

	want := []color.NRGBA{
		{100, 50, 0, 255},
		{127, 63, 0, 128},
		{10, 20, 30, 0},
		{255, 0, 0, 100},
	}
	for i, w := range want {
		if got := img.NRGBAAt(i%2, i/2); got != w {
			t.Errorf("pixel %d = %v, want %v", i, got, w)
		}
	}
}

func TestWritePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.SetNRGBA(1, 2, color.NRGBA{1, 2, 3, 255})
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, img); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", got.Bounds(), img.Bounds())
	}
	if r, g, b, _ := got.At(1, 2).RGBA(); r>>8 != 1 || g>>8 != 2 || b>>8 != 3 {
		t.Errorf("pixel = %v", got.At(1, 2))
	}

	if err := writePNG(filepath.Join(t.TempDir(), "missing", "x.png"), img); err == nil {
		t.Error("writePNG into a missing directory succeeded")
	}
}

func TestScreenshotterQueue(t *testing.T) {
	g := newTestGame(t)
	s := NewScreenshotter(g.Game, t.TempDir())
	s.Queue("a")
	s.Queue("b")
	if s.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", s.Pending())
	}
	if g.Events().ListenerCount(GamePostRender.Name) != 1 {
		t.Error("screenshotter not attached to post render")
	}
	s.Detach()
	if g.Events().ListenerCount(GamePostRender.Name) != 0 {
		t.Error("Detach left the post render listener")
	}
}
