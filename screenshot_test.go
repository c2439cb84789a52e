package grove

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"overview", "overview"},
		{"  third person/jump  ", "third_person_jump"},
		{"v1.2-final", "v1.2-final"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		100, 50, 0, 200, // half-ish alpha
		10, 20, 30, 255, // opaque
		0, 0, 0, 0, // clear
	}
	img := unpremultiply(pixels, 3, 1)

	if got := img.Pix[0:4]; got[0] != 127 || got[1] != 63 || got[2] != 0 || got[3] != 200 {
		t.Errorf("premultiplied pixel = %v", got)
	}
	if got := img.Pix[4:8]; got[0] != 10 || got[1] != 20 || got[2] != 30 || got[3] != 255 {
		t.Errorf("opaque pixel = %v", got)
	}
	if got := img.Pix[8:12]; got[3] != 0 {
		t.Errorf("clear pixel = %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	img := unpremultiply([]byte{255, 0, 0, 255}, 1, 1)
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, img); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := decoded.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("bounds = %v", b)
	}
}

func TestWritePNGBadPath(t *testing.T) {
	img := unpremultiply(make([]byte, 4), 1, 1)
	if err := writePNG(filepath.Join(t.TempDir(), "missing", "shot.png"), img); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
