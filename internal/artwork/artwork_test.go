package artwork

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{600, 600, 1000, 600, 600},
		{1500, 1000, 1000, 1000, 666},
		{1000, 1500, 1000, 666, 1000},
		{2000, 2000, 500, 500, 500},
		{3000, 1, 1000, 1000, 1},
		{1200, 800, 0, 1200, 800},
	}

	for _, tt := range tests {
		w, h := fitWithin(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitWithin(%d, %d, %d) = %dx%d, expected %dx%d",
				tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestResize(t *testing.T) {
	out, err := Resize(encodePNG(t, 300, 200), 150)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Output is not an image: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, expected jpeg", format)
	}
	if cfg.Width != 150 || cfg.Height != 100 {
		t.Errorf("size = %dx%d, expected 150x100", cfg.Width, cfg.Height)
	}
}

func TestResizeKeepsSmallImages(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 30))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}

	out, err := Resize(buf.Bytes(), DefaultMaxSize)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 40 || cfg.Height != 30 {
		t.Errorf("size = %dx%d, expected 40x30", cfg.Width, cfg.Height)
	}
}

func TestResizeInvalidData(t *testing.T) {
	if _, err := Resize([]byte("not an image"), 100); err == nil {
		t.Error("Expected error for invalid image data")
	}
}

func TestExtension(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, image.NewGray(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"png", encodePNG(t, 4, 4), ".png"},
		{"jpeg", jpg.Bytes(), ".jpg"},
		{"unknown", []byte("not an image"), ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extension(tt.data); got != tt.expected {
				t.Errorf("Extension() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
