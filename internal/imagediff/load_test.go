package imagediff

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadPairCanvasIsMaxOfDimensions(t *testing.T) {
	oldBytes := encodePNG(t, 2, 5, color.RGBA{R: 255, A: 255})
	newBytes := encodePNG(t, 4, 3, color.RGBA{G: 255, A: 255})

	pair, err := LoadPair(oldBytes, newBytes)
	if err != nil {
		t.Fatalf("LoadPair: %v", err)
	}
	if pair.Width != 4 || pair.Height != 5 {
		t.Fatalf("canvas = %dx%d, want 4x5", pair.Width, pair.Height)
	}
	if len(pair.OldPix) != 4*4*5 || len(pair.NewPix) != 4*4*5 {
		t.Fatalf("buffer sizes = %d/%d, want %d", len(pair.OldPix), len(pair.NewPix), 4*4*5)
	}

	// Pixel (3,0) exists only in the new image; the old side must be
	// fully transparent there, so classification calls it added.
	res, err := Classify(context.Background(), pair.OldPix, pair.NewPix, pair.Width, pair.Height, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Counts.Added == 0 {
		t.Error("uncovered new-side pixels should classify as added")
	}
	if res.Counts.Removed == 0 {
		t.Error("uncovered old-side pixels should classify as removed")
	}
	if res.Counts.Total() != 4*5 {
		t.Errorf("total = %d, want %d", res.Counts.Total(), 4*5)
	}
}

func TestLoadPairMissingSide(t *testing.T) {
	newBytes := encodePNG(t, 2, 2, color.RGBA{B: 255, A: 255})

	pair, err := LoadPair(nil, newBytes)
	if err != nil {
		t.Fatalf("LoadPair: %v", err)
	}
	res, err := Classify(context.Background(), pair.OldPix, pair.NewPix, pair.Width, pair.Height, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Counts.Added != 4 {
		t.Errorf("added = %d, want 4 (entire new image)", res.Counts.Added)
	}
}

func TestLoadPairNoBytes(t *testing.T) {
	if _, err := LoadPair(nil, nil); err == nil {
		t.Error("expected error when both sides are empty")
	}
}

func TestLoadPairBadBytes(t *testing.T) {
	if _, err := LoadPair([]byte("not an image"), nil); err == nil {
		t.Error("expected decode error")
	}
}
