package imagediff

import (
	"context"
	"errors"
	"testing"
)

// pixel builds a single RGBA pixel buffer.
func pixel(r, g, b, a byte) []byte {
	return []byte{r, g, b, a}
}

func classifyOne(t *testing.T, oldPix, newPix []byte, opt Options) Counts {
	t.Helper()
	res, err := Classify(context.Background(), oldPix, newPix, 1, 1, opt)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	return res.Counts
}

func TestClassifySinglePixels(t *testing.T) {
	opt := DefaultOptions()

	tests := []struct {
		name   string
		oldPix []byte
		newPix []byte
		want   Counts
	}{
		{
			name:   "opaque black vs opaque white is changed",
			oldPix: pixel(0, 0, 0, 255),
			newPix: pixel(255, 255, 255, 255),
			want:   Counts{Changed: 1},
		},
		{
			name:   "both transparent ignores RGB",
			oldPix: pixel(0, 0, 0, 5),
			newPix: pixel(255, 255, 255, 5),
			want:   Counts{Unchanged: 1},
		},
		{
			name:   "old transparent new opaque is added",
			oldPix: pixel(0, 0, 0, 0),
			newPix: pixel(10, 20, 30, 255),
			want:   Counts{Added: 1},
		},
		{
			name:   "old opaque new transparent is removed",
			oldPix: pixel(10, 20, 30, 255),
			newPix: pixel(0, 0, 0, 3),
			want:   Counts{Removed: 1},
		},
		{
			name:   "small distance below threshold is unchanged",
			oldPix: pixel(100, 100, 100, 255),
			newPix: pixel(103, 100, 100, 255),
			want:   Counts{Unchanged: 1},
		},
		{
			name:   "distance just above threshold is changed",
			oldPix: pixel(100, 100, 100, 255),
			newPix: pixel(111, 100, 100, 255),
			want:   Counts{Changed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyOne(t, tt.oldPix, tt.newPix, opt); got != tt.want {
				t.Errorf("counts = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassifyCountsSumToTotal(t *testing.T) {
	w, h := 7, 5
	oldPix := make([]byte, 4*w*h)
	newPix := make([]byte, 4*w*h)
	for i := 0; i < w*h; i++ {
		// A mix of transparent, matching, and diverging pixels.
		oldPix[i*4] = byte(i * 3)
		oldPix[i*4+3] = byte(i * 11 % 256)
		newPix[i*4] = byte(i * 7)
		newPix[i*4+3] = byte(i * 17 % 256)
	}

	for threshold := 0; threshold <= 100; threshold += 10 {
		res, err := Classify(context.Background(), oldPix, newPix, w, h, Options{
			AlphaThreshold: DefaultAlphaThreshold,
			ColorThreshold: threshold,
		})
		if err != nil {
			t.Fatalf("threshold %d: %v", threshold, err)
		}
		if res.Counts.Total() != w*h {
			t.Errorf("threshold %d: total = %d, want %d", threshold, res.Counts.Total(), w*h)
		}
	}
}

// Raising the color threshold can only move pixels from changed to
// unchanged, never the other way.
func TestClassifyChangedMonotonic(t *testing.T) {
	w, h := 16, 16
	oldPix := make([]byte, 4*w*h)
	newPix := make([]byte, 4*w*h)
	for i := 0; i < w*h; i++ {
		oldPix[i*4], oldPix[i*4+1], oldPix[i*4+2], oldPix[i*4+3] = byte(i), byte(i/2), byte(i/3), 255
		newPix[i*4], newPix[i*4+1], newPix[i*4+2], newPix[i*4+3] = byte(i+i%13), byte(i/2), byte(i/3), 255
	}

	prev := -1
	for threshold := 0; threshold <= 100; threshold++ {
		res, err := Classify(context.Background(), oldPix, newPix, w, h, Options{
			AlphaThreshold: DefaultAlphaThreshold,
			ColorThreshold: threshold,
		})
		if err != nil {
			t.Fatal(err)
		}
		if prev >= 0 && res.Counts.Changed > prev {
			t.Fatalf("threshold %d: changed grew from %d to %d", threshold, prev, res.Counts.Changed)
		}
		prev = res.Counts.Changed
	}
}

func TestClassifyOverlayColors(t *testing.T) {
	// Four pixels: added, removed, changed, unchanged.
	var oldPix, newPix []byte
	for _, p := range [][2][]byte{
		{pixel(0, 0, 0, 0), pixel(10, 10, 10, 255)},
		{pixel(50, 50, 50, 255), pixel(0, 0, 0, 0)},
		{pixel(0, 0, 0, 255), pixel(255, 255, 255, 255)},
		{pixel(80, 80, 80, 200), pixel(80, 80, 80, 200)},
	} {
		oldPix = append(oldPix, p[0]...)
		newPix = append(newPix, p[1]...)
	}

	res, err := Classify(context.Background(), oldPix, newPix, 4, 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	pix := res.Overlay.Pix
	if pix[0] != 0 || pix[1] != 255 || pix[2] != 0 {
		t.Errorf("added pixel painted %v, want green", pix[0:4])
	}
	if pix[4] != 255 || pix[5] != 0 || pix[6] != 0 {
		t.Errorf("removed pixel painted %v, want red", pix[4:8])
	}
	if pix[8] != 255 || pix[9] != 0 || pix[10] != 255 {
		t.Errorf("changed pixel painted %v, want magenta", pix[8:12])
	}
	// Unchanged keeps the new image's RGB at 30% of its alpha.
	if pix[12] != 80 || pix[15] != 200*30/100 {
		t.Errorf("unchanged pixel painted %v, want dimmed new pixel", pix[12:16])
	}
}

func TestClassifySizeMismatch(t *testing.T) {
	_, err := Classify(context.Background(), make([]byte, 8), make([]byte, 4), 1, 1, DefaultOptions())
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("err = %v, want ErrSizeMismatch", err)
	}
}

func TestClassifyZeroPixels(t *testing.T) {
	res, err := Classify(context.Background(), nil, nil, 0, 0, DefaultOptions())
	if err != nil {
		t.Fatalf("zero-size canvas should be a normal degenerate result, got %v", err)
	}
	if res.Counts.Total() != 0 {
		t.Errorf("total = %d, want 0", res.Counts.Total())
	}
}

func TestClassifyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w, h := 300, 300
	_, err := Classify(ctx, make([]byte, 4*w*h), make([]byte, 4*w*h), w, h, DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCountsPercent(t *testing.T) {
	c := Counts{Added: 25, Removed: 25, Changed: 0, Unchanged: 50}
	if got := c.Percent(c.Added); got != 25 {
		t.Errorf("Percent = %v, want 25", got)
	}
	var empty Counts
	if got := empty.Percent(0); got != 0 {
		t.Errorf("empty Percent = %v, want 0", got)
	}
}
