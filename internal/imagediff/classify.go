// Package imagediff computes a pixel-level visual difference between two
// equally-sized RGBA rasters, classifying every pixel as added, removed,
// changed, or unchanged with transparency-aware rules, and painting an
// overlay raster for display.
package imagediff

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// DefaultAlphaThreshold is the alpha cutoff below which a pixel counts
// as fully transparent.
const DefaultAlphaThreshold = 10

// DefaultColorThreshold is the default channel-distance cutoff for two
// opaque pixels to count as changed.
const DefaultColorThreshold = 10

// highlightAlpha is the alpha of painted added/removed/changed overlay
// pixels.
const highlightAlpha = 200

// chunkPixels is the number of pixels classified per cooperative slice.
// Chunk boundaries are pixel-aligned, never mid-pixel.
const chunkPixels = 65536

var ErrSizeMismatch = errors.New("pixel buffers do not match the given dimensions")

// Options control classification thresholds.
type Options struct {
	AlphaThreshold uint8
	ColorThreshold int // 0..100
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{AlphaThreshold: DefaultAlphaThreshold, ColorThreshold: DefaultColorThreshold}
}

// Counts are the per-category pixel totals. They always sum to
// width*height.
type Counts struct {
	Added     int
	Removed   int
	Changed   int
	Unchanged int
}

// Total returns the sum of all categories.
func (c Counts) Total() int {
	return c.Added + c.Removed + c.Changed + c.Unchanged
}

// Percent converts a category count to a percentage of the total.
func (c Counts) Percent(part int) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Result is a finished classification: category totals plus the painted
// overlay raster.
type Result struct {
	Counts  Counts
	Overlay *image.RGBA
	Width   int
	Height  int
}

// Classify runs the full classification in one call, yielding to ctx
// between pixel chunks. Both buffers must hold exactly 4*w*h bytes.
func Classify(ctx context.Context, oldPix, newPix []byte, w, h int, opt Options) (*Result, error) {
	if w < 0 || h < 0 || len(oldPix) != 4*w*h || len(newPix) != 4*w*h {
		return nil, fmt.Errorf("%w: old=%d new=%d want=%d", ErrSizeMismatch, len(oldPix), len(newPix), 4*w*h)
	}

	res := &Result{
		Overlay: image.NewRGBA(image.Rect(0, 0, w, h)),
		Width:   w,
		Height:  h,
	}

	total := w * h
	for start := 0; start < total; start += chunkPixels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + chunkPixels
		if end > total {
			end = total
		}
		classifyChunk(oldPix, newPix, res, start, end, opt)
	}
	return res, nil
}

// classifyChunk processes pixels [start, end) of the flattened raster.
func classifyChunk(oldPix, newPix []byte, res *Result, start, end int, opt Options) {
	for p := start; p < end; p++ {
		i := p * 4
		oldA := oldPix[i+3]
		newA := newPix[i+3]
		oldTransparent := oldA < opt.AlphaThreshold
		newTransparent := newA < opt.AlphaThreshold

		switch {
		case oldTransparent && newTransparent:
			res.Counts.Unchanged++
			paintDimmed(res.Overlay.Pix, newPix, i)
		case oldTransparent:
			res.Counts.Added++
			paint(res.Overlay.Pix, i, 0, 255, 0)
		case newTransparent:
			res.Counts.Removed++
			paint(res.Overlay.Pix, i, 255, 0, 0)
		default:
			diff := absDiff(oldPix[i], newPix[i]) +
				absDiff(oldPix[i+1], newPix[i+1]) +
				absDiff(oldPix[i+2], newPix[i+2]) +
				absDiff(oldA, newA)
			if diff > opt.ColorThreshold {
				res.Counts.Changed++
				paint(res.Overlay.Pix, i, 255, 0, 255)
			} else {
				res.Counts.Unchanged++
				paintDimmed(res.Overlay.Pix, newPix, i)
			}
		}
	}
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// paint writes a solid highlight pixel.
func paint(dst []byte, i int, r, g, b byte) {
	dst[i] = r
	dst[i+1] = g
	dst[i+2] = b
	dst[i+3] = highlightAlpha
}

// paintDimmed copies the new pixel at 30% of its alpha for context.
func paintDimmed(dst, newPix []byte, i int) {
	dst[i] = newPix[i]
	dst[i+1] = newPix[i+1]
	dst[i+2] = newPix[i+2]
	dst[i+3] = byte(int(newPix[i+3]) * 30 / 100)
}
