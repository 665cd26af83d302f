package imagediff

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	// Register the decoders the backend can hand us bytes for.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/clone"
)

// Pair is a decoded old/new image pair normalized onto one common
// canvas: RGBA, sized to the max of the two source dimensions, sources
// anchored at the origin, uncovered pixels fully transparent black.
type Pair struct {
	OldPix []byte
	NewPix []byte
	Width  int
	Height int
}

// LoadPair decodes both byte slices and normalizes them. A nil/empty
// side (file added or deleted) becomes an all-transparent canvas, so
// every one of its pixels classifies as added or removed.
func LoadPair(oldBytes, newBytes []byte) (*Pair, error) {
	oldImg, err := decode(oldBytes)
	if err != nil {
		return nil, fmt.Errorf("decode old image: %w", err)
	}
	newImg, err := decode(newBytes)
	if err != nil {
		return nil, fmt.Errorf("decode new image: %w", err)
	}
	if oldImg == nil && newImg == nil {
		return nil, fmt.Errorf("no image bytes on either side")
	}

	w, h := 0, 0
	for _, img := range []*image.RGBA{oldImg, newImg} {
		if img == nil {
			continue
		}
		if img.Rect.Dx() > w {
			w = img.Rect.Dx()
		}
		if img.Rect.Dy() > h {
			h = img.Rect.Dy()
		}
	}

	return &Pair{
		OldPix: onCanvas(oldImg, w, h),
		NewPix: onCanvas(newImg, w, h),
		Width:  w,
		Height: h,
	}, nil
}

func decode(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return clone.AsRGBA(img), nil
}

// onCanvas places img at the origin of a w×h transparent canvas.
func onCanvas(img *image.RGBA, w, h int) []byte {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	if img != nil {
		draw.Draw(canvas, img.Rect.Sub(img.Rect.Min), img, img.Rect.Min, draw.Src)
	}
	return canvas.Pix
}
