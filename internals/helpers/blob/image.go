package blob

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

type WebPOptions struct {
	MaxW     int // resize keeping aspect ratio; 0 = no limit
	MaxH     int
	Quality  float32 // lossy quality, default 80
	TargetKB int     // when > 0, lower the quality until the output fits
	MinQ     float32
	MaxBytes int64 // upload size guard
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{MaxW: 800, MaxH: 800, Quality: 80, MinQ: 45, MaxBytes: 5 << 20}
}

// ConvertToWebP decodes jpeg/png/webp, applies EXIF orientation, downscales
// to fit MaxW×MaxH and encodes as lossy WebP.
func ConvertToWebP(r io.Reader, opt WebPOptions) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupported
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}
	img = downscale(img, opt.MaxW, opt.MaxH)

	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	data, err := encodeWebP(img, q)
	if err != nil || opt.TargetKB <= 0 {
		return data, err
	}

	// binary search the quality down to the target size
	target := opt.TargetKB * 1024
	if len(data) <= target {
		return data, nil
	}
	low, high := opt.MinQ, q
	if low <= 0 || low > high {
		low = 45
	}
	best := data
	for i := 0; i < 7; i++ {
		mid := (low + high) / 2
		out, err := encodeWebP(img, mid)
		if err != nil {
			return nil, err
		}
		if len(out) <= target {
			best = out
			low = mid
		} else {
			high = mid
		}
		if len(out) < len(best) {
			best = out
		}
	}
	return best, nil
}

func encodeWebP(img image.Image, q float32) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: q}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func downscale(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
