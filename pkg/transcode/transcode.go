// Package transcode converts uploaded raster images to the canonical
// delivery format: lossy WebP, fit inside a square bound, never
// upscaled.
package transcode

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	// Register the webp decoder; jpeg/png/gif/bmp/tiff come in with imaging.
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1920

	// MimeType and Ext describe the canonical output encoding.
	MimeType = "image/webp"
	Ext      = ".webp"

	// Fixed encoder settings keep output size and latency predictable.
	// Quality/effort are engineering constants, not request parameters.
	quality = 85
	effort  = 6 // libwebp method, 0 (fast) .. 6 (best compression)
)

// Result is the re-encoded asset plus its final geometry.
type Result struct {
	Data   []byte
	Width  int
	Height int
}

// Transcoder is the codec capability the ingestion pipeline depends on.
type Transcoder interface {
	Transcode(data []byte) (*Result, error)
}

// WebPTranscoder decodes any registered raster format, downsamples to
// fit maxDim x maxDim preserving aspect ratio, and re-encodes to WebP.
type WebPTranscoder struct {
	maxDim int
}

func NewWebP(maxDim int) *WebPTranscoder {
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	return &WebPTranscoder{maxDim: maxDim}
}

// Transcode is a pure function of its input bytes and the fixed
// encoder settings. Corrupt or unsupported content surfaces as an
// error, never as a partial result.
func (t *WebPTranscoder) Transcode(data []byte) (*Result, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > t.maxDim || bounds.Dy() > t.maxDim {
		img = imaging.Fit(img, t.maxDim, t.maxDim, imaging.Lanczos)
	}

	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("webp encoder options: %w", err)
	}
	opts.Method = effort

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, opts); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	final := img.Bounds()
	return &Result{
		Data:   buf.Bytes(),
		Width:  final.Dx(),
		Height: final.Dy(),
	}, nil
}
