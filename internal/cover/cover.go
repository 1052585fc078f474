// Package cover turns arbitrary thumbnail images into deterministic square
// cover art, deciding between cropping and padding by sampling the image's
// corners.
package cover

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"tigertag/internal/logger"
)

// Crop decision thresholds: when the corner samples of the quantized image
// deviate less than this, the borders are uniform (letterboxed) and the
// image is cropped instead of padded.
const (
	avgDevThreshold     = 10.0
	channelDevThreshold = 15.0
	cornerInset         = 10
)

// Crop modes.
const (
	ModeAuto = "auto"
	ModeCrop = "crop"
	ModePad  = "pad"
)

// Fetcher is the slice of the caching HTTP client the processor needs.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, int, error)
}

// Processor fetches cover images and squares them.
type Processor struct {
	fetch    Fetcher
	format   string // "jpg" or "png"
	cropMode string // ModeAuto, ModeCrop or ModePad
	log      *logger.Logger
}

// NewProcessor creates a Processor. format defaults to jpg, cropMode to
// auto.
func NewProcessor(f Fetcher, format, cropMode string, log *logger.Logger) *Processor {
	if format == "" {
		format = "jpg"
	}
	if cropMode == "" {
		cropMode = ModeAuto
	}
	return &Processor{fetch: f, format: format, cropMode: cropMode, log: log}
}

// SquareCover fetches the image at url and returns square cover bytes.
// Already-square images pass through byte-identical. Output is
// deterministic for fixed input bytes and crop mode.
func (p *Processor) SquareCover(ctx context.Context, url string) ([]byte, error) {
	body, status, err := p.fetch.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("cover fetch returned %d for %s", status, url)
	}
	return p.Square(body)
}

// Square squares already-fetched image bytes.
func (p *Processor) Square(body []byte) ([]byte, error) {
	img, err := decode(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == h {
		return body, nil
	}

	mode := p.cropMode
	if mode == ModeAuto {
		mode = decideCrop(img)
		p.log.Debug("auto crop decision for %dx%d cover: %s", w, h, mode)
	}

	var squared image.Image
	if mode == ModeCrop {
		side := min(w, h)
		squared = imaging.CropCenter(img, side, side)
	} else {
		side := max(w, h)
		canvas := imaging.New(side, side, fillColor(img))
		squared = imaging.PasteCenter(canvas, img)
	}
	return encode(squared, p.format)
}

// decideCrop samples the four corner pixels (inset from the edges) of a
// smoothed, 64-color-quantized copy. Near-uniform corners mean a solid or
// letterboxed border that cropping will not damage; anything busier gets
// padded so no content is lost.
func decideCrop(img image.Image) string {
	smoothed := imaging.Blur(img, 1.0)
	quantized := quantize64(smoothed)

	b := quantized.Bounds()
	w, h := b.Dx(), b.Dy()
	inset := cornerInset
	if w <= inset || h <= inset {
		inset = 0
	}
	corners := [][2]int{
		{inset, inset},
		{w - 1 - inset, inset},
		{inset, h - 1 - inset},
		{w - 1 - inset, h - 1 - inset},
	}

	var reds, greens, blues []float64
	for _, c := range corners {
		r, g, bl := rgbAt(quantized, c[0], c[1])
		reds = append(reds, r)
		greens = append(greens, g)
		blues = append(blues, bl)
	}

	devRed, devGreen, devBlue := stddev(reds), stddev(greens), stddev(blues)
	avgDev := (devRed + devGreen + devBlue) / 3

	if avgDev < avgDevThreshold &&
		devRed < channelDevThreshold &&
		devGreen < channelDevThreshold &&
		devBlue < channelDevThreshold {
		return ModeCrop
	}
	return ModePad
}

// quantize64 reduces the image to 64 colors by uniform per-channel
// quantization (4 levels each of R, G and B). Deterministic, which an
// adaptive palette would not be across library versions.
func quantize64(img image.Image) *image.NRGBA {
	nrgba := imaging.Clone(img)
	pix := nrgba.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = pix[i]/64*64 + 32
		pix[i+1] = pix[i+1]/64*64 + 32
		pix[i+2] = pix[i+2]/64*64 + 32
	}
	return nrgba
}

// fillColor picks the pad color: the exact corner color when all four
// near-edge corners agree, otherwise the dominant color obtained by
// downsampling the whole image to a single pixel.
func fillColor(img image.Image) color.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	inset := 1
	if w < 3 || h < 3 {
		inset = 0
	}
	corners := []color.NRGBA{
		nrgbaAt(img, inset, inset),
		nrgbaAt(img, w-1-inset, inset),
		nrgbaAt(img, inset, h-1-inset),
		nrgbaAt(img, w-1-inset, h-1-inset),
	}
	uniform := true
	for _, c := range corners[1:] {
		if c != corners[0] {
			uniform = false
			break
		}
	}
	if uniform {
		return corners[0]
	}

	dot := imaging.Resize(img, 1, 1, imaging.NearestNeighbor)
	return nrgbaAt(dot, 0, 0)
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	b := img.Bounds()
	c := img.At(b.Min.X+x, b.Min.Y+y)
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func rgbAt(img image.Image, x, y int) (float64, float64, float64) {
	c := nrgbaAt(img, x, y)
	return float64(c.R), float64(c.G), float64(c.B)
}

// stddev is the sample standard deviation.
func stddev(vals []float64) float64 {
	n := float64(len(vals))
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / n
	var sq float64
	for _, v := range vals {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / (n - 1))
}

// decode sniffs the content and decodes JPEG, PNG or WebP (YouTube serves
// webp thumbnails), falling back to the imaging decoder for anything else.
func decode(body []byte) (image.Image, error) {
	if strings.HasPrefix(http.DetectContentType(body), "image/webp") {
		return webp.Decode(bytes.NewReader(body))
	}
	return imaging.Decode(bytes.NewReader(body))
}

func encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(format) {
	case "png":
		err = imaging.Encode(&buf, img, imaging.PNG)
	default:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode cover as %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
