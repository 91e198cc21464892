package canvas

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"kgeyst.com/digiteye/pkg/common"
	"kgeyst.com/digiteye/pkg/digiteye/domain"
)

const (
	DefaultMaxImageSize   = 4 * 1024 * 1024
	DefaultMaxImagePixels = 4096 * 4096
)

var supportedMIMETypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// Inspector rejects drawings which are not worth sending: empty buffers, non-images, oversized files and
// canvases nobody drew on. It never alters the image.
type Inspector struct {
	maxImageSize   int
	maxImagePixels int
}

func NewInspector(config *common.Config) *Inspector {
	return &Inspector{
		maxImageSize:   config.GetIntOrDefault(domain.ConfigKeyMaxImageSize, DefaultMaxImageSize),
		maxImagePixels: config.GetIntOrDefault(domain.ConfigKeyMaxImagePixels, DefaultMaxImagePixels),
	}
}

func (i *Inspector) Inspect(data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.NewVisionError("the canvas contains no data")
	}
	if len(data) > i.maxImageSize {
		return "", domain.NewVisionError(fmt.Sprintf("the image is larger than %d bytes", i.maxImageSize))
	}
	mimeType := mimetype.Detect(data).String()
	if !common.IsStringInSlice(mimeType, supportedMIMETypes) {
		return "", domain.NewVisionError(fmt.Sprintf("unsupported image type %q", mimeType))
	}
	// The header alone bounds the decode allocation.
	imageConfig, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", domain.NewVisionError("the image could not be decoded: " + err.Error())
	}
	if imageConfig.Width <= 0 || imageConfig.Height <= 0 ||
		int64(imageConfig.Width)*int64(imageConfig.Height) > int64(i.maxImagePixels) {
		return "", domain.NewVisionError(fmt.Sprintf("the image dimensions %dx%d exceed %d pixels",
			imageConfig.Width, imageConfig.Height, i.maxImagePixels))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", domain.NewVisionError("the image could not be decoded: " + err.Error())
	}
	if isBlank(img) {
		return "", domain.NewVisionError("the canvas is blank, draw a digit first")
	}
	return mimeType, nil
}

// A canvas nobody drew on has the same color everywhere, whatever the background is.
func isBlank(img image.Image) bool {
	bounds := img.Bounds()
	if bounds.Empty() {
		return true
	}
	r0, g0, b0, a0 := img.At(bounds.Min.X, bounds.Min.Y).RGBA()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if r != r0 || g != g0 || b != b0 || a != a0 {
				return false
			}
		}
	}
	return true
}
