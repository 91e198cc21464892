package canvas

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/digiteye/pkg/common"
	"kgeyst.com/digiteye/pkg/digiteye/domain"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func blackCanvas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

func TestInspect_DrawnDigit(t *testing.T) {
	img := blackCanvas()
	for y := 4; y < 16; y++ {
		img.Set(10, y, color.White)
	}
	inspector := NewInspector(common.NewConfig(nil))

	mimeType, err := inspector.Inspect(encodePNG(t, img))

	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
}

func TestInspect_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		data    func(t *testing.T) []byte
		message string
	}{
		{"empty", func(t *testing.T) []byte { return nil }, "no data"},
		{"blank", func(t *testing.T) []byte { return encodePNG(t, blackCanvas()) }, "blank"},
		{"not an image", func(t *testing.T) []byte { return []byte("hello, world") }, "unsupported image type"},
		{"truncated png", func(t *testing.T) []byte { return encodePNG(t, blackCanvas())[:40] }, "could not be decoded"},
	}
	inspector := NewInspector(common.NewConfig(nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inspector.Inspect(tt.data(t))

			var visionErr *domain.VisionError
			require.ErrorAs(t, err, &visionErr)
			assert.Contains(t, visionErr.Message, tt.message)
		})
	}
}

func TestInspect_TooLarge(t *testing.T) {
	inspector := NewInspector(common.NewConfig(map[string]any{domain.ConfigKeyMaxImageSize: 10}))

	_, err := inspector.Inspect(encodePNG(t, blackCanvas()))

	assert.ErrorContains(t, err, "larger than 10 bytes")
}

// withDeclaredSize rewrites the IHDR dimensions of a PNG (and its checksum) without touching the pixel data.
func withDeclaredSize(data []byte, width, height uint32) []byte {
	patched := append([]byte(nil), data...)
	// signature (8), IHDR length (4), "IHDR" (4), width (4), height (4), 5 more header bytes, CRC
	binary.BigEndian.PutUint32(patched[16:20], width)
	binary.BigEndian.PutUint32(patched[20:24], height)
	binary.BigEndian.PutUint32(patched[29:33], crc32.ChecksumIEEE(patched[12:29]))
	return patched
}

func TestInspect_HugeDeclaredDimensions(t *testing.T) {
	data := withDeclaredSize(encodePNG(t, blackCanvas()), 16000, 16000)
	inspector := NewInspector(common.NewConfig(nil))

	_, err := inspector.Inspect(data)

	var visionErr *domain.VisionError
	require.ErrorAs(t, err, &visionErr)
	assert.Contains(t, visionErr.Message, "dimensions 16000x16000 exceed")
}

func TestInspect_PixelBudgetFromConfig(t *testing.T) {
	inspector := NewInspector(common.NewConfig(map[string]any{domain.ConfigKeyMaxImagePixels: 100}))

	_, err := inspector.Inspect(encodePNG(t, blackCanvas()))

	assert.ErrorContains(t, err, "dimensions 20x20 exceed 100 pixels")
}
