package media

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestRenditions_Order(t *testing.T) {
	p := Renditions([]string{"https://cdn/x-xs.webp", "https://cdn/x-md.webp", "https://cdn/x-org.jpg"})

	require.Len(t, p.Sources, 2)
	assert.Equal(t, MD, p.Sources[0].Size)
	assert.Equal(t, "(min-width: 768px)", p.Sources[0].Media)
	assert.Equal(t, XS, p.Sources[1].Size)
	assert.Empty(t, p.Sources[1].Media)
	assert.Equal(t, "https://cdn/x-org.jpg", p.Src)
	assert.Equal(t, "https://cdn/x-md.webp (min-width: 768px), https://cdn/x-xs.webp", p.SrcSet())
}

func TestRenditions_Fallback(t *testing.T) {
	assert.Equal(t, "https://cdn/only.jpg", Renditions([]string{"https://cdn/only.jpg"}).Src)
	assert.Empty(t, Renditions(nil).Src)
	assert.Empty(t, Renditions([]string{"https://cdn/a-xs.jpg", "https://cdn/a-sm.jpg"}).Src)
}

func TestLargestURL(t *testing.T) {
	urls := []string{"https://cdn/a-sm.png", "https://cdn/a-org.png", "https://cdn/a-lg.png", "https://cdn/a-xs.png"}
	assert.Equal(t, "https://cdn/a-lg.png", LargestURL(urls))
	assert.Empty(t, LargestURL([]string{"https://cdn/a-org.png"}))

	s, ok := SizeOf("https://cdn/a-xl.png")
	assert.True(t, ok)
	assert.Equal(t, XL, s)
}

func TestParseS3URL(t *testing.T) {
	obj, err := ParseS3URL("https://reports.s3.eu-west-2.amazonaws.com/GB/d3/u42/pic.png")
	require.NoError(t, err)
	assert.Equal(t, S3Object{Bucket: "reports", Region: "eu-west-2", Key: "GB/d3/u42/pic.png", Domain: 3, UserID: 42}, obj)

	_, err = ParseS3URL("https://example.com/pic.png")
	assert.ErrorIs(t, err, ErrNotS3URL)
}

func filled(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestOverlayTone(t *testing.T) {
	assert.Equal(t, ToneBlack, OverlayTone(filled(100, 60, color.White)))
	assert.Equal(t, ToneWhite, OverlayTone(filled(100, 60, color.Black)))

	img := filled(100, 60, color.White)
	for y := 15; y < 35; y++ {
		for x := 65; x < 85; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 30, B: 30, A: 255})
		}
	}
	assert.Equal(t, ToneWhite, OverlayTone(img))

	assert.Equal(t, ToneBlack, OverlayTone(filled(10, 10, color.White)))
}

func TestIsHorizontal(t *testing.T) {
	assert.True(t, IsHorizontal(filled(4, 3, color.White)))
	assert.False(t, IsHorizontal(filled(3, 4, color.White)))
}

func TestDecodeFile_BMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "white.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, filled(50, 40, color.White)))
	require.NoError(t, f.Close())

	img, format, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)
	assert.True(t, IsHorizontal(img))
	assert.Equal(t, ToneBlack, OverlayTone(img))
}
