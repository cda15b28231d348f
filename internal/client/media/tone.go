package media

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
)

// Tone is the colour of text drawn over a picture.
type Tone int

const (
	ToneWhite Tone = iota
	ToneBlack
)

func (t Tone) String() string {
	if t == ToneBlack {
		return "black"
	}
	return "white"
}

const (
	sampleSize    = 20
	sampleInsetX  = 35
	sampleOffsetY = 15
	brightLimit   = 0.7
)

// OverlayTone samples the 20x20 square near the top-right corner, where the
// overlay controls sit, and picks black text on bright backgrounds.
func OverlayTone(img image.Image) Tone {
	b := img.Bounds()
	area := image.Rect(
		b.Max.X-sampleInsetX, b.Min.Y+sampleOffsetY,
		b.Max.X-sampleInsetX+sampleSize, b.Min.Y+sampleOffsetY+sampleSize,
	).Intersect(b)
	if area.Empty() {
		area = b
	}
	if area.Empty() {
		return ToneWhite
	}

	var r, g, bl, n float64
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += float64(cr >> 8)
			g += float64(cg >> 8)
			bl += float64(cb >> 8)
			n++
		}
	}
	lum := (0.299*r/n + 0.587*g/n + 0.114*bl/n) / 255
	if lum > brightLimit {
		return ToneBlack
	}
	return ToneWhite
}

func IsHorizontal(img image.Image) bool {
	b := img.Bounds()
	return b.Dx() > b.Dy()
}

// DecodeFile decodes a jpeg, png, gif or bmp file.
func DecodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, format, nil
}
