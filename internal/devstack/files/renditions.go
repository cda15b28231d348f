package files

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// renditionWidths are the widths each uploaded picture is scaled to, named
// by the size tag clients look for in object names.
var renditionWidths = []struct {
	tag   string
	width int
}{
	{"xs", 320},
	{"sm", 576},
	{"md", 768},
	{"lg", 992},
	{"xl", 1200},
}

const jpegQuality = 85

// encoded is one rendition ready to store.
type encoded struct {
	key         string
	contentType string
	data        []byte
}

// renditionKey derives a sized object key from the original's
// "<name>-org.<ext>" key.
func renditionKey(key, tag, ext string) string {
	base := strings.TrimSuffix(key, path.Ext(key))
	base = strings.TrimSuffix(base, "-org")
	return base + "-" + tag + ext
}

// scale resizes img to width, keeping the aspect ratio. Pictures narrower
// than width keep their size.
func scale(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Dx() <= width {
		width = b.Dx()
	}
	height := max(1, b.Dy()*width/max(1, b.Dx()))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// renditions decodes data and produces one scaled copy per size tag. JPEG
// sources stay JPEG; every other format becomes PNG.
func renditions(key string, data []byte) ([]encoded, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}

	out := make([]encoded, 0, len(renditionWidths))
	for _, r := range renditionWidths {
		scaled := scale(img, r.width)

		var buf bytes.Buffer
		ext, contentType := ".png", "image/png"
		if format == "jpeg" {
			ext, contentType = ".jpg", "image/jpeg"
			err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality})
		} else {
			err = png.Encode(&buf, scaled)
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s rendition of %s: %w", r.tag, key, err)
		}
		out = append(out, encoded{key: renditionKey(key, r.tag, ext), contentType: contentType, data: buf.Bytes()})
	}
	return out, nil
}

var avatarBackground = color.RGBA{R: 0xc8, G: 0xcd, B: 0xd2, A: 0xff}
var avatarForeground = color.RGBA{R: 0x8a, G: 0x94, B: 0x9e, A: 0xff}

// DefaultAvatar renders the placeholder profile picture: a grey disc on a
// light background, as JPEG.
func DefaultAvatar(size int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: avatarBackground}, image.Point{}, draw.Src)

	c, r := size/2, size*3/10
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-c, y-c
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, avatarForeground)
			}
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
