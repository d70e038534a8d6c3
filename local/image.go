package local

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// OpenRGB decodes the file and drops its alpha channel.
func OpenRGB(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return ToRGB(img), nil
}

func ToRGB(img image.Image) *image.NRGBA {
	rgb := imaging.Clone(img)
	for i := 3; i < len(rgb.Pix); i += 4 {
		rgb.Pix[i] = 0xff
	}
	return rgb
}

// SaveImage encodes by the file extension.
func SaveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

// SolidImage is a w×h image filled with c.
func SolidImage(w, h int, c color.Color) *image.NRGBA {
	return imaging.New(w, h, c)
}

// VerifyImage checks that path holds a decodable image and returns its size.
func VerifyImage(path string) (image.Point, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return image.Point{}, errors.Wrapf(err, "output %s is not a valid image", path)
	}
	return img.Bounds().Size(), nil
}
