package augment

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Image is an 8-bit pixel buffer of Height rows, Width columns and Channels interleaved
// samples per pixel.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

func NewImage(width, height, channels int) *Image {
	if width < 0 || height < 0 || channels < 0 {
		return &Image{}
	}
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// FromImage converts a decoded image into a 3 channel RGB buffer. Alpha is dropped.
func FromImage(src image.Image) *Image {
	nrgba := imaging.Clone(src)
	b := nrgba.Bounds()
	out := NewImage(b.Dx(), b.Dy(), 3)
	for y := 0; y < out.Height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+out.Width*4]
		dst := out.Pix[y*out.Width*3 : (y+1)*out.Width*3]
		for x := 0; x < out.Width; x++ {
			dst[x*3] = row[x*4]
			dst[x*3+1] = row[x*4+1]
			dst[x*3+2] = row[x*4+2]
		}
	}
	return out
}

// ToNRGBA renders the buffer as an image.Image ready for encoding.
func (im *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			src := im.Pix[(y*im.Width+x)*im.Channels:]
			dst := out.Pix[y*out.Stride+x*4:]
			switch im.Channels {
			case 1:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], 0xff
			case 2:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], src[1]
			case 3:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 0xff
			default:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], src[3]
			}
		}
	}
	return out
}

func (im *Image) Validate() error {
	if im == nil {
		return errors.Wrap(ErrInvalidImage, "nil image")
	}
	if im.Width <= 0 || im.Height <= 0 {
		return errors.Wrapf(ErrInvalidImage, "zero-area image %dx%d", im.Width, im.Height)
	}
	if im.Channels < 1 || im.Channels > 4 {
		return errors.Wrapf(ErrInvalidImage, "unsupported channel count %d", im.Channels)
	}
	if len(im.Pix) != im.Width*im.Height*im.Channels {
		return errors.Wrapf(ErrInvalidImage, "pixel buffer holds %d bytes, want %d",
			len(im.Pix), im.Width*im.Height*im.Channels)
	}
	return nil
}

func (im *Image) At(x, y, c int) uint8 {
	return im.Pix[(y*im.Width+x)*im.Channels+c]
}

func (im *Image) Set(x, y, c int, v uint8) {
	im.Pix[(y*im.Width+x)*im.Channels+c] = v
}

func (im *Image) Clone() *Image {
	out := *im
	out.Pix = append([]uint8(nil), im.Pix...)
	return &out
}

// Equal reports whether both buffers have the same shape and pixels.
func (im *Image) Equal(other *Image) bool {
	if im == nil || other == nil {
		return im == other
	}
	return im.Width == other.Width && im.Height == other.Height &&
		im.Channels == other.Channels && bytes.Equal(im.Pix, other.Pix)
}
