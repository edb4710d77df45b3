// Package codec reads and writes augment.Image buffers as image files.
package codec

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
	"github.com/pkg/errors"
)

// DefaultFormat is used when the caller does not ask for one.
const DefaultFormat = imaging.JPEG

const jpegQuality = 90

var extensions = map[imaging.Format]string{
	imaging.JPEG: "jpg",
	imaging.PNG:  "png",
	imaging.GIF:  "gif",
	imaging.TIFF: "tiff",
	imaging.BMP:  "bmp",
}

// ParseFormat accepts a format name or file extension, with or without the leading dot.
func ParseFormat(name string) (imaging.Format, error) {
	if name == "" {
		return DefaultFormat, nil
	}
	f, err := imaging.FormatFromExtension(strings.TrimPrefix(strings.ToLower(name), "."))
	if err != nil {
		return 0, errors.Wrapf(augment.ErrInvalidConfig, "unsupported image format %q", name)
	}
	return f, nil
}

// Extension returns the file extension (without dot) written for f.
func Extension(f imaging.Format) string {
	if ext, ok := extensions[f]; ok {
		return ext
	}
	return extensions[DefaultFormat]
}

// IsSupported reports whether the file name carries an extension we can decode.
func IsSupported(filename string) bool {
	_, err := imaging.FormatFromFilename(filename)
	return err == nil
}

// Load decodes the file at path. Missing paths, directories and undecodable content all
// fail with augment.ErrUnreadableFile.
func Load(path string) (*augment.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(augment.ErrUnreadableFile, "%s: %v", path, err)
	}
	if info.IsDir() {
		return nil, errors.Wrapf(augment.ErrUnreadableFile, "%s is a directory", path)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(augment.ErrUnreadableFile, "%s: %v", path, err)
	}
	return augment.FromImage(img), nil
}

// Decode reads one image from r.
func Decode(r io.Reader) (*augment.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(augment.ErrUnreadableFile, "decode: %v", err)
	}
	return augment.FromImage(img), nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img *augment.Image, format imaging.Format) error {
	if err := img.Validate(); err != nil {
		return err
	}
	if err := imaging.Encode(w, img.ToNRGBA(), format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return errors.Wrapf(augment.ErrWriteError, "encode %s: %v", format, err)
	}
	return nil
}

// Save writes img to path. The parent directory must already exist.
func Save(img *augment.Image, path string, format imaging.Format) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return errors.Wrapf(augment.ErrWriteError, "%s: %v", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(augment.ErrWriteError, "%s: %v", path, cerr)
		}
	}()
	if err := Encode(f, img, format); err != nil {
		return errors.Wrap(err, path)
	}
	return nil
}

// Resize scales img to width x height with a Lanczos filter. A zero dimension keeps the
// aspect ratio; both zero returns img unchanged.
func Resize(img *augment.Image, width, height int) *augment.Image {
	if width <= 0 && height <= 0 {
		return img
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return augment.FromImage(imaging.Resize(img.ToNRGBA(), width, height, imaging.Lanczos))
}
