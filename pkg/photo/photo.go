// Package photo decodes uploaded and captured images into immutable photos.
//
// # Decoding
//
// [Decode] reads one image, applies EXIF orientation the way a browser's
// image decoder would, and records the intrinsic size and a content hash.
// JPEG, PNG and GIF are supported through the standard registrations; WebP,
// BMP and TIFF are registered by this package.
//
// [DecodeBatch] decodes a multi-file selection concurrently. A failure in
// one file never aborts its siblings: the batch result lists successfully
// decoded photos in their original relative order together with one
// [Failure] per file that could not be decoded.
package photo

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/photobooth/pkg/errors"
)

// MaxBytes bounds the size of a single encoded photo.
const MaxBytes = 32 << 20

// Photo is a decoded image with its intrinsic dimensions.
// A Photo is never modified after decoding.
type Photo struct {
	Image  image.Image
	Width  int
	Height int
	// Hash is the hex SHA-256 of the encoded bytes. It identifies the photo
	// content in artifact cache keys.
	Hash string
	Name string
}

// Size returns the intrinsic dimensions as a point.
func (p *Photo) Size() image.Point { return image.Pt(p.Width, p.Height) }

// New wraps an already decoded image. The hash is derived from the pixel
// data so that identical frames share cache entries.
func New(name string, img image.Image) *Photo {
	b := img.Bounds()
	h := sha256.New()
	nrgba := imaging.Clone(img)
	h.Write(nrgba.Pix)
	return &Photo{
		Image:  nrgba,
		Width:  b.Dx(),
		Height: b.Dy(),
		Hash:   hex.EncodeToString(h.Sum(nil)),
		Name:   name,
	}
}

// Decode reads and decodes one encoded image.
// Failures are reported with DECODE_FAILURE.
func Decode(r io.Reader, name string) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailure, err, "read %s", name)
	}
	if len(data) > MaxBytes {
		return nil, errors.New(errors.ErrCodeDecodeFailure, "%s exceeds %d bytes", name, MaxBytes)
	}
	return DecodeBytes(data, name)
}

// DecodeBytes decodes an encoded image held in memory.
func DecodeBytes(data []byte, name string) (*Photo, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeDecodeFailure, "%s is empty", name)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailure, err, "decode %s", name)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New(errors.ErrCodeDecodeFailure, "%s has no pixels", name)
	}
	sum := sha256.Sum256(data)
	return &Photo{
		Image:  img,
		Width:  b.Dx(),
		Height: b.Dy(),
		Hash:   hex.EncodeToString(sum[:]),
		Name:   name,
	}, nil
}

// Thumbnail returns a w×h cover-cropped thumbnail for gallery display.
func Thumbnail(p *Photo, w, h int) image.Image {
	return imaging.Thumbnail(p.Image, w, h, imaging.Lanczos)
}
