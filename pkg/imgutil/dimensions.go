package imgutil

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Dimensions is the pixel size of an image as reported by its header.
type Dimensions struct {
	Width  int
	Height int
	Format string
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

var (
	ErrUnknownFormat   = errors.New("unrecognized image format")
	ErrEmptyDimensions = errors.New("image reports zero width or height")
)

// Reader reads image dimensions from headers only; pixel data is never decoded.
type Reader struct {
	// RespectOrientation swaps width and height for EXIF orientations 5-8.
	RespectOrientation bool
}

// NewReader returns a Reader that reports stored dimensions unchanged.
func NewReader() *Reader {
	return &Reader{}
}

// ReadDimensions opens path and returns the dimensions of the image it holds.
func (r *Reader) ReadDimensions(path string) (Dimensions, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dimensions{}, err
	}
	defer file.Close()

	return r.readFrom(file)
}

func (r *Reader) readFrom(rs io.ReadSeeker) (Dimensions, error) {
	kind, err := SniffReader(rs)
	if err != nil {
		return Dimensions{}, err
	}
	if kind == KindUnknown {
		return Dimensions{}, ErrUnknownFormat
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Dimensions{}, err
	}
	if kind == KindBMP {
		return readBMPDimensions(rs)
	}

	cfg, format, err := image.DecodeConfig(rs)
	if err != nil {
		return Dimensions{}, fmt.Errorf("decode %s header: %w", kind, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, ErrEmptyDimensions
	}

	dims := Dimensions{Width: cfg.Width, Height: cfg.Height, Format: format}

	if r.RespectOrientation && (kind == KindJPEG || kind == KindTIFF) {
		orientation, err := readOrientation(rs)
		if err != nil {
			return Dimensions{}, err
		}
		if orientation.SwapsAxes() {
			dims.Width, dims.Height = dims.Height, dims.Width
		}
	}

	return dims, nil
}
