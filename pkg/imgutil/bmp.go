package imgutil

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	bmpFileHeaderSize = 14
	bmpCoreHeaderSize = 12
	bmpHeaderPrefix   = bmpFileHeaderSize + 12
)

var errBMPHeader = errors.New("malformed bmp header")

// readBMPDimensions reads the size fields of a BMP's DIB header. Every
// header variant is accepted regardless of bit depth or compression: the
// 12-byte OS/2 core header stores uint16 sizes, all later ones int32 sizes
// with a negative height for top-down bitmaps.
func readBMPDimensions(r io.Reader) (Dimensions, error) {
	buf := make([]byte, bmpHeaderPrefix)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Dimensions{}, fmt.Errorf("%w: %v", errBMPHeader, err)
	}

	dibSize := binary.LittleEndian.Uint32(buf[14:18])
	var width, height int64
	switch {
	case dibSize == bmpCoreHeaderSize:
		width = int64(binary.LittleEndian.Uint16(buf[18:20]))
		height = int64(binary.LittleEndian.Uint16(buf[20:22]))
	case dibSize > bmpCoreHeaderSize:
		width = int64(int32(binary.LittleEndian.Uint32(buf[18:22])))
		height = int64(int32(binary.LittleEndian.Uint32(buf[22:26])))
		if height < 0 {
			height = -height
		}
	default:
		return Dimensions{}, fmt.Errorf("%w: dib header size %d", errBMPHeader, dibSize)
	}

	if width <= 0 || height <= 0 {
		return Dimensions{}, ErrEmptyDimensions
	}
	return Dimensions{Width: int(width), Height: int(height), Format: KindBMP.String()}, nil
}
