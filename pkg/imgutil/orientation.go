package imgutil

import (
	"errors"
	"io"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// Orientation is the EXIF Orientation tag value (1-8). Zero means absent.
type Orientation int

// SwapsAxes reports whether the image is displayed rotated by 90 or 270 degrees.
func (o Orientation) SwapsAxes() bool {
	return o >= 5 && o <= 8
}

// readOrientation returns 0 when the file carries no EXIF block.
func readOrientation(rs io.ReadSeeker) (Orientation, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return 0, nil
		}
		return 0, err
	}

	for _, tag := range tags {
		// IFD0 is enumerated before the thumbnail IFD, so the first hit wins.
		if tag.TagName != "Orientation" {
			continue
		}
		switch v := tag.Value.(type) {
		case []uint16:
			if len(v) > 0 {
				return Orientation(v[0]), nil
			}
		default:
			if n, convErr := strconv.Atoi(strings.TrimSpace(tag.FormattedFirst)); convErr == nil {
				return Orientation(n), nil
			}
		}
	}

	return 0, nil
}
