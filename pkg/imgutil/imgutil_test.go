package imgutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestDetectHeader(t *testing.T) {
	cases := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"jpeg", pad([]byte{0xff, 0xd8, 0xff, 0xe0}), KindJPEG},
		{"png", pad([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}), KindPNG},
		{"gif87", pad([]byte("GIF87a")), KindGIF},
		{"gif89", pad([]byte("GIF89a")), KindGIF},
		{"bmp", pad([]byte("BM")), KindBMP},
		{"tiff-le", pad([]byte{0x49, 0x49, 0x2a, 0x00}), KindTIFF},
		{"tiff-be", pad([]byte{0x4d, 0x4d, 0x00, 0x2a}), KindTIFF},
		{"webp", []byte("RIFF\x10\x00\x00\x00WEBP"), KindWebP},
		{"riff-not-webp", []byte("RIFF\x10\x00\x00\x00WAVE"), KindUnknown},
		{"text", []byte("hello, world"), KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectHeader(tc.header)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetectHeaderShort(t *testing.T) {
	_, err := DetectHeader([]byte{0xff, 0xd8})
	assert.ErrorIs(t, err, ErrShortHeader)
}

func TestSniffReaderShort(t *testing.T) {
	kind, err := SniffReader(bytes.NewReader([]byte("RIFF")))
	assert.ErrorIs(t, err, ErrShortHeader)
	assert.Equal(t, KindUnknown, kind)
}

func TestReadDimensionsFormats(t *testing.T) {
	dir := t.TempDir()
	img := solid(320, 240)

	writers := map[string]func(*bytes.Buffer) error{
		"a.png":  func(b *bytes.Buffer) error { return png.Encode(b, img) },
		"a.jpg":  func(b *bytes.Buffer) error { return jpeg.Encode(b, img, nil) },
		"a.gif":  func(b *bytes.Buffer) error { return gif.Encode(b, img, nil) },
		"a.bmp":  func(b *bytes.Buffer) error { return bmp.Encode(b, img) },
		"a.tiff": func(b *bytes.Buffer) error { return tiff.Encode(b, img, nil) },
	}

	reader := NewReader()
	for name, encode := range writers {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, encode(&buf))
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

			dims, err := reader.ReadDimensions(path)
			require.NoError(t, err)
			assert.Equal(t, 320, dims.Width)
			assert.Equal(t, 240, dims.Height)
			assert.Equal(t, "320x240", dims.String())
		})
	}
}

func TestReadDimensionsWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.webp")
	require.NoError(t, os.WriteFile(path, losslessWebPHeader(640, 480), 0o644))

	dims, err := NewReader().ReadDimensions(path)
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Width: 640, Height: 480, Format: "webp"}, dims)
}

func TestReadDimensionsBMPVariants(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		data []byte
	}{
		{"mono.bmp", monoBMP(200, 150, 40, false)},
		{"topdown.bmp", monoBMP(200, 150, 40, true)},
		{"os2.bmp", monoBMP(200, 150, 12, false)},
		{"v5.bmp", monoBMP(200, 150, 124, false)},
	}

	reader := NewReader()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			require.NoError(t, os.WriteFile(path, tc.data, 0o644))

			dims, err := reader.ReadDimensions(path)
			require.NoError(t, err)
			assert.Equal(t, Dimensions{Width: 200, Height: 150, Format: "bmp"}, dims)
		})
	}
}

func TestReadDimensionsRejectsBadContent(t *testing.T) {
	dir := t.TempDir()
	cases := map[string][]byte{
		"renamed.jpg":   []byte("this is just some plain text, not an image"),
		"empty.png":     {},
		"truncated.png": {0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 13},
		"corrupt.webp":  []byte("RIFF\x20\x00\x00\x00WEBPVP8 "),
		"short.bmp":     []byte("BM\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"),
		"zero.bmp":      monoBMP(0, 150, 40, false),
	}

	reader := NewReader()
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, content, 0o644))

			_, err := reader.ReadDimensions(path)
			assert.Error(t, err)
		})
	}
}

func TestReadDimensionsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jpg")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0o644))

	_, err := NewReader().ReadDimensions(path)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReadDimensionsMissingFile(t *testing.T) {
	_, err := NewReader().ReadDimensions(filepath.Join(t.TempDir(), "gone.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadDimensionsOrientation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portrait.jpg")
	require.NoError(t, os.WriteFile(path, jpegWithOrientation(t, 600, 300, 6), 0o644))

	dims, err := NewReader().ReadDimensions(path)
	require.NoError(t, err)
	assert.Equal(t, 600, dims.Width)
	assert.Equal(t, 300, dims.Height)

	rotated, err := (&Reader{RespectOrientation: true}).ReadDimensions(path)
	require.NoError(t, err)
	assert.Equal(t, 300, rotated.Width)
	assert.Equal(t, 600, rotated.Height)
}

func TestReadDimensionsOrientationWithoutExif(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(50, 20), nil))
	path := filepath.Join(t.TempDir(), "plain.jpg")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	dims, err := (&Reader{RespectOrientation: true}).ReadDimensions(path)
	require.NoError(t, err)
	assert.Equal(t, 50, dims.Width)
	assert.Equal(t, 20, dims.Height)
}

func TestOrientationSwapsAxes(t *testing.T) {
	for o := Orientation(0); o <= 8; o++ {
		assert.Equal(t, o >= 5, o.SwapsAxes(), "orientation %d", o)
	}
}

func pad(prefix []byte) []byte {
	out := make([]byte, HeaderSize)
	copy(out, prefix)
	return out
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0x40, G: 0x80, B: 0xc0, A: 0xff})
		}
	}
	return img
}

// monoBMP builds a 1-bit palettised BMP with a dibSize-byte info header.
// A dibSize of 12 produces the OS/2 core layout.
func monoBMP(w, h int, dibSize uint32, topDown bool) []byte {
	stride := ((w + 31) / 32) * 4
	paletteEntry := 4
	if dibSize == 12 {
		paletteEntry = 3
	}
	pixelOffset := 14 + int(dibSize) + 2*paletteEntry

	var buf bytes.Buffer
	buf.WriteString("BM")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(pixelOffset+stride*h))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(pixelOffset))

	if dibSize == 12 {
		_ = binary.Write(&buf, binary.LittleEndian, []uint32{dibSize})
		_ = binary.Write(&buf, binary.LittleEndian, []uint16{uint16(w), uint16(h), 1, 1})
	} else {
		height := int32(h)
		if topDown {
			height = -height
		}
		info := make([]byte, dibSize)
		binary.LittleEndian.PutUint32(info[0:], dibSize)
		binary.LittleEndian.PutUint32(info[4:], uint32(int32(w)))
		binary.LittleEndian.PutUint32(info[8:], uint32(height))
		binary.LittleEndian.PutUint16(info[12:], 1)
		binary.LittleEndian.PutUint16(info[14:], 1)
		binary.LittleEndian.PutUint32(info[20:], uint32(stride*h))
		binary.LittleEndian.PutUint32(info[32:], 2)
		buf.Write(info)
	}

	buf.Write(make([]byte, paletteEntry))
	buf.Write(bytes.Repeat([]byte{0xff}, paletteEntry))
	buf.Write(make([]byte, stride*h))
	return buf.Bytes()
}

// losslessWebPHeader builds a RIFF/WEBP file holding only a VP8L header,
// which is all DecodeConfig reads.
func losslessWebPHeader(w, h int) []byte {
	chunk := make([]byte, 5)
	chunk[0] = 0x2f
	bits := uint32(w-1) | uint32(h-1)<<14
	binary.LittleEndian.PutUint32(chunk[1:], bits)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(4+8+len(chunk)+1))
	buf.WriteString("WEBP")
	buf.WriteString("VP8L")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(chunk)))
	buf.Write(chunk)
	buf.WriteByte(0)
	return buf.Bytes()
}

// jpegWithOrientation encodes a real JPEG and splices an APP1 EXIF segment
// carrying a single IFD0 Orientation entry right after SOI.
func jpegWithOrientation(t *testing.T, w, h int, orientation uint16) []byte {
	t.Helper()

	var encoded bytes.Buffer
	require.NoError(t, jpeg.Encode(&encoded, solid(w, h), nil))
	data := encoded.Bytes()

	var tiffData bytes.Buffer
	tiffData.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiffData, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiffData, binary.LittleEndian, uint16(1))
	_ = binary.Write(&tiffData, binary.LittleEndian, uint16(0x0112))
	_ = binary.Write(&tiffData, binary.LittleEndian, uint16(3))
	_ = binary.Write(&tiffData, binary.LittleEndian, uint32(1))
	_ = binary.Write(&tiffData, binary.LittleEndian, orientation)
	_ = binary.Write(&tiffData, binary.LittleEndian, uint16(0))
	_ = binary.Write(&tiffData, binary.LittleEndian, uint32(0))

	payload := append([]byte("Exif\x00\x00"), tiffData.Bytes()...)

	var out bytes.Buffer
	out.Write(data[:2])
	out.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(data[2:])
	return out.Bytes()
}
