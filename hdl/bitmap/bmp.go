// Package bitmap loads external monochrome Windows BMP files into the
// hdl.Bitmap shape the rest of the compiler expects (spec §4.4). The BMP
// file and info headers are parsed directly, the way
// original_source/src/hdl-util.c's HDL_BitmapFromBMP does, rather than
// through an image-decoding library: a real 1-bit-per-pixel BMP is outside
// what Go's standard image codecs (and golang.org/x/image/bmp) support
// decoding into an image.Image, since none of them implement the 1bpp case.
package bitmap

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"

	"github.com/osmakari/hdlc/hdl"
)

// fileHeaderSize and infoHeaderSize are the packed BITMAPFILEHEADER and
// BITMAPINFOHEADER sizes (original_source/src/hdl-util.c's _BMP_Head).
const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	headerSize     = fileHeaderSize + infoHeaderSize
)

// FromFile decodes the monochrome BMP file at path (resolved against
// baseDir when path is relative) into an hdl.Bitmap named name. spriteW and
// spriteH become the bitmap's sprite dimensions; zero means "default to the
// full bitmap size" (spec §4.4).
func FromFile(baseDir, name, path string, spriteW, spriteH uint8) (*hdl.Bitmap, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".bmp") {
		return nil, hdl.NewError(hdl.KindSemantic, "bitmap: %q does not have a .bmp extension", path)
	}

	full := filepath.Join(baseDir, path)
	raw, err := os.ReadFile(full)
	if err != nil {
		return nil, hdl.NewError(hdl.KindSemantic, "bitmap: could not open %q: %v", full, err)
	}
	if len(raw) < headerSize {
		return nil, hdl.NewError(hdl.KindSemantic, "bitmap: %q is too short to hold a BMP header", full)
	}
	if raw[0] != 'B' || raw[1] != 'M' {
		return nil, hdl.NewError(hdl.KindSemantic, "bitmap: %q has no \"BM\" signature", full)
	}

	pixelOffset := binary.LittleEndian.Uint32(raw[10:14])
	width := int32(binary.LittleEndian.Uint32(raw[18:22]))
	height := int32(binary.LittleEndian.Uint32(raw[22:26]))
	bitsPerPixel := binary.LittleEndian.Uint16(raw[28:30])

	if bitsPerPixel != 1 {
		return nil, hdl.NewError(hdl.KindSemantic, "bitmap: %q is %d bits per pixel, non-monochrome images are not supported", full, bitsPerPixel)
	}
	if width <= 0 || height <= 0 {
		return nil, hdl.NewError(hdl.KindSemantic, "bitmap: %q has non-positive dimensions %dx%d", full, width, height)
	}

	rowLen := (int(width) + 7) / 8
	rowLenPadded := ((int(width) + 31) &^ 31) >> 3
	size := rowLen * int(height)

	if int(pixelOffset)+rowLenPadded*int(height) > len(raw) {
		return nil, hdl.NewError(hdl.KindSemantic, "bitmap: %q's pixel data runs past the end of the file", full)
	}

	data := make([]byte, size)
	// Rows are stored bottom-up, each padded to a 4-byte boundary.
	pos := int(pixelOffset)
	for y := int(height) - 1; y >= 0; y-- {
		copy(data[y*rowLen:y*rowLen+rowLen], raw[pos:pos+rowLen])
		pos += rowLenPadded
	}

	out := &hdl.Bitmap{
		Name:      name,
		Width:     uint16(width),
		Height:    uint16(height),
		ColorMode: hdl.ColorModeMono,
		Size:      uint16(size),
		Data:      data,
	}
	if spriteW == 0 {
		spriteW = uint8(width)
	}
	if spriteH == 0 {
		spriteH = uint8(height)
	}
	out.SpriteWidth = spriteW
	out.SpriteHeight = spriteH
	return out, nil
}
