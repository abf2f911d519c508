// Package encode implements the binary encoder: depth-first pre-order
// serialization of an hdl.Document into the wire format described by
// spec §6.2 (header, bitmap records, element tree), including the
// float-to-integer narrowing and flexdir/align rewrites described by
// spec §4.3.
package encode

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/osmakari/hdlc/hdl"
)

// DefaultMaxSize is the encoder's output size ceiling when Encoder.MaxSize
// is left at zero, matching the original compiler's fixed
// HDL_COMPILER_OUTPUT_BUFFER_SIZE. Go's append-backed buffer has no fixed
// capacity to exhaust the way a C stack array does; the limit is kept
// anyway because spec §5/§7 define "output buffer exhaustion" as a real,
// user-reportable EncodingError rather than an unreachable case.
const DefaultMaxSize = 4096

// Encoder holds the mutable state of one encode pass: the growing output
// buffer and the warnings accumulated along the way (dropped unknown
// attributes, unknown flexdir/align words). A zero Encoder is ready to use.
type Encoder struct {
	// MaxSize caps the encoded output size. Zero means DefaultMaxSize.
	MaxSize int

	// Warnings accumulates every non-fatal diagnostic raised while
	// encoding (spec §7): dropped unknown attributes and unknown
	// flexdir/align values.
	Warnings []string

	buf []byte
}

// Encode serializes doc into the binary wire format (spec §6.2) and returns
// the buffer along with any warnings collected during encoding.
func Encode(doc *hdl.Document) ([]byte, []string, error) {
	e := &Encoder{}
	data, err := e.Encode(doc)
	return data, e.Warnings, err
}

// Encode serializes doc using e's configuration, appending to e.Warnings.
func (e *Encoder) Encode(doc *hdl.Document) ([]byte, error) {
	if len(doc.Bitmaps) > 0xFF {
		return nil, hdl.NewError(hdl.KindEncoding, "encode: %d bitmaps exceeds the 8-bit bitmap count field", len(doc.Bitmaps))
	}
	if len(doc.Elements) > 0xFFFF {
		return nil, hdl.NewError(hdl.KindEncoding, "encode: %d elements exceeds the 16-bit element count field", len(doc.Elements))
	}

	e.buf = make([]byte, 16)
	e.buf[0] = 0 // format major version
	e.buf[1] = 1 // format minor version
	e.buf[2] = byte(len(doc.Bitmaps))
	e.buf[3] = 0 // variable-table count, always 0
	binary.LittleEndian.PutUint16(e.buf[4:6], uint16(len(doc.Elements)))
	// buf[6:16] is the reserved padding, already zero.

	for i := range doc.Bitmaps {
		e.writeBitmap(&doc.Bitmaps[i])
	}

	if len(doc.Elements) > 0 {
		if err := e.writeElement(doc, 0); err != nil {
			return nil, err
		}
	}

	max := e.MaxSize
	if max == 0 {
		max = DefaultMaxSize
	}
	if len(e.buf) > max {
		return nil, hdl.NewError(hdl.KindEncoding, "encode: output size %d exceeds the %d-byte limit", len(e.buf), max)
	}
	return e.buf, nil
}

func (e *Encoder) warnf(format string, args ...interface{}) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// writeBitmap appends one bitmap record (spec §6.2): size, width, height,
// colorMode, pixel data. Sprite dimensions are parse-time/in-memory-only
// fields and never reach the wire (original_source/src/hdl-cmp.c's
// compileBitmap writes none of them).
func (e *Encoder) writeBitmap(b *hdl.Bitmap) {
	e.putU16(b.Size)
	e.putU16(b.Width)
	e.putU16(b.Height)
	e.buf = append(e.buf, byte(b.ColorMode))
	e.buf = append(e.buf, b.Data...)
}

// writeElement appends element doc.Elements[index]'s record and, recursively,
// every descendant's record, depth-first pre-order (spec §4.3, §6.2).
func (e *Encoder) writeElement(doc *hdl.Document, index int) error {
	el := &doc.Elements[index]

	e.buf = append(e.buf, byte(el.Tag))
	e.buf = append(e.buf, []byte(el.Content)...)
	e.buf = append(e.buf, 0)

	countPos := len(e.buf)
	e.buf = append(e.buf, 0) // patched below with the count of attrs actually written
	written := 0
	for _, attr := range el.Attrs {
		if attr.Key == hdl.AttrUnknown {
			e.warnf("dropping unrecognized attribute in <%s>", el.Tag)
			continue
		}
		if err := e.writeAttr(attr); err != nil {
			return err
		}
		written++
	}
	if written > 0xFF {
		return hdl.NewError(hdl.KindEncoding, "encode: element <%s> has %d attributes, exceeding the 8-bit count field", el.Tag, written)
	}
	e.buf[countPos] = byte(written)

	if len(el.Children) > 0xFF {
		return hdl.NewError(hdl.KindEncoding, "encode: element <%s> has %d children, exceeding the 8-bit count field", el.Tag, len(el.Children))
	}
	e.buf = append(e.buf, byte(len(el.Children)))
	for _, child := range el.Children {
		if err := e.writeElement(doc, child); err != nil {
			return err
		}
	}
	return nil
}

// writeAttr appends one attribute record: key, type, count, payload. The
// flexdir/align string rewrites (spec §4.3(b)(c)) and float narrowing
// (§4.3(a), with the scan-all redesign from §9) both happen here, never
// mutating the Document's own Value.
func (e *Encoder) writeAttr(attr hdl.Attr) error {
	val := attr.Value
	switch attr.Key {
	case hdl.AttrFlexDir:
		if val.Type == hdl.TypeString {
			val = e.rewriteFlexDir(val.Str)
		}
	case hdl.AttrAlign:
		if val.Type == hdl.TypeString {
			val = e.rewriteAlign(val.Str)
		}
	}

	e.buf = append(e.buf, byte(attr.Key))
	typePos := len(e.buf)
	e.buf = append(e.buf, byte(val.Type))
	e.buf = append(e.buf, val.Count)

	switch val.Type {
	case hdl.TypeNull:
		// NULL has a zero on-wire width (hdl.Type.Size): no payload.
	case hdl.TypeBool:
		if val.Count == 1 {
			e.buf = append(e.buf, boolByte(val.Bool))
		} else {
			e.buf = append(e.buf, val.Bytes...)
		}
	case hdl.TypeImg, hdl.TypeBind:
		if val.Count == 1 {
			e.buf = append(e.buf, val.Byte)
		} else {
			e.buf = append(e.buf, val.Bytes...)
		}
	case hdl.TypeFloat:
		e.writeFloats(typePos, val.Floats)
	case hdl.TypeString:
		e.buf = append(e.buf, []byte(val.Str)...)
		e.buf = append(e.buf, 0)
	default:
		return hdl.NewError(hdl.KindEncoding, "encode: attribute %s has unencodable type %s", attr.Key, val.Type)
	}
	return nil
}

// writeFloats narrows floats to the smallest lossless integer width (or
// keeps FLOAT) and appends the payload, patching the type byte at typePos.
//
// Per spec §9's REDESIGN FLAG this classifies the *entire* array — the most
// permissive width any element requires — rather than the original
// compiler's first-element-only heuristic.
func (e *Encoder) writeFloats(typePos int, floats []float64) {
	narrowed := classifyFloats(floats)
	e.buf[typePos] = byte(narrowed)
	for _, f := range floats {
		switch narrowed {
		case hdl.TypeFloat:
			e.putFloat32(float32(f))
		case hdl.TypeI8:
			e.buf = append(e.buf, byte(int8(f)))
		case hdl.TypeI16:
			e.putU16(uint16(int16(f)))
		case hdl.TypeI32:
			e.putU32(uint32(int32(f)))
		}
	}
}

// classifyFloats returns the narrowed output type for an array of floats:
// FLOAT if any element has a fractional part, otherwise the smallest of
// I8/I16/I32 that losslessly holds every element (spec §4.3(a), §9).
func classifyFloats(floats []float64) hdl.Type {
	out := hdl.TypeI8
	for _, f := range floats {
		if math.Mod(f, 1) != 0 {
			return hdl.TypeFloat
		}
		if w := integerWidth(f); w > out {
			out = w
		}
	}
	return out
}

func integerWidth(f float64) hdl.Type {
	switch v := int64(f); {
	case v > -0x80 && v < 0x80:
		return hdl.TypeI8
	case v > -0x8000 && v < 0x8000:
		return hdl.TypeI16
	default:
		return hdl.TypeI32
	}
}

// rewriteFlexDir maps the flexdir attribute's string form to its narrowed
// numeric value (spec §4.3(b)): "col" -> 1, "row" -> 2, anything else is a
// warning defaulting to 1.
func (e *Encoder) rewriteFlexDir(s string) hdl.Value {
	f := float64(hdl.FlexDirCol)
	switch s {
	case "col":
		f = hdl.FlexDirCol
	case "row":
		f = hdl.FlexDirRow
	default:
		e.warnf("unknown value %q for flexdir, defaulting to \"col\"", s)
	}
	return hdl.Value{Type: hdl.TypeFloat, Count: 1, Floats: []float64{f}}
}

// rewriteAlign splits the align attribute's string form on its first space
// into (y_word, x_word) and packs them as a single byte y | (x << 4) (spec
// §4.3(c)). A missing space, unknown word, or missing half warns and yields
// a zero-packed value.
func (e *Encoder) rewriteAlign(s string) hdl.Value {
	sp := strings.IndexByte(s, ' ')
	if sp < 0 {
		e.warnf("align %q requires vertical and horizontal alignment, e.g. \"middle center\"", s)
		return hdl.Value{Type: hdl.TypeFloat, Count: 1, Floats: []float64{0}}
	}
	yWord, xWord := s[:sp], s[sp+1:]

	yIdx, yOK := indexOf(hdl.AlignYWords[:], yWord)
	if !yOK {
		e.warnf("unknown Y axis alignment %q for align", yWord)
	}
	xIdx, xOK := indexOf(hdl.AlignXWords[:], xWord)
	if !xOK {
		e.warnf("unknown X axis alignment %q for align", xWord)
	}

	var packed float64
	if yOK && xOK {
		packed = float64(byte(yIdx) | byte(xIdx)<<4)
	}
	return hdl.Value{Type: hdl.TypeFloat, Count: 1, Floats: []float64{packed}}
}

func indexOf(words []string, s string) (int, bool) {
	for i, w := range words {
		if w == s {
			return i, true
		}
	}
	return 0, false
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (e *Encoder) putU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) putU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) putFloat32(f float32) {
	e.putU32(math.Float32bits(f))
}
