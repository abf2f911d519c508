package encode

import (
	"fmt"
	"strings"

	"github.com/osmakari/hdlc/hdl"
)

// Result bundles an encoded document with the sizes the CLI reports
// ("Original: %iB, Compiled: %iB" in the original compiler) and the
// warnings collected while encoding. The core stays silent; cmd/hdlc owns
// printing this (spec SPEC_FULL.md §C.6).
type Result struct {
	Data         []byte
	Warnings     []string
	OriginalSize int
	CompiledSize int
}

// Compile encodes doc and wraps the result with size-reporting fields.
// originalSize is the byte length of the source text that produced doc.
func Compile(doc *hdl.Document, originalSize int) (*Result, error) {
	e := &Encoder{}
	data, err := e.Encode(doc)
	if err != nil {
		return nil, err
	}
	return &Result{
		Data:         data,
		Warnings:     e.Warnings,
		OriginalSize: originalSize,
		CompiledSize: len(data),
	}, nil
}

// DumpOptions configures DumpC's rendering.
type DumpOptions struct {
	// Name is the emitted C array identifier. Empty means "HDL_PAGE_OUTPUT",
	// the original compiler's fixed name.
	Name string
	// Commented selects the field-annotated renderer over the plain
	// 16-bytes-per-line hex dump (spec §6.3).
	Commented bool
	// OriginalSize, when nonzero, is echoed in the leading size comment.
	OriginalSize int
}

// DumpC renders an already-encoded buffer as a C source fragment: a
// byte-initialized "unsigned char NAME[len] = { ... };" array. This is a
// pure re-walk of data per the §6.2 wire layout, exactly mirroring the
// original compiler's writeCFile, which re-parses its own freshly compiled
// buffer rather than walking the Document a second time (spec §9: "keep it
// in terms of §6.2 directly").
//
// Unlike the original, the element loop here runs once, after every bitmap
// record, rather than once per bitmap: the original nests it inside the
// bitmap loop, which silently re-dumps every element bitmapCount times
// whenever a document declares more than one bitmap. Nothing in spec.md
// asks for that behavior to be preserved.
func DumpC(data []byte, opts DumpOptions) (string, error) {
	name := opts.Name
	if name == "" {
		name = "HDL_PAGE_OUTPUT"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// HDL output file\n// Original size: %dB, Compiled size: %dB\n\n", opts.OriginalSize, len(data))
	fmt.Fprintf(&b, "// Output\nunsigned char %s[%d] = {\n", name, len(data))

	if !opts.Commented {
		writePlainHex(&b, data)
	} else if err := writeCommentedHex(&b, data); err != nil {
		return "", err
	}

	b.WriteString("\n};\n\n")
	return b.String(), nil
}

func writePlainHex(b *strings.Builder, data []byte) {
	for i, v := range data {
		fmt.Fprintf(b, "0x%02X", v)
		if i != len(data)-1 {
			b.WriteString(", ")
		}
		if (i+1)%16 == 0 {
			b.WriteByte('\n')
		}
	}
}

// dumpWalker re-parses an already-encoded buffer per §6.2 to annotate it,
// the same job writeCFile's commented branch does over output_buffer.
type dumpWalker struct {
	data []byte
	pos  int
	b    *strings.Builder
}

func (w *dumpWalker) remaining() int { return len(w.data) - w.pos }

func (w *dumpWalker) need(n int) error {
	if w.remaining() < n {
		return hdl.NewError(hdl.KindEncoding, "dump: truncated buffer at offset %d, need %d more bytes", w.pos, n)
	}
	return nil
}

func (w *dumpWalker) hex(n int) {
	for i := 0; i < n; i++ {
		fmt.Fprintf(w.b, "0x%02X, ", w.data[w.pos])
		w.pos++
	}
}

func writeCommentedHex(b *strings.Builder, data []byte) error {
	w := &dumpWalker{data: data, b: b}

	if err := w.need(16); err != nil {
		return err
	}
	fmt.Fprintf(b, "0x%02X, 0x%02X, // File format version (major, minor)\n", data[0], data[1])
	bitmapCount := data[2]
	vartableCount := data[3]
	elementCount := int(data[4]) | int(data[5])<<8
	fmt.Fprintf(b, "0x%02X, 0x%02X, 0x%02X, 0x%02X, // Bitmap(1B), Vartable(1B), Element(2B) count\n", bitmapCount, vartableCount, data[4], data[5])
	w.pos = 6
	w.hex(0x10 - w.pos)
	b.WriteString(" // Padding until 0x10\n")

	b.WriteString("// Bitmaps\n")
	for x := 0; x < int(bitmapCount); x++ {
		fmt.Fprintf(b, "// Bitmap %d\n", x)
		if err := w.need(7); err != nil {
			return err
		}
		size := int(w.data[w.pos]) | int(w.data[w.pos+1])<<8
		fmt.Fprintf(b, "0x%02X, 0x%02X, // Bitmap size\n", w.data[w.pos], w.data[w.pos+1])
		w.pos += 2
		fmt.Fprintf(b, "0x%02X, 0x%02X, 0x%02X, 0x%02X, // Bitmap width (2B), height (2B)\n",
			w.data[w.pos], w.data[w.pos+1], w.data[w.pos+2], w.data[w.pos+3])
		w.pos += 4
		fmt.Fprintf(b, "0x%02X, // Color mode\n", w.data[w.pos])
		w.pos++
		fmt.Fprintf(b, "// Image data (%dB)\n", size)
		if err := w.need(size); err != nil {
			return err
		}
		for z := 0; z < size; z++ {
			fmt.Fprintf(b, "0x%02X, ", w.data[w.pos])
			w.pos++
			if (z+1)%16 == 0 {
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString("// Vartable\n") // vartableCount is always 0 (spec §6.2); nothing to dump

	b.WriteString("// Elements\n")
	for z := 0; z < elementCount; z++ {
		if err := w.need(2); err != nil {
			return err
		}
		fmt.Fprintf(b, "0x%02X, // Tag\n", w.data[w.pos])
		w.pos++

		start := w.pos
		for w.pos < len(w.data) && w.data[w.pos] != 0 {
			w.pos++
		}
		if w.pos >= len(w.data) {
			return hdl.NewError(hdl.KindEncoding, "dump: unterminated content string at offset %d", start)
		}
		w.pos++ // include the terminating NUL
		for i := start; i < w.pos; i++ {
			fmt.Fprintf(b, "0x%02X, ", w.data[i])
		}
		b.WriteString(" // Content\n")

		if err := w.need(1); err != nil {
			return err
		}
		attrCount := w.data[w.pos]
		fmt.Fprintf(b, "0x%02X, // Attribute count\n", attrCount)
		w.pos++

		b.WriteString("// Attributes\n")
		for a := 0; a < int(attrCount); a++ {
			fmt.Fprintf(b, "// Attribute %d\n", a)
			if err := w.need(3); err != nil {
				return err
			}
			key, typ, count := w.data[w.pos], w.data[w.pos+1], w.data[w.pos+2]
			fmt.Fprintf(b, "0x%02X, 0x%02X, 0x%02X, // Key, Type, Count\n", key, typ, count)
			w.pos += 3

			b.WriteString("// Attribute value\n")
			length := hdl.Type(typ).Size() * int(count)
			if hdl.Type(typ) == hdl.TypeString {
				strStart := w.pos
				for w.pos < len(w.data) && w.data[w.pos] != 0 {
					w.pos++
				}
				if w.pos >= len(w.data) {
					return hdl.NewError(hdl.KindEncoding, "dump: unterminated string attribute at offset %d", strStart)
				}
				length = w.pos - strStart + 1
				w.pos = strStart
			}
			if err := w.need(length); err != nil {
				return err
			}
			for y := 0; y < length; y++ {
				fmt.Fprintf(b, "0x%02X, ", w.data[w.pos])
				w.pos++
				if (y+1)%16 == 0 {
					b.WriteByte('\n')
				}
			}
			b.WriteByte('\n')
		}

		if err := w.need(1); err != nil {
			return err
		}
		fmt.Fprintf(b, "0x%02X", w.data[w.pos])
		w.pos++
		if w.pos < len(w.data) {
			b.WriteString(", ")
		}
		b.WriteString(" // Child count\n")
	}
	return nil
}
