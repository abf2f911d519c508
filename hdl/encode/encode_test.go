package encode

import (
	"bytes"
	"math"
	"testing"

	"github.com/osmakari/hdlc/hdl"
	"github.com/osmakari/hdlc/hdl/parse"
)

func mustParse(tt *testing.T, src string) *hdl.Document {
	tt.Helper()
	doc, _, err := parse.Parse(src, "")
	if err != nil {
		tt.Fatalf("%q: unexpected parse error: %v", src, err)
	}
	return doc
}

var header = []byte{
	0x00, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

func TestEncodeMinimal(tt *testing.T) {
	doc := mustParse(tt, "<box/>")
	got, warnings, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		tt.Fatalf("unexpected warnings: %v", warnings)
	}
	want := append(append([]byte{}, header...), 0x00, 0x00, 0x00, 0x00)
	if !bytes.Equal(got, want) {
		tt.Errorf("<box/>:\ngot:  % 02X\nwant: % 02X", got, want)
	}
	if len(got) != 20 {
		tt.Errorf("<box/>: got length %d, want 20", len(got))
	}
}

func TestEncodeTextContent(tt *testing.T) {
	doc := mustParse(tt, "<text>hello</text>")
	got, _, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	wantRecord := []byte{0x01, 'h', 'e', 'l', 'l', 'o', 0x00, 0x00, 0x00}
	gotRecord := got[16:]
	if !bytes.Equal(gotRecord, wantRecord) {
		tt.Errorf("<text>hello</text>: got % 02X, want % 02X", gotRecord, wantRecord)
	}
}

func TestEncodeIntegerNarrowedAttribute(tt *testing.T) {
	doc := mustParse(tt, "<box x=5/>")
	got, _, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x00, 0x00, 0x01, 0x00, 0x04, 0x01, 0x05, 0x00}
	gotRecord := got[16:]
	if !bytes.Equal(gotRecord, want) {
		tt.Errorf("<box x=5/>: got % 02X, want % 02X", gotRecord, want)
	}
}

func TestEncodeAlignRewrite(tt *testing.T) {
	doc := mustParse(tt, `<box align="top right"/>`)
	got, _, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x00, 0x00, 0x01, 0x09, 0x04, 0x01, 0x21, 0x00}
	gotRecord := got[16:]
	if !bytes.Equal(gotRecord, want) {
		tt.Errorf(`<box align="top right"/>: got % 02X, want % 02X`, gotRecord, want)
	}
}

func TestEncodeFlexDirRewrite(tt *testing.T) {
	doc := mustParse(tt, `<box flexdir="row"/>`)
	got, _, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x00, 0x00, 0x01, 0x05, 0x04, 0x01, 0x02, 0x00}
	gotRecord := got[16:]
	if !bytes.Equal(gotRecord, want) {
		tt.Errorf(`<box flexdir="row"/>: got % 02X, want % 02X`, gotRecord, want)
	}
}

func TestEncodeFloatKeptArray(tt *testing.T) {
	doc := mustParse(tt, "<box x=[1.5, 2, 3]/>")
	got, _, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	wantPrefix := []byte{0x00, 0x00, 0x01, 0x00, 0x02, 0x03}
	gotRecord := got[16:]
	if !bytes.HasPrefix(gotRecord, wantPrefix) {
		tt.Fatalf("<box x=[1.5, 2, 3]/>: got % 02X, want prefix % 02X", gotRecord, wantPrefix)
	}
	payload := gotRecord[len(wantPrefix):]
	if len(payload) < 12 {
		tt.Fatalf("<box x=[1.5, 2, 3]/>: payload too short: % 02X", payload)
	}
	wantFloats := []float32{1.5, 2.0, 3.0}
	for i, want := range wantFloats {
		gotF := littleEndianFloat32(payload[i*4 : i*4+4])
		if gotF != want {
			tt.Errorf("<box x=[1.5, 2, 3]/> element %d: got %v, want %v", i, gotF, want)
		}
	}
}

func TestEncodeNarrowingScansWholeArray(tt *testing.T) {
	// Per the scan-all redesign (spec §9), a fractional value anywhere in
	// the array keeps the whole array FLOAT, not just when it is first.
	doc := mustParse(tt, "<box x=[1, 2.5, 3]/>")
	got, _, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	gotRecord := got[16:]
	// attrs=1; key=x=0; type=FLOAT=2; count=3
	want := []byte{0x00, 0x00, 0x01, 0x00, 0x02, 0x03}
	if !bytes.HasPrefix(gotRecord, want) {
		tt.Errorf("<box x=[1, 2.5, 3]/>: got % 02X, want prefix % 02X (FLOAT, not I8)", gotRecord, want)
	}
}

func TestEncodeUnknownAttributeDropped(tt *testing.T) {
	doc := mustParse(tt, "<box bogus=1/>")
	got, warnings, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) == 0 {
		tt.Errorf("expected a warning about the dropped attribute")
	}
	gotRecord := got[16:]
	want := []byte{0x00, 0x00, 0x00, 0x00} // attrCount decremented to 0, no attribute record
	if !bytes.Equal(gotRecord, want) {
		tt.Errorf("<box bogus=1/>: got % 02X, want % 02X", gotRecord, want)
	}
}

func TestEncodeConstBoundaries(tt *testing.T) {
	testCases := []struct {
		src      string
		wantType byte
	}{
		{"#const v 127\n<box x=v/>", 0x04}, // I8
		{"#const v 128\n<box x=v/>", 0x05}, // I16
	}
	for _, tc := range testCases {
		doc := mustParse(tt, tc.src)
		got, _, err := Encode(doc)
		if err != nil {
			tt.Fatalf("%q: unexpected error: %v", tc.src, err)
		}
		gotRecord := got[16:]
		gotType := gotRecord[4] // tag, content NUL, attr count, key, type
		if gotType != tc.wantType {
			tt.Errorf("%q: got type 0x%02X, want 0x%02X", tc.src, gotType, tc.wantType)
		}
	}
}

func TestEncodeDeterministic(tt *testing.T) {
	doc := mustParse(tt, `<box x=5 align="middle left"><text>hi</text></box>`)
	a, _, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	doc2 := mustParse(tt, `<box x=5 align="middle left"><text>hi</text></box>`)
	b, _, err := Encode(doc2)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(a, b) {
		tt.Errorf("encode(parse(source)) was not deterministic:\n%02X\n%02X", a, b)
	}
}

func TestEncodeHeaderAndPadding(tt *testing.T) {
	doc := mustParse(tt, "<box/>")
	got, _, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if got[0] != 0 || got[1] != 1 {
		tt.Errorf("version bytes: got %d.%d, want 0.1", got[0], got[1])
	}
	for i := 6; i < 16; i++ {
		if got[i] != 0 {
			tt.Errorf("padding byte %d: got 0x%02X, want 0", i, got[i])
		}
	}
}

func littleEndianFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
