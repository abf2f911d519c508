package encode

import (
	"strings"
	"testing"
)

func TestCompile(tt *testing.T) {
	doc := mustParse(tt, "<box x=5/>")
	result, err := Compile(doc, 42)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if result.OriginalSize != 42 {
		tt.Errorf("got OriginalSize %d, want 42", result.OriginalSize)
	}
	if result.CompiledSize != len(result.Data) {
		tt.Errorf("got CompiledSize %d, want %d", result.CompiledSize, len(result.Data))
	}
}

func TestDumpCPlain(tt *testing.T) {
	doc := mustParse(tt, "<box/>")
	data, _, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	out, err := DumpC(data, DumpOptions{OriginalSize: 6})
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "unsigned char HDL_PAGE_OUTPUT[20] = {") {
		tt.Errorf("missing array declaration:\n%s", out)
	}
	if !strings.Contains(out, "0x00") {
		tt.Errorf("missing hex byte rendering:\n%s", out)
	}
}

func TestDumpCCommented(tt *testing.T) {
	doc := mustParse(tt, `<box x=5 align="top right"><text>hi</text></box>`)
	data, _, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	out, err := DumpC(data, DumpOptions{Name: "custom_page", Commented: true})
	if err != nil {
		tt.Fatalf("commented dump failed: %v", err)
	}
	for _, want := range []string{
		"unsigned char custom_page",
		"// File format version",
		"// Bitmap(1B), Vartable(1B), Element(2B) count",
		"// Padding until 0x10",
		"// Elements",
		"// Tag",
		"// Content",
		"// Attribute count",
		"// Child count",
	} {
		if !strings.Contains(out, want) {
			tt.Errorf("commented dump missing %q:\n%s", want, out)
		}
	}
}

func TestDumpCWithBitmap(tt *testing.T) {
	doc := mustParse(tt, "#img icon (4,1) 1010;\n<box img=icon/>")
	data, _, err := Encode(doc)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	out, err := DumpC(data, DumpOptions{Commented: true})
	if err != nil {
		tt.Fatalf("commented dump failed: %v", err)
	}
	for _, want := range []string{"// Bitmap 0", "// Bitmap size", "// Image data"} {
		if !strings.Contains(out, want) {
			tt.Errorf("commented dump missing %q:\n%s", want, out)
		}
	}
}

func TestDumpCTruncatedBufferErrors(tt *testing.T) {
	_, err := DumpC([]byte{0x00, 0x01}, DumpOptions{Commented: true})
	if err == nil {
		tt.Fatalf("expected an error for a truncated header")
	}
}
