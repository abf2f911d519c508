package block

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplit(tt *testing.T) {
	testCases := []struct {
		src  string
		want []string
	}{
		{"<box/>", []string{"<", "box", "/", ">"}},
		{"<box x=5/>", []string{"<", "box", "x", "=", "5", "/", ">"}},
		{`<box x="hello"/>`, []string{"<", "box", "x", "=", `"hello"`, "/", ">"}},
		{"<text>hello</text>", []string{"<", "text", ">", "hello", "<", "/", "text", ">"}},
		{"<text>hello world</text>", []string{"<", "text", ">", "hello world", "<", "/", "text", ">"}},
		{"<box   x = 5 />", []string{"<", "box", "x", "=", "5", "/", ">"}},
		{"#const foo 1", []string{"#", "const", "foo", "1"}},
		{"<box x=[1, 2, 3]/>", []string{"<", "box", "x", "=", "[", "1", ",", "2", ",", "3", "]", "/", ">"}},
		{`<box x='a\nb'/>`, []string{"<", "box", "x", "=", "'a\nb'", "/", ">"}},
	}
	for _, tc := range testCases {
		got, err := Split(tc.src)
		if err != nil {
			tt.Errorf("%q: unexpected error: %v", tc.src, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			tt.Errorf("%q:\ngot:  %q\nwant: %q", tc.src, got, tc.want)
		}
	}
}

func TestSplitQuotedStringRoundTrips(tt *testing.T) {
	testCases := []string{
		`'hello'`,
		`"hello world"`,
		`'123'`,
	}
	for _, tc := range testCases {
		got, err := Split(tc)
		if err != nil {
			tt.Fatalf("%q: unexpected error: %v", tc, err)
		}
		if len(got) != 1 || got[0] != tc {
			tt.Errorf("%q: got %q, want a single block equal to the input", tc, got)
		}
	}
}

func TestSplitTotal(tt *testing.T) {
	// Splitting is total: the number of non-whitespace-delimiter runs and
	// delimiters reconstructs every significant byte of the source.
	src := `<box x=5 y=10 align="top right"><text>hi</text></box>`
	got, err := Split(src)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 {
		tt.Fatal("expected a non-empty block sequence")
	}
	want := `<boxx=5y=10align="top right"><text>hi</text></box>`
	if joined := strings.Join(got, ""); joined != want {
		tt.Errorf("blocks joined: got %q, want %q", joined, want)
	}
}

func TestSplitAngleBracketsBalanced(tt *testing.T) {
	src := `<box><text>hi</text></box>`
	got, err := Split(src)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	opens, closes := 0, 0
	for _, b := range got {
		if b == "<" {
			opens++
		} else if b == ">" {
			closes++
		}
	}
	if opens != closes {
		tt.Errorf("unbalanced angle brackets: %d '<' vs %d '>'", opens, closes)
	}
}

func TestSplitUnterminatedQuote(tt *testing.T) {
	if _, err := Split(`<box x="unterminated/>`); err == nil {
		tt.Fatal("expected an error for an unterminated quote")
	}
}

func TestSplitWhitespaceNeverEmitted(tt *testing.T) {
	got, err := Split("  <box  />  ")
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	for _, b := range got {
		if strings.TrimSpace(b) == "" {
			tt.Errorf("whitespace-only block %q was emitted", b)
		}
	}
}
