package hdl

import "fmt"

// Kind classifies a compile error the way spec §7 does. It exists so that a
// caller that cares can distinguish error categories with a type assertion;
// every stage still just returns a plain error, as the teacher corpus does
// throughout (see SPEC_FULL.md §A.1).
type Kind int

const (
	KindLexical Kind = iota
	KindSyntax
	KindSemantic
	KindEncoding
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntax:
		return "syntax"
	case KindSemantic:
		return "semantic"
	case KindEncoding:
		return "encoding"
	}
	return "unknown"
}

// Error is a fatal compile failure, fatal to the current compile per spec
// §7: there is no recovery, the first Error returned aborts the pipeline.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// NewError builds an *Error of the given Kind with a printf-style message.
func NewError(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}
