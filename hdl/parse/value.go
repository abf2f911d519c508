package parse

import (
	"strconv"

	"github.com/osmakari/hdlc/hdl"
	"github.com/osmakari/hdlc/hdl/block"
)

// parseValue consumes one value production (spec §4.2's value table) and
// returns it. On return, the cursor sits on the value's own last block;
// the caller advances past it.
func (p *Parser) parseValue() (hdl.Value, error) {
	b := p.cur()
	switch {
	case b == "":
		return hdl.Value{}, p.errorf(hdl.KindSyntax, "expected a value, reached end of input")
	case b == "[":
		return p.parseArrayValue()
	case b[0] == '"' || b[0] == '\'':
		return p.parseStringValue(b)
	case isNumberString(b):
		f, err := strconv.ParseFloat(b, 64)
		if err != nil {
			return hdl.Value{}, p.errorf(hdl.KindSyntax, "malformed number %q", b)
		}
		return hdl.Value{Type: hdl.TypeFloat, Count: 1, Floats: []float64{f}}, nil
	case b == "true":
		return hdl.Value{Type: hdl.TypeBool, Count: 1, Bool: true}, nil
	case b == "false":
		return hdl.Value{Type: hdl.TypeBool, Count: 1, Bool: false}, nil
	case b == "$":
		return p.parseBindValue()
	default:
		return p.parseReferenceValue(b)
	}
}

// parseArrayValue parses "[" v (, v)* "]". Every element must share a type;
// STRING elements are rejected (spec §4.2).
func (p *Parser) parseArrayValue() (hdl.Value, error) {
	out := hdl.Value{Type: hdl.TypeNull}
	p.pos++ // consume "["
	for {
		if p.cur() == "" {
			return hdl.Value{}, p.errorf(hdl.KindLexical, "unterminated array")
		}
		if p.cur() == "]" {
			break
		}

		elem, err := p.parseValue()
		if err != nil {
			return hdl.Value{}, err
		}
		if elem.Type == hdl.TypeString {
			return hdl.Value{}, p.errorf(hdl.KindSyntax, "arrays do not support strings")
		}
		if out.Count > 0 && out.Type != elem.Type {
			return hdl.Value{}, p.errorf(hdl.KindSyntax, "array element type mismatch: %s after %s", elem.Type, out.Type)
		}
		out.Type = elem.Type
		appendArrayElement(&out, elem)
		out.Count++

		p.pos++ // advance past the element's own last block
		switch p.cur() {
		case "]":
		case ",":
			p.pos++
			continue
		default:
			return hdl.Value{}, p.errorf(hdl.KindSyntax, "expected ',' or ']' in array, got %q", p.cur())
		}
		break
	}
	return out, nil
}

// appendArrayElement folds elem, a single-valued Value, into the
// accumulating array out.
func appendArrayElement(out *hdl.Value, elem hdl.Value) {
	switch elem.Type {
	case hdl.TypeFloat:
		out.Floats = append(out.Floats, elem.Floats...)
	case hdl.TypeBool:
		out.Bytes = append(out.Bytes, boolByte(elem.Bool))
	case hdl.TypeImg, hdl.TypeBind:
		out.Bytes = append(out.Bytes, elem.Byte)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// parseStringValue parses a quoted block, stripping the enclosing quotes.
func (p *Parser) parseStringValue(b string) (hdl.Value, error) {
	quote := b[0]
	if len(b) < 2 || b[len(b)-1] != quote {
		return hdl.Value{}, p.errorf(hdl.KindLexical, "unterminated quote in %q", b)
	}
	return hdl.Value{Type: hdl.TypeString, Count: 1, Str: b[1 : len(b)-1]}, nil
}

// parseBindValue parses "$" followed by either an integer literal (the bind
// index directly) or an identifier (resolved against the constant table,
// taking the first byte of its float value). An unresolved identifier warns
// and defaults to 0xFF (spec §4.2).
func (p *Parser) parseBindValue() (hdl.Value, error) {
	p.pos++ // consume "$"
	b := p.cur()
	if b == "" {
		return hdl.Value{}, p.errorf(hdl.KindSyntax, "expected an identifier or integer after '$'")
	}
	if isIntString(b) {
		n, err := strconv.Atoi(b)
		if err != nil {
			return hdl.Value{}, p.errorf(hdl.KindSyntax, "malformed bind index %q", b)
		}
		return hdl.Value{Type: hdl.TypeBind, Count: 1, Byte: uint8(n)}, nil
	}
	if c, ok := p.doc.FindConst(b); ok {
		return hdl.Value{Type: hdl.TypeBind, Count: 1, Byte: uint8(c.Value.Float())}, nil
	}
	p.warnf("unresolved bind identifier %q, defaulting to 0xFF", b)
	return hdl.Value{Type: hdl.TypeBind, Count: 1, Byte: 0xFF}, nil
}

// parseReferenceValue resolves a bare identifier against the constant table,
// then the bitmap table (spec §4.2). A constant reference aliases the
// constant's own Value rather than copying it (spec §9); nothing downstream
// mutates a Value in place, so this is safe.
func (p *Parser) parseReferenceValue(b string) (hdl.Value, error) {
	if block.IsDelimiter(b[0]) {
		return hdl.Value{}, p.errorf(hdl.KindSyntax, "unexpected delimiter %q in value position", b)
	}
	if c, ok := p.doc.FindConst(b); ok {
		return c.Value, nil
	}
	if i, ok := p.doc.FindBitmap(b); ok {
		return hdl.Value{Type: hdl.TypeImg, Count: 1, Byte: uint8(i)}, nil
	}
	return hdl.Value{}, p.errorf(hdl.KindSemantic, "unknown identifier %q", b)
}

// isNumberString reports whether s parses as a decimal float literal: at
// most one leading '-', at most one '.', and at least one digit.
func isNumberString(s string) bool {
	if s == "" {
		return false
	}
	hasDigit, hasPoint := false, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '-':
			if i != 0 {
				return false
			}
		case c == '.':
			if hasPoint {
				return false
			}
			hasPoint = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			return false
		}
	}
	if hasPoint && s[len(s)-1] == '.' {
		return false
	}
	return hasDigit
}

// isIntString reports whether s parses as a signed decimal integer literal.
func isIntString(s string) bool {
	if s == "" {
		return false
	}
	hasDigit := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' {
			if i != 0 {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
		hasDigit = true
	}
	return hasDigit
}
