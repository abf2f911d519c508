// Package parse implements the display markup's document parser: recursive
// descent over the block sequence produced by hdl/block, assembling an
// hdl.Document (spec §4.2).
package parse

import (
	"fmt"

	"github.com/osmakari/hdlc/hdl"
	"github.com/osmakari/hdlc/hdl/block"
)

// Parser drives the recursive-descent parse over a fixed block sequence with
// a single integer cursor, mirroring the original compiler's blockIndex.
// A Parser is single-use: construct one per document via Parse.
type Parser struct {
	blocks []string
	pos    int

	doc *hdl.Document

	// BaseDir resolves relative external bitmap paths ("#img name
	// \"file.bmp\""). It is threaded explicitly rather than held as a
	// package-level global (SPEC_FULL.md §A.3).
	BaseDir string

	// Warnings accumulates every non-fatal diagnostic encountered while
	// parsing: unknown attribute keys and unresolved bind identifiers
	// (spec §7). flexdir/align diagnostics are raised later, by hdl/encode,
	// which also warns again when it drops an unknown attribute.
	Warnings []string
}

// Parse tokenizes and parses src into a Document. baseDir resolves relative
// external bitmap paths encountered during "#img" definitions.
func Parse(src, baseDir string) (*hdl.Document, []string, error) {
	blocks, err := block.Split(src)
	if err != nil {
		return nil, nil, fmt.Errorf("parse: %v", err)
	}
	p := &Parser{
		blocks:  blocks,
		doc:     &hdl.Document{},
		BaseDir: baseDir,
	}
	if err := p.run(); err != nil {
		return nil, p.Warnings, err
	}
	return p.doc, p.Warnings, nil
}

func (p *Parser) cur() string {
	if p.pos < 0 || p.pos >= len(p.blocks) {
		return ""
	}
	return p.blocks[p.pos]
}

func (p *Parser) at(offset int) string {
	i := p.pos + offset
	if i < 0 || i >= len(p.blocks) {
		return ""
	}
	return p.blocks[i]
}

func (p *Parser) errorf(kind hdl.Kind, format string, args ...any) error {
	return hdl.NewError(kind, "parse: %s at block %d", fmt.Sprintf(format, args...), p.pos)
}

func (p *Parser) warnf(format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

// run is the top-level dispatch loop (spec §4.2): "#" definitions, the
// single root element, "/* */" comments, anything else is a hard error.
func (p *Parser) run() error {
	rootCreated := false
	for p.pos < len(p.blocks) {
		switch b := p.cur(); {
		case b == "#":
			if err := p.parseDefinition(); err != nil {
				return err
			}
		case b == "<":
			if rootCreated {
				return p.errorf(hdl.KindSyntax, "a second root element is not allowed")
			}
			rootCreated = true
			if _, err := p.parseElement(hdl.RootParent); err != nil {
				return err
			}
		case b == "/" && p.at(1) == "*":
			p.skipComment()
		default:
			return p.errorf(hdl.KindSyntax, "unexpected block %q at top level", b)
		}
	}
	if !rootCreated {
		return p.errorf(hdl.KindSyntax, "no root element")
	}
	return nil
}

// skipComment consumes a "/" "*" ... "*" "/" run of blocks.
func (p *Parser) skipComment() {
	p.pos += 2
	for p.pos < len(p.blocks) {
		if p.cur() == "*" && p.at(1) == "/" {
			p.pos += 2
			return
		}
		p.pos++
	}
}

func (p *Parser) parseDefinition() error {
	p.pos++ // consume "#"
	switch p.cur() {
	case "const":
		return p.parseConst()
	case "img":
		return p.parseImage()
	default:
		return p.errorf(hdl.KindSyntax, "unknown definition %q, expected \"const\" or \"img\"", p.cur())
	}
}

func (p *Parser) parseConst() error {
	p.pos++ // consume "const"
	name := p.cur()
	if name == "" || block.IsDelimiter(name[0]) {
		return p.errorf(hdl.KindSyntax, "expected a constant name, got %q", name)
	}
	if len(name) > hdl.MaxNameLength {
		return p.errorf(hdl.KindSemantic, "constant name %q exceeds %d characters", name, hdl.MaxNameLength)
	}
	p.pos++
	val, err := p.parseValue()
	if err != nil {
		return err
	}
	p.doc.Consts = append(p.doc.Consts, hdl.Const{Name: name, Value: val})
	p.pos++ // advance past the value's own last block
	return nil
}

// parseElement parses one "<tag ...(/>|>...</tag>)" production, appends it
// to the document, links it under parentIndex's children (or marks it the
// root when parentIndex is hdl.RootParent), and returns its index.
//
// The element is appended to doc.Elements before its body is parsed, and
// every later reference to it goes back through that index rather than
// through a cached pointer: recursing into a child may grow doc.Elements and
// invalidate any *hdl.Element held across the call (spec §9).
func (p *Parser) parseElement(parentIndex int) (int, error) {
	p.pos++ // consume "<"
	name := p.cur()
	if name == "" || block.IsDelimiter(name[0]) {
		return 0, p.errorf(hdl.KindSyntax, "expected a tag name, got %q", name)
	}
	tag, ok := hdl.FindTag(name)
	if !ok {
		return 0, p.errorf(hdl.KindSyntax, "unknown tag %q", name)
	}

	index := len(p.doc.Elements)
	p.doc.Elements = append(p.doc.Elements, hdl.Element{Tag: tag, Parent: parentIndex})
	p.pos++

	// tagType: 0 undecided, 1 short ("/>"), 2 long (">...</tag>").
	tagType := 0
loop:
	for p.pos < len(p.blocks) {
		switch b := p.cur(); {
		case b == "/":
			p.pos++
			if p.cur() != ">" {
				return 0, p.errorf(hdl.KindSyntax, "expected '>' after '/' in short tag, got %q", p.cur())
			}
			tagType = 1
			p.pos++
			break loop
		case b == ">":
			tagType = 2
			p.pos++
			break loop
		case block.IsDelimiter(b[0]):
			return 0, p.errorf(hdl.KindSyntax, "unexpected delimiter %q while parsing attributes", b)
		default:
			attr, err := p.parseAttribute()
			if err != nil {
				return 0, err
			}
			p.doc.Elements[index].Attrs = append(p.doc.Elements[index].Attrs, attr)
			p.pos++
		}
	}
	if tagType == 0 {
		return 0, p.errorf(hdl.KindSyntax, "unexpected end of input inside <%s>", name)
	}

	if parentIndex != hdl.RootParent {
		parent := &p.doc.Elements[parentIndex]
		parent.Children = append(parent.Children, index)
	}

	if tagType == 2 {
		if err := p.parseElementBody(index, name); err != nil {
			return 0, err
		}
	}
	return index, nil
}

// parseElementBody parses the children/content of a long-form tag up to and
// including its matching "</name>".
func (p *Parser) parseElementBody(index int, name string) error {
	for p.pos < len(p.blocks) {
		if p.cur() == "<" {
			p.pos++
			if p.cur() == "/" {
				p.pos++
				if p.cur() != name {
					return p.errorf(hdl.KindSyntax, "mismatched closing tag: opened <%s>, closed </%s>", name, p.cur())
				}
				p.pos++
				if p.cur() != ">" {
					return p.errorf(hdl.KindSyntax, "expected '>' after closing tag name, got %q", p.cur())
				}
				p.pos++
				return nil
			}
			next := p.cur()
			if next == "" || block.IsDelimiter(next[0]) {
				return p.errorf(hdl.KindSyntax, "unexpected delimiter %q after '<'", next)
			}
			p.pos-- // undo the '<' consumption so parseElement can consume it itself
			if _, err := p.parseElement(index); err != nil {
				return err
			}
			continue
		}

		b := p.cur()
		if b == "" || block.IsDelimiter(b[0]) {
			return p.errorf(hdl.KindSyntax, "unexpected block %q inside element body", b)
		}
		el := &p.doc.Elements[index]
		if el.HasText {
			return p.errorf(hdl.KindSyntax, "multiple text-content blocks under one element")
		}
		el.Content = b
		el.HasText = true
		p.pos++
	}
	return p.errorf(hdl.KindSyntax, "unexpected end of input, missing </%s>", name)
}

// parseAttribute parses one "key" or "key=value" production. An attribute
// with no "=" defaults to (BOOL, 1, true) (spec §4.2).
func (p *Parser) parseAttribute() (hdl.Attr, error) {
	name := p.cur()
	if name == "" || block.IsDelimiter(name[0]) {
		return hdl.Attr{}, p.errorf(hdl.KindSyntax, "unexpected delimiter %q where an attribute name was expected", name)
	}
	key, ok := hdl.FindAttrKey(name)
	if !ok {
		key = hdl.AttrUnknown
		p.warnf("unknown attribute %q, it will be dropped", name)
	}
	p.pos++

	if p.cur() != "=" {
		// No value assigned: cursor over-advanced looking for "=", back up
		// so the caller's own advance lands on the delimiter that follows.
		p.pos--
		return hdl.Attr{Key: key, Value: hdl.Value{Type: hdl.TypeBool, Count: 1, Bool: true}}, nil
	}

	p.pos++
	val, err := p.parseValue()
	if err != nil {
		return hdl.Attr{}, err
	}
	return hdl.Attr{Key: key, Value: val}, nil
}
