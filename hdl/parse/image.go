package parse

import (
	"strconv"
	"strings"

	"github.com/osmakari/hdlc/hdl"
	"github.com/osmakari/hdlc/hdl/bitmap"
	"github.com/osmakari/hdlc/hdl/block"
)

// parseImage parses a "#img name ..." definition (spec §4.2). Two forms:
//
//	#img name "path.bmp"
//	#img name (W,H) [ "path.bmp" | bit-run ";" ]
//	#img name (W,H,SW,SH) [ "path.bmp" | bit-run ";" ]
func (p *Parser) parseImage() error {
	p.pos++ // consume "img"
	name := p.cur()
	if name == "" || block.IsDelimiter(name[0]) {
		return p.errorf(hdl.KindSyntax, "expected a bitmap name, got %q", name)
	}
	if len(name) > hdl.MaxNameLength {
		return p.errorf(hdl.KindSemantic, "bitmap name %q exceeds %d characters", name, hdl.MaxNameLength)
	}
	p.pos++

	if isQuoted(p.cur()) {
		bmp, err := p.parseBitmapFromPath(name, p.cur())
		if err != nil {
			return err
		}
		p.doc.Bitmaps = append(p.doc.Bitmaps, *bmp)
		p.pos++
		return nil
	}
	if p.cur() != "(" {
		return p.errorf(hdl.KindSyntax, "expected (width,height) or a bitmap path, got %q", p.cur())
	}

	width, height, spriteW, spriteH, err := p.parseBitmapDimensions()
	if err != nil {
		return err
	}

	if isQuoted(p.cur()) {
		bmp, err := p.parseBitmapFromPath(name, p.cur())
		if err != nil {
			return err
		}
		bmp.SpriteWidth, bmp.SpriteHeight = spriteW, spriteH
		p.doc.Bitmaps = append(p.doc.Bitmaps, *bmp)
		p.pos++
		return nil
	}

	bmp, err := p.parseInlineBitmap(name, width, height, spriteW, spriteH)
	if err != nil {
		return err
	}
	p.doc.Bitmaps = append(p.doc.Bitmaps, *bmp)
	p.pos++ // consume the terminating ";"
	return nil
}

// parseBitmapDimensions parses the "(W,H)" or "(W,H,SW,SH)" form. On return
// the cursor sits just past the closing ")".
func (p *Parser) parseBitmapDimensions() (width, height uint16, spriteW, spriteH uint8, err error) {
	p.pos++ // consume "("
	w, err := p.parseUint("bitmap width")
	if err != nil {
		return 0, 0, 0, 0, err
	}
	p.pos++
	if p.cur() != "," {
		return 0, 0, 0, 0, p.errorf(hdl.KindSyntax, "expected ',' between width and height, got %q", p.cur())
	}
	p.pos++
	h, err := p.parseUint("bitmap height")
	if err != nil {
		return 0, 0, 0, 0, err
	}
	p.pos++

	sw, sh := w, h
	if p.cur() == "," {
		p.pos++
		sw16, err := p.parseUint("sprite width")
		if err != nil {
			return 0, 0, 0, 0, err
		}
		p.pos++
		if p.cur() != "," {
			return 0, 0, 0, 0, p.errorf(hdl.KindSyntax, "expected (width,height,sprite_width,sprite_height), got %q", p.cur())
		}
		p.pos++
		sh16, err := p.parseUint("sprite height")
		if err != nil {
			return 0, 0, 0, 0, err
		}
		p.pos++
		sw, sh = sw16, sh16
	}

	if p.cur() != ")" {
		return 0, 0, 0, 0, p.errorf(hdl.KindSyntax, "missing closing ')' in bitmap dimensions")
	}
	p.pos++

	return w, h, uint8(sw), uint8(sh), nil
}

func (p *Parser) parseUint(what string) (uint16, error) {
	n, err := strconv.Atoi(p.cur())
	if err != nil || n < 0 {
		return 0, p.errorf(hdl.KindSyntax, "expected a non-negative integer for %s, got %q", what, p.cur())
	}
	return uint16(n), nil
}

// parseBitmapFromPath delegates to the external BMP loader, resolving a
// relative path against the parser's BaseDir (spec §4.2 form 1, §4.4).
func (p *Parser) parseBitmapFromPath(name, quoted string) (*hdl.Bitmap, error) {
	path := strings.Trim(quoted, `"'`)
	bmp, err := bitmap.FromFile(p.BaseDir, name, path, 0, 0)
	if err != nil {
		return nil, p.errorf(hdl.KindSemantic, "%v", err)
	}
	return bmp, nil
}

// parseInlineBitmap parses a bit-run literal ("0"/"1" characters across any
// number of blocks) terminated by ";", packing it row-major, MSB-first
// (spec §4.2 form 2). Since ';' is not one of the splitter's delimiter
// bytes (spec §4.1), it does not necessarily start a block of its own: a
// source with no space before it (the natural way to write one, e.g.
// "1010 0101;") tokenizes with ';' glued to the preceding digits as a
// single block. The terminator is therefore looked for byte by byte within
// each block rather than block by block.
func (p *Parser) parseInlineBitmap(name string, width, height uint16, spriteW, spriteH uint8) (*hdl.Bitmap, error) {
	stride := (int(width) + 7) / 8
	size := stride * int(height)
	data := make([]byte, size)

	x, y := 0, 0
	for p.pos < len(p.blocks) {
		b := p.cur()
		for i := 0; i < len(b); i++ {
			if b[i] == ';' {
				return &hdl.Bitmap{
					Name: name, Width: width, Height: height,
					SpriteWidth: spriteW, SpriteHeight: spriteH,
					ColorMode: hdl.ColorModeMono, Size: uint16(size), Data: data,
				}, nil
			}
			if y*stride+x/8 >= size {
				return nil, p.errorf(hdl.KindSemantic, "bitmap %q: inline data overflows its declared %dx%d size", name, width, height)
			}
			switch b[i] {
			case '1':
				data[y*stride+x/8] |= 1 << uint(7-x%8)
			case '0':
			default:
				return nil, p.errorf(hdl.KindSyntax, "bitmap %q: expected only 0/1 characters before ';', got %q", name, b)
			}
			x++
			if x >= int(width) {
				x = 0
				y++
			}
		}
		p.pos++
	}
	return nil, p.errorf(hdl.KindSyntax, "bitmap %q: missing terminating ';'", name)
}

func isQuoted(b string) bool {
	return len(b) > 0 && (b[0] == '"' || b[0] == '\'')
}
