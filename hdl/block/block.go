// Package block implements the display markup tokenizer: it splits source
// text into an ordered sequence of blocks, each either a single delimiter
// byte or a maximal run of non-delimiter characters, while tracking the
// quoting and text-content states the grammar needs (spec §4.1).
package block

import "fmt"

// quoteState is the splitter's internal mode. Exactly one of these is
// active at a time; none, single and double are explicit (', ") and text is
// entered implicitly after an element's opening tag closes with '>', lasting
// until the next '<'.
type quoteState uint8

const (
	stateNone quoteState = iota
	stateSingle
	stateDouble
	stateText
)

// IsDelimiter reports whether c is one of the grammar's fixed delimiter
// bytes. Whitespace delimiters are handled separately below because they
// collapse instead of becoming their own block. Exported because the parser
// needs the same test to tell a delimiter block (e.g. "<") from a run block
// that merely starts with a byte that is a delimiter elsewhere (e.g. a
// quoted string, whose opening quote is not itself a delimiter byte).
func IsDelimiter(c byte) bool {
	switch c {
	case '#', '\n', '\r', '\t', ' ', '<', '>', '/', '*', '=', '[', ']', ',', '(', ')', '$':
		return true
	}
	return false
}

func isDelimiter(c byte) bool { return IsDelimiter(c) }

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

// Split tokenizes src into an ordered, non-empty sequence of blocks.
//
// Splitting is total: every non-whitespace, non-duplicate-whitespace byte of
// src is accounted for in exactly one block. The only failure is an
// unterminated single or double quote at end of input (spec §7,
// LexicalError); a text-content run still open at end of input is simply
// flushed as the last block.
func Split(src string) ([]string, error) {
	var blocks []string
	var run []byte

	flush := func() {
		if len(run) > 0 {
			blocks = append(blocks, string(run))
			run = run[:0]
		}
	}

	state := stateNone
	var lastChar byte = ' '
	closingTag := false // inside a "</name>" closing tag

	for i := 0; i < len(src); i++ {
		c := src[i]

		if lastChar != '\\' {
			switch c {
			case '\'':
				if state == stateNone {
					state = stateSingle
				} else if state == stateSingle {
					state = stateNone
				}
			case '"':
				if state == stateNone {
					state = stateDouble
				} else if state == stateDouble {
					state = stateNone
				}
			case '<':
				if state == stateText {
					state = stateNone
				}
			}
		}

		if isWhitespace(c) && isWhitespace(lastChar) && state == stateNone {
			lastChar = c
			continue
		}

		if isDelimiter(c) && state == stateNone {
			flush()
			if !isWhitespace(c) {
				blocks = append(blocks, string(c))
			}
		} else if !isWhitespace(c) || (state != stateNone && c != '\n') {
			if lastChar == '\\' {
				switch c {
				case 'n':
					if len(run) > 0 {
						run[len(run)-1] = '\n'
					}
				case 't':
					if len(run) > 0 {
						run[len(run)-1] = '\t'
					}
				}
				// Any other escaped character is dropped: the literal
				// backslash already written stays, suppressing the
				// character's delimiter/quote role without substituting
				// anything for it. This mirrors the original compiler's
				// escape handling exactly (see DESIGN.md).
			} else {
				run = append(run, c)
			}
		}

		if c == '/' && lastChar == '<' && state == stateNone {
			closingTag = true
		}
		if c == '>' && lastChar != '\\' && state == stateNone {
			// Only an opening tag's '>' starts a body: neither a short
			// tag's "/>" nor a closing tag's "</name>" does.
			if lastChar != '/' && !closingTag {
				state = stateText
			}
			closingTag = false
		}

		lastChar = c
	}
	flush()

	if state == stateSingle || state == stateDouble {
		return nil, fmt.Errorf("block: unterminated quote at end of input")
	}

	return blocks, nil
}
