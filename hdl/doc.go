// Package hdl holds the data model shared by the display markup compiler's
// stages: the recognized Type enumeration, tagged Values, the Document tree
// (constants, bitmaps and a single element tree), and the tag/attribute
// ordinal tables that the encoder and parser both consult.
package hdl

// MaxNameLength is the maximum length, in bytes and excluding the NUL
// terminator, of an element tag, attribute key, constant name or bitmap
// name.
const MaxNameLength = 31
