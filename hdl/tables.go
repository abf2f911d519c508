package hdl

// Tag is the closed set of recognized element tags (spec §6.1). An unknown
// tag is a fatal parse/encode error; there is no sentinel "unknown" Tag
// value, callers use FindTag's ok return instead.
type Tag uint8

const (
	TagBox Tag = iota
	TagText
)

var tagNames = [...]string{
	TagBox:  "box",
	TagText: "text",
}

func (t Tag) String() string {
	if uint(t) < uint(len(tagNames)) {
		return tagNames[t]
	}
	return "unknown"
}

// FindTag looks up a tag by its source name.
func FindTag(name string) (Tag, bool) {
	for i, n := range tagNames {
		if n == name {
			return Tag(i), true
		}
	}
	return 0, false
}

// AttrKey is the closed set of recognized attribute keys (spec §6.1).
type AttrKey uint8

const (
	AttrX AttrKey = iota
	AttrY
	AttrWidth
	AttrHeight
	AttrFlex
	AttrFlexDir
	AttrBind
	AttrImg
	AttrPadding
	AttrAlign
	AttrSize
	AttrDisabled

	attrKeyCount

	// AttrUnknown marks an attribute whose source key did not match any
	// entry in the recognized table. The parser still records it (with a
	// warning) so a later stage can apply the drop policy; the encoder is
	// the stage that actually drops it (spec §4.3, "unknown-attribute
	// policy").
	AttrUnknown = attrKeyCount
)

var attrKeyNames = [...]string{
	AttrX:        "x",
	AttrY:        "y",
	AttrWidth:    "width",
	AttrHeight:   "height",
	AttrFlex:     "flex",
	AttrFlexDir:  "flexdir",
	AttrBind:     "bind",
	AttrImg:      "img",
	AttrPadding:  "padding",
	AttrAlign:    "align",
	AttrSize:     "size",
	AttrDisabled: "disabled",
}

func (k AttrKey) String() string {
	if uint(k) < uint(len(attrKeyNames)) {
		return attrKeyNames[k]
	}
	return "unknown"
}

// FindAttrKey looks up an attribute key by its source name.
func FindAttrKey(name string) (AttrKey, bool) {
	for i, n := range attrKeyNames {
		if n == name {
			return AttrKey(i), true
		}
	}
	return 0, false
}

// AlignYWords and AlignXWords are the ordinal tables the "align" attribute's string
// form resolves against (spec §4.3(c), §6.1).
var (
	AlignYWords = [...]string{"middle", "top", "bottom"}
	AlignXWords = [...]string{"center", "left", "right"}
)

// FlexDirCol and FlexDirRow are the narrowed integer values of the
// "flexdir" attribute's string forms (spec §4.3(b)). "col" and "row" are the only recognized
// words; anything else is a warning defaulting to FlexDirCol.
const (
	FlexDirCol = 1
	FlexDirRow = 2
)
