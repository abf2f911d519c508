package hdl

// Type is the closed set of value types a Value can carry.
type Type uint8

const (
	TypeNull Type = iota
	TypeBool
	TypeFloat
	TypeString
	TypeI8
	TypeI16
	TypeI32
	TypeImg
	TypeBind

	typeCount
)

func (t Type) String() string {
	if uint(t) < uint(len(typeStrings)) {
		return typeStrings[t]
	}
	return "TypeUnknown"
}

var typeStrings = [...]string{
	TypeNull:   "NULL",
	TypeBool:   "BOOL",
	TypeFloat:  "FLOAT",
	TypeString: "STRING",
	TypeI8:     "I8",
	TypeI16:    "I16",
	TypeI32:    "I32",
	TypeImg:    "IMG",
	TypeBind:   "BIND",
}

// typeSizes holds the fixed on-wire element size for every type. STRING is
// null-terminated and carries no fixed width, so it is zero here just like
// NULL.
var typeSizes = [typeCount]uint8{
	TypeNull:   0,
	TypeBool:   1,
	TypeFloat:  4,
	TypeString: 0,
	TypeI8:     1,
	TypeI16:    2,
	TypeI32:    4,
	TypeImg:    1,
	TypeBind:   1,
}

// Size returns t's fixed on-wire element size, or 0 for NULL and STRING.
func (t Type) Size() int {
	if uint(t) < uint(len(typeSizes)) {
		return int(typeSizes[t])
	}
	return 0
}

// IsInteger reports whether t is one of the narrowed integer types produced
// by the encoder's float-narrowing step.
func (t Type) IsInteger() bool {
	return t == TypeI8 || t == TypeI16 || t == TypeI32
}
