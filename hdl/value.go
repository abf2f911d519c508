package hdl

// Value is a tagged, possibly-array value attached to an attribute or
// constant. Exactly one of the fields below is meaningful, selected by Type:
//
//	TypeNull           - no field is meaningful.
//	TypeBool           - Bool when Count == 1, otherwise Bytes (one 0/1 byte
//	                      per element). A bare attribute key with no "="
//	                      always produces Count == 1.
//	TypeFloat          - Floats[:Count]. The encoder narrows this to the
//	                      smallest lossless integer width at encode time; the
//	                      in-memory Value is never mutated by that step.
//	TypeString         - Str. Count is always 1; arrays of TypeString are
//	                      rejected by the parser.
//	TypeI8/I16/I32     - Floats[:Count], holding the already-integral values.
//	                      Parsing never produces these directly (see §4.3);
//	                      they would only appear on a constant aliased from
//	                      another constant already carrying a narrowed type,
//	                      which cannot happen since narrowing never mutates
//	                      the constant table.
//	TypeImg            - Byte when Count == 1, otherwise Bytes, each entry a
//	                      bitmap index.
//	TypeBind           - Byte when Count == 1, otherwise Bytes, each entry a
//	                      bind index. The "$ident"/"$int" forms (spec §4.2)
//	                      always produce Count == 1; a higher count only
//	                      arises from wrapping binds in an array literal.
//
// A Value with Count > 1 is an array.
type Value struct {
	Type   Type
	Count  uint8
	Floats []float64
	Bool   bool
	Str    string
	Byte   uint8
	Bytes  []byte
}

// Float returns the first (or only) float element, or 0 if Floats is empty.
func (v Value) Float() float64 {
	if len(v.Floats) == 0 {
		return 0
	}
	return v.Floats[0]
}
