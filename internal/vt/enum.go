package vt

// Named descriptors for the scalar types of the canonical enumeration.
var (
	Void = MakeVoid()

	I1   = MakeInt(1)
	I8   = MakeInt(8)
	I16  = MakeInt(16)
	I32  = MakeInt(32)
	I64  = MakeInt(64)
	I128 = MakeInt(128)

	F16     = MakeFloat(FormatHalf)
	F32     = MakeFloat(FormatSingle)
	F64     = MakeFloat(FormatDouble)
	F80     = MakeFloat(FormatX87Extended)
	F128    = MakeFloat(FormatQuad)
	PPCF128 = MakeFloat(FormatDoubleDouble)
)

// Enumeration caps. Vector types beyond these widths are handled
// algorithmically as extended types instead of being tabulated.
const (
	maxVectorBits = 2048
	maxBoolLanes  = 1024
)

var (
	intScalars   = []Type{I1, I8, I16, I32, I64, I128}
	floatScalars = []Type{F16, F32, F64, F80, F128, PPCF128}

	enumerated []Type
	enumSet    map[Type]struct{}
)

func init() {
	enumerated = append(enumerated, Void)
	enumerated = append(enumerated, intScalars...)
	enumerated = append(enumerated, floatScalars...)
	for _, elem := range intScalars {
		enumerated = append(enumerated, enumVectors(elem)...)
	}
	for _, elem := range []Type{F16, F32, F64} {
		enumerated = append(enumerated, enumVectors(elem)...)
	}
	enumSet = make(map[Type]struct{}, len(enumerated))
	for _, t := range enumerated {
		enumSet[t] = struct{}{}
	}
}

func enumVectors(elem Type) []Type {
	maxLanes := maxVectorBits / elem.BitSize()
	if elem == I1 {
		maxLanes = maxBoolLanes
	}
	var out []Type
	for lanes := uint32(1); lanes <= maxLanes; lanes *= 2 {
		out = append(out, MakeVector(elem, int(lanes)))
	}
	return out
}

// Enumerated returns the canonical finite type set in deterministic order:
// void, integer scalars by width, float scalars by width, then vectors
// grouped by element (integers first) with lane counts ascending. Callers
// must not modify the returned slice.
func Enumerated() []Type {
	return enumerated
}

// IntScalars returns the enumerated integer types ordered by width.
func IntScalars() []Type {
	return intScalars
}

// FloatScalars returns the enumerated float types ordered by width.
func FloatScalars() []Type {
	return floatScalars
}

// IsEnumerated reports whether t belongs to the canonical finite set.
// Anything outside it is an extended type classified algorithmically.
func IsEnumerated(t Type) bool {
	_, ok := enumSet[t]
	return ok
}
