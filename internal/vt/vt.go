package vt

import (
	"fmt"

	"fortio.org/safecast"
)

// Kind enumerates the supported kinds of value types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindInt
	KindFloat
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindVector:
		return "vector"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// FloatFormat names a floating-point encoding. The bit width alone is not
// enough: quad and double-double both occupy 128 bits.
type FloatFormat uint8

const (
	FormatNone FloatFormat = iota
	FormatHalf
	FormatSingle
	FormatDouble
	FormatX87Extended
	FormatQuad
	FormatDoubleDouble
)

// Bits returns the storage width of the format.
func (f FloatFormat) Bits() uint32 {
	switch f {
	case FormatHalf:
		return 16
	case FormatSingle:
		return 32
	case FormatDouble:
		return 64
	case FormatX87Extended:
		return 80
	case FormatQuad, FormatDoubleDouble:
		return 128
	default:
		return 0
	}
}

func (f FloatFormat) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatHalf:
		return "f16"
	case FormatSingle:
		return "f32"
	case FormatDouble:
		return "f64"
	case FormatX87Extended:
		return "f80"
	case FormatQuad:
		return "f128"
	case FormatDoubleDouble:
		return "ppcf128"
	default:
		return fmt.Sprintf("FloatFormat(%d)", f)
	}
}

// Type is a compact structural descriptor for any value type. Equality is
// struct equality; two descriptors compare equal exactly when they denote
// the same type. For vectors, Elem/Bits/Format describe the element and
// Lanes is the lane count (always >= 1; one lane is the distinguished
// "must scalarize" case).
type Type struct {
	Kind   Kind
	Elem   Kind        // vector element kind
	Bits   uint32      // integer bit width (element width for int vectors)
	Format FloatFormat // float format (element format for float vectors)
	Lanes  uint32
}

// Descriptor helpers ---------------------------------------------------------

// MakeVoid describes the absence of a value.
func MakeVoid() Type {
	return Type{Kind: KindVoid}
}

// MakeInt describes a signed-agnostic integer of the given bit width.
func MakeInt(bits int) Type {
	b, err := safecast.Conv[uint32](bits)
	if err != nil || b == 0 {
		panic(fmt.Errorf("vt: bad integer width %d", bits))
	}
	return Type{Kind: KindInt, Bits: b}
}

// MakeFloat describes a floating-point type of the given format.
func MakeFloat(format FloatFormat) Type {
	if format == FormatNone {
		panic("vt: float type needs a format")
	}
	return Type{Kind: KindFloat, Format: format}
}

// MakeVector describes a vector of lanes copies of a scalar element.
func MakeVector(elem Type, lanes int) Type {
	if !elem.IsScalar() {
		panic(fmt.Errorf("vt: vector element must be scalar, got %s", elem))
	}
	n, err := safecast.Conv[uint32](lanes)
	if err != nil || n == 0 {
		panic(fmt.Errorf("vt: bad lane count %d", lanes))
	}
	return Type{Kind: KindVector, Elem: elem.Kind, Bits: elem.Bits, Format: elem.Format, Lanes: n}
}

// Queries --------------------------------------------------------------------

// IsValid reports whether t describes a real type.
func (t Type) IsValid() bool { return t.Kind != KindInvalid }

// IsVoid reports whether t is the void type.
func (t Type) IsVoid() bool { return t.Kind == KindVoid }

// IsInteger reports whether t is a scalar integer.
func (t Type) IsInteger() bool { return t.Kind == KindInt }

// IsFloat reports whether t is a scalar float.
func (t Type) IsFloat() bool { return t.Kind == KindFloat }

// IsVector reports whether t is a vector.
func (t Type) IsVector() bool { return t.Kind == KindVector }

// IsScalar reports whether t is a scalar integer or float.
func (t Type) IsScalar() bool { return t.Kind == KindInt || t.Kind == KindFloat }

// IsIntVector reports whether t is a vector with integer elements.
func (t Type) IsIntVector() bool { return t.Kind == KindVector && t.Elem == KindInt }

// IsFloatVector reports whether t is a vector with float elements.
func (t Type) IsFloatVector() bool { return t.Kind == KindVector && t.Elem == KindFloat }

// ElemType returns the element type of a vector.
func (t Type) ElemType() Type {
	if t.Kind != KindVector {
		panic(fmt.Errorf("vt: ElemType on %s", t))
	}
	return Type{Kind: t.Elem, Bits: t.Bits, Format: t.Format}
}

// ScalarType returns the element type for vectors and t itself for scalars.
func (t Type) ScalarType() Type {
	if t.Kind == KindVector {
		return t.ElemType()
	}
	return t
}

// NumLanes returns the lane count of a vector.
func (t Type) NumLanes() uint32 {
	if t.Kind != KindVector {
		panic(fmt.Errorf("vt: NumLanes on %s", t))
	}
	return t.Lanes
}

// BitSize returns the total width of the type in bits.
func (t Type) BitSize() uint32 {
	switch t.Kind {
	case KindInt:
		return t.Bits
	case KindFloat:
		return t.Format.Bits()
	case KindVector:
		return t.ElemType().BitSize() * t.Lanes
	default:
		return 0
	}
}

// StoreBits returns the width rounded up to the next power of two, the
// footprint a spilled copy occupies.
func (t Type) StoreBits() uint32 {
	return NextPow2(t.BitSize())
}

// WithLanes returns a vector with the same element and a new lane count.
func (t Type) WithLanes(lanes uint32) Type {
	if t.Kind != KindVector {
		panic(fmt.Errorf("vt: WithLanes on %s", t))
	}
	if lanes == 0 {
		panic("vt: zero lane count")
	}
	out := t
	out.Lanes = lanes
	return out
}

// HalfLanes returns a vector with half the lane count.
func (t Type) HalfLanes() Type {
	n := t.NumLanes()
	if n < 2 {
		panic(fmt.Errorf("vt: HalfLanes on %s", t))
	}
	return t.WithLanes(n / 2)
}

// IsPow2Lanes reports whether a vector's lane count is a power of two.
func (t Type) IsPow2Lanes() bool {
	n := t.NumLanes()
	return n&(n-1) == 0
}

// Pow2Lanes returns a vector widened to the next power-of-two lane count.
func (t Type) Pow2Lanes() Type {
	return t.WithLanes(NextPow2(t.NumLanes()))
}

// RoundIntBits returns an integer rounded up to the next power-of-two width,
// never below 8 bits.
func (t Type) RoundIntBits() Type {
	if t.Kind != KindInt {
		panic(fmt.Errorf("vt: RoundIntBits on %s", t))
	}
	bits := NextPow2(t.Bits)
	if bits < 8 {
		bits = 8
	}
	return Type{Kind: KindInt, Bits: bits}
}

// HalfIntBits returns an integer of half the width.
func (t Type) HalfIntBits() Type {
	if t.Kind != KindInt || t.Bits < 2 {
		panic(fmt.Errorf("vt: HalfIntBits on %s", t))
	}
	return Type{Kind: KindInt, Bits: t.Bits / 2}
}

// NextPow2 returns the smallest power of two >= n (and 1 for n == 0).
func NextPow2(n uint32) uint32 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

// IsPow2 reports whether n is a power of two.
func IsPow2(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

func (t Type) String() string {
	switch t.Kind {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindInt:
		return fmt.Sprintf("i%d", t.Bits)
	case KindFloat:
		return t.Format.String()
	case KindVector:
		return fmt.Sprintf("v%d%s", t.Lanes, t.ElemType())
	default:
		return fmt.Sprintf("Type(kind=%d)", t.Kind)
	}
}
