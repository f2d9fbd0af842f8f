package vt

import (
	"fmt"
	"strconv"
	"strings"
)

// maxParseBits caps the total width of a parsed type. Wider spellings are
// rejected as errors; every width at or below the cap stays comfortably
// inside uint32 arithmetic.
const maxParseBits = 1 << 24

// Parse converts a printed type name back into a descriptor. It accepts the
// same spellings String produces: "void", "i<N>", the float format names,
// and "v<N><elem>" for vectors.
func Parse(s string) (Type, error) {
	switch s {
	case "void":
		return Void, nil
	case "f16":
		return F16, nil
	case "f32":
		return F32, nil
	case "f64":
		return F64, nil
	case "f80":
		return F80, nil
	case "f128":
		return F128, nil
	case "ppcf128":
		return PPCF128, nil
	}
	if rest, ok := strings.CutPrefix(s, "i"); ok {
		bits, err := strconv.Atoi(rest)
		if err != nil || bits <= 0 || bits > maxParseBits {
			return Type{}, fmt.Errorf("vt: bad integer width in %q", s)
		}
		return MakeInt(bits), nil
	}
	if rest, ok := strings.CutPrefix(s, "v"); ok {
		digits := 0
		for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
			digits++
		}
		if digits == 0 {
			return Type{}, fmt.Errorf("vt: missing lane count in %q", s)
		}
		lanes, err := strconv.Atoi(rest[:digits])
		if err != nil || lanes <= 0 || lanes > maxParseBits {
			return Type{}, fmt.Errorf("vt: bad lane count in %q", s)
		}
		elem, err := Parse(rest[digits:])
		if err != nil {
			return Type{}, err
		}
		if !elem.IsScalar() {
			return Type{}, fmt.Errorf("vt: vector element in %q must be scalar", s)
		}
		if uint64(lanes)*uint64(elem.BitSize()) > maxParseBits {
			return Type{}, fmt.Errorf("vt: %q is wider than %d bits", s, maxParseBits)
		}
		return MakeVector(elem, lanes), nil
	}
	return Type{}, fmt.Errorf("vt: unknown value type %q", s)
}

// MustParse is Parse for trusted literals; it panics on malformed input.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}
