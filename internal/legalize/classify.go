package legalize

import (
	"fmt"

	"anvil/internal/vt"
)

// Conversion classifies one legalization step for any type: the action to
// take and the type it produces. Enumerated types read the computed
// tables; extended types are classified structurally, so every valid
// type, however large, has a defined path to legality.
func (e *Engine) Conversion(t vt.Type) (Action, vt.Type) {
	if vt.IsEnumerated(t) {
		p := e.props[t]
		return p.action, p.transform
	}
	switch {
	case t.IsInteger():
		return e.convertExtendedInt(t)
	case t.IsVector():
		return e.convertExtendedVector(t)
	default:
		panic(fmt.Sprintf("legalize: cannot classify %s", t))
	}
}

// convertExtendedInt handles integer widths outside the enumeration. Odd
// widths round up to the next power of two, collapsing into that type's
// own promotion when it has one. Power-of-two widths past the largest
// enumerated integer halve.
func (e *Engine) convertExtendedInt(t vt.Type) (Action, vt.Type) {
	if t.Bits < 8 || !vt.IsPow2(t.Bits) {
		rounded := t.RoundIntBits()
		if action, next := e.Conversion(rounded); action == PromoteInteger {
			return PromoteInteger, next
		}
		return PromoteInteger, rounded
	}
	return ExpandInteger, t.HalfIntBits()
}

// convertExtendedVector handles vectors outside the enumeration.
func (e *Engine) convertExtendedVector(t vt.Type) (Action, vt.Type) {
	lanes := t.NumLanes()
	elem := t.ElemType()

	// Single-lane vectors always scalarize.
	if lanes == 1 {
		return ScalarizeVector, elem
	}

	if elem.IsInteger() {
		// Odd lane counts widen to the next power of two before anything
		// else is considered, so element handling only ever sees uniform
		// shapes.
		if !t.IsPow2Lanes() {
			return WidenVector, t.Pow2Lanes()
		}

		// Elements too wide to promote split the vector instead.
		if action, _ := e.Conversion(elem); action == ExpandInteger {
			return SplitVector, t.HalfLanes()
		}

		// Walk the element width upward looking for a legal vector with
		// the same lane count.
		for cand := nextWiderInt(elem); vt.IsEnumerated(cand); cand = nextWiderInt(cand) {
			nvt := vt.MakeVector(cand, int(lanes))
			if !vt.IsEnumerated(nvt) {
				break
			}
			if e.IsTypeLegal(nvt) {
				return PromoteInteger, nvt
			}
		}
	}

	// Widen toward a legal vector with the same element type.
	for n := vt.NextPow2(lanes); ; n *= 2 {
		nvt := vt.MakeVector(elem, int(n))
		if !vt.IsEnumerated(nvt) {
			break
		}
		if e.IsTypeLegal(nvt) {
			return WidenVector, nvt
		}
	}

	if !t.IsPow2Lanes() {
		return WidenVector, t.Pow2Lanes()
	}
	return SplitVector, t.HalfLanes()
}

// nextWiderInt returns the integer of the next power-of-two width
// strictly above t, never below 8 bits.
func nextWiderInt(t vt.Type) vt.Type {
	return vt.MakeInt(int(t.Bits) + 1).RoundIntBits()
}
