// Package testkit holds the legalization invariants shared by unit tests
// and `anvil verify`. Checkers return errors rather than failing a
// testing.T so the CLI can run the same sweep.
package testkit

import (
	"fmt"

	"anvil/internal/legalize"
	"anvil/internal/vt"
)

// CheckFixedPoint verifies that a legal type is a fixed point of the
// transform:
// 1) its action is Legal and it transforms to itself
// 2) its register type is itself
// 3) it occupies exactly one register
// Illegal types are skipped.
func CheckFixedPoint(e *legalize.Engine, t vt.Type) error {
	if !e.IsTypeLegal(t) {
		return nil
	}
	if act := e.TypeAction(t); act != legalize.Legal {
		return fmt.Errorf("legal type %s has action %s", t, act)
	}
	if next := e.TransformTo(t); next != t {
		return fmt.Errorf("legal type %s transforms to %s", t, next)
	}
	if rt := e.RegisterType(t); rt != t {
		return fmt.Errorf("legal type %s has register type %s", t, rt)
	}
	if n := e.NumRegisters(t); n != 1 {
		return fmt.Errorf("legal type %s needs %d registers", t, n)
	}
	return nil
}

// CheckConvergence verifies that repeatedly applying the transform reaches
// a legal type within maxSteps, making strict progress at every step.
func CheckConvergence(e *legalize.Engine, t vt.Type, maxSteps int) error {
	cur := t
	for step := 0; step < maxSteps; step++ {
		action, next := e.Conversion(cur)
		if action == legalize.Legal {
			return nil
		}
		if next == cur {
			return fmt.Errorf("%s: transform stalls at %s", t, cur)
		}
		cur = next
	}
	return fmt.Errorf("%s: no legal type within %d steps (reached %s)", t, maxSteps, cur)
}

// CheckLaneConservation verifies a vector breakdown never loses elements or
// bits: the intermediate pieces jointly carry at least the original lane
// count, and the final registers jointly carry at least the original bits.
// Scalars are skipped.
func CheckLaneConservation(e *legalize.Engine, t vt.Type) error {
	if !t.IsVector() {
		return nil
	}
	bd := e.VectorBreakdown(t)
	if bd.NumRegs == 0 || bd.NumIntermediates == 0 {
		return fmt.Errorf("%s: empty breakdown %+v", t, bd)
	}
	perPiece := uint64(1)
	if bd.Intermediate.IsVector() {
		perPiece = uint64(bd.Intermediate.NumLanes())
	}
	if lanes := uint64(bd.NumIntermediates) * perPiece; lanes < uint64(t.NumLanes()) {
		return fmt.Errorf("%s: breakdown carries %d lanes, type has %d", t, lanes, t.NumLanes())
	}
	if bits := uint64(bd.NumRegs) * uint64(bd.RegType.BitSize()); bits < uint64(t.BitSize()) {
		return fmt.Errorf("%s: breakdown carries %d register bits, type has %d", t, bits, t.BitSize())
	}
	return nil
}

// CheckRegisterMonotonicity verifies that widening an integer scalar never
// shrinks its register count.
func CheckRegisterMonotonicity(e *legalize.Engine) error {
	ints := vt.IntScalars()
	for i := 1; i < len(ints); i++ {
		narrow, wide := ints[i-1], ints[i]
		if e.NumRegisters(wide) < e.NumRegisters(narrow) {
			return fmt.Errorf("%s needs %d registers but narrower %s needs %d",
				wide, e.NumRegisters(wide), narrow, e.NumRegisters(narrow))
		}
	}
	return nil
}
