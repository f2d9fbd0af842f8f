package legalize

import (
	"testing"

	"anvil/internal/target"
	"anvil/internal/vt"
)

func TestBreakdownWithoutVectorRegisters(t *testing.T) {
	e := mustEngine(t, target.RV32())

	cases := []struct {
		ty   vt.Type
		want Breakdown
	}{
		// Odd lane counts go straight to per-lane scalars.
		{vt.MakeVector(vt.I8, 3), Breakdown{NumRegs: 3, Intermediate: vt.I8, NumIntermediates: 3, RegType: vt.I32}},
		// Power-of-two lanes halve all the way down.
		{vt.MakeVector(vt.I32, 4), Breakdown{NumRegs: 4, Intermediate: vt.I32, NumIntermediates: 4, RegType: vt.I32}},
		// A lane wider than the register multiplies out.
		{vt.MakeVector(vt.I128, 2), Breakdown{NumRegs: 8, Intermediate: vt.I128, NumIntermediates: 2, RegType: vt.I32}},
		// Promoted float elements ride the promoted register.
		{vt.MakeVector(vt.F16, 4), Breakdown{NumRegs: 4, Intermediate: vt.F16, NumIntermediates: 4, RegType: vt.I32}},
	}
	for _, c := range cases {
		got := e.VectorBreakdown(c.ty)
		if got != c.want {
			t.Fatalf("%v breakdown = %+v, want %+v", c.ty, got, c.want)
		}
	}
}

func TestBreakdownWithVectorRegisters(t *testing.T) {
	e := mustEngine(t, target.Neon64())

	cases := []struct {
		ty   vt.Type
		want Breakdown
	}{
		// Legal vectors are their own single piece.
		{vt.MakeVector(vt.F32, 2), Breakdown{NumRegs: 1, Intermediate: vt.MakeVector(vt.F32, 2), NumIntermediates: 1, RegType: vt.MakeVector(vt.F32, 2)}},
		// One widening step to a legal vector carries the value whole.
		{vt.MakeVector(vt.I16, 3), Breakdown{NumRegs: 1, Intermediate: vt.MakeVector(vt.I16, 4), NumIntermediates: 1, RegType: vt.MakeVector(vt.I16, 4)}},
		// One element promotion likewise.
		{vt.MakeVector(vt.I8, 4), Breakdown{NumRegs: 1, Intermediate: vt.MakeVector(vt.I16, 4), NumIntermediates: 1, RegType: vt.MakeVector(vt.I16, 4)}},
		// Too wide: halve into legal subvectors.
		{vt.MakeVector(vt.F32, 8), Breakdown{NumRegs: 2, Intermediate: vt.MakeVector(vt.F32, 4), NumIntermediates: 2, RegType: vt.MakeVector(vt.F32, 4)}},
		{vt.MakeVector(vt.I64, 8), Breakdown{NumRegs: 4, Intermediate: vt.MakeVector(vt.I64, 2), NumIntermediates: 4, RegType: vt.MakeVector(vt.I64, 2)}},
	}
	for _, c := range cases {
		got := e.VectorBreakdown(c.ty)
		if got != c.want {
			t.Fatalf("%v breakdown = %+v, want %+v", c.ty, got, c.want)
		}
	}
}

func TestBreakdownConservesBits(t *testing.T) {
	for _, name := range target.PresetNames() {
		d, ok := target.Preset(name)
		if !ok {
			t.Fatalf("preset %q missing", name)
		}
		e := mustEngine(t, d)
		for _, ty := range vt.Enumerated() {
			if !ty.IsVector() {
				continue
			}
			bd := e.VectorBreakdown(ty)
			if bd.NumRegs == 0 || bd.NumIntermediates == 0 {
				t.Fatalf("%s: %v broke into nothing: %+v", name, ty, bd)
			}
			pieces := uint64(bd.NumIntermediates) * uint64(bd.Intermediate.BitSize())
			if pieces < uint64(ty.BitSize()) {
				t.Fatalf("%s: %v pieces carry %d bits of %d", name, ty, pieces, ty.BitSize())
			}
			regs := uint64(bd.NumRegs) * uint64(bd.RegType.BitSize())
			if regs < uint64(ty.BitSize()) {
				t.Fatalf("%s: %v registers carry %d bits of %d", name, ty, regs, ty.BitSize())
			}
		}
	}
}

func TestBreakdownRejectsScalars(t *testing.T) {
	e := mustEngine(t, target.RV32())
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a scalar breakdown")
		}
	}()
	e.VectorBreakdown(vt.I32)
}
