package target

import (
	"anvil/internal/triple"
	"anvil/internal/vt"
)

// PresetNames lists the built-in target descriptions in display order.
func PresetNames() []string {
	return []string{"rv32", "rv32fd", "neon64", "softfloat32"}
}

// Preset returns a fresh copy of a built-in description by name, so
// callers can adjust hooks and overrides without affecting later calls.
func Preset(name string) (*Desc, bool) {
	switch name {
	case "rv32":
		return RV32(), true
	case "rv32fd":
		return RV32FD(), true
	case "neon64":
		return Neon64(), true
	case "softfloat32":
		return Softfloat32(), true
	default:
		return nil, false
	}
}

// RV32 is a bare 32-bit integer machine: one register file holding i32
// and nothing else. Every other type promotes, expands, softens, or
// splits its way down to it.
func RV32() *Desc {
	d := NewDesc(triple.Parse("riscv32-unknown-linux-gnu"))
	gpr := d.AddClass("gpr", 4, vt.I32)
	d.Assign(vt.I32, gpr)
	return d
}

// RV32FD is RV32 with separate single- and double-precision float files.
// The 32-bit file is a subregister view of the 64-bit one.
func RV32FD() *Desc {
	d := RV32()
	fpr32 := d.AddClass("fpr32", 4, vt.F32)
	fpr64 := d.AddClass("fpr64", 8, vt.F32, vt.F64)
	d.LinkSuper(fpr32, fpr64)
	d.Assign(vt.F32, fpr32)
	d.Assign(vt.F64, fpr64)
	return d
}

// Neon64 is a 64-bit scalar machine with 64- and 128-bit vector files,
// shaped like an AArch64 NEON unit: scalar floats live in subregister
// views of the vector registers.
func Neon64() *Desc {
	d := NewDesc(triple.Parse("aarch64-unknown-linux-gnu"))

	gpr32 := d.AddClass("gpr32", 4, vt.I32)
	gpr64 := d.AddClass("gpr64", 8, vt.I32, vt.I64)
	d.LinkSuper(gpr32, gpr64)
	d.Assign(vt.I32, gpr32)
	d.Assign(vt.I64, gpr64)

	vec64Types := []vt.Type{
		vt.MakeVector(vt.I8, 8),
		vt.MakeVector(vt.I16, 4),
		vt.MakeVector(vt.I32, 2),
		vt.MakeVector(vt.F32, 2),
	}
	vec128Types := []vt.Type{
		vt.MakeVector(vt.I8, 16),
		vt.MakeVector(vt.I16, 8),
		vt.MakeVector(vt.I32, 4),
		vt.MakeVector(vt.I64, 2),
		vt.MakeVector(vt.F32, 4),
		vt.MakeVector(vt.F64, 2),
	}
	vec64 := d.AddClass("vec64", 8, vec64Types...)
	vec128 := d.AddClass("vec128", 16, vec128Types...)
	d.LinkSuper(vec64, vec128)
	for _, t := range vec64Types {
		d.Assign(t, vec64)
	}
	for _, t := range vec128Types {
		d.Assign(t, vec128)
	}

	fpr32 := d.AddClass("fpr32", 4, vt.F32)
	fpr64 := d.AddClass("fpr64", 8, vt.F32, vt.F64)
	d.LinkSuper(fpr32, fpr64)
	d.LinkSuper(fpr64, vec128)
	d.Assign(vt.F32, fpr32)
	d.Assign(vt.F64, fpr64)

	return d
}

// Softfloat32 is the rv32 register surface under an ARM GNUEABI triple,
// which selects the gnueabi flavor of the runtime routine names. No
// float type has a register, so all float arithmetic softens.
func Softfloat32() *Desc {
	d := NewDesc(triple.Parse("arm-unknown-linux-gnueabi"))
	gpr := d.AddClass("gpr", 4, vt.I32)
	d.Assign(vt.I32, gpr)
	return d
}
