package target

import (
	"testing"

	"anvil/internal/triple"
	"anvil/internal/vt"
)

func TestClassRegistryAndAssignment(t *testing.T) {
	d := NewDesc(triple.Parse("riscv32-unknown-linux-gnu"))

	gpr := d.AddClass("gpr", 4, vt.I32)
	if gpr == NoClass {
		t.Fatalf("AddClass returned NoClass")
	}
	if c := d.Class(gpr); c.Name != "gpr" || c.SpillBytes != 4 || len(c.Types) != 1 {
		t.Fatalf("gpr class = %+v", c)
	}
	if id, ok := d.ClassByName("gpr"); !ok || id != gpr {
		t.Fatalf("ClassByName(gpr) = (%d, %v)", id, ok)
	}
	if _, ok := d.ClassByName("fpr"); ok {
		t.Fatalf("unknown class resolved")
	}

	if _, ok := d.ClassFor(vt.I32); ok {
		t.Fatalf("i32 legal before assignment")
	}
	d.Assign(vt.I32, gpr)
	if id, ok := d.ClassFor(vt.I32); !ok || id != gpr {
		t.Fatalf("ClassFor(i32) = (%d, %v)", id, ok)
	}
}

func TestDuplicateClassNamePanics(t *testing.T) {
	d := NewDesc(triple.Parse("riscv32"))
	d.AddClass("gpr", 4, vt.I32)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a duplicate class name")
		}
	}()
	d.AddClass("gpr", 8)
}

func TestSelfSuperClassPanics(t *testing.T) {
	d := NewDesc(triple.Parse("riscv32"))
	gpr := d.AddClass("gpr", 4, vt.I32)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a self super-class link")
		}
	}()
	d.LinkSuper(gpr, gpr)
}

func TestSuperClassClosure(t *testing.T) {
	d := NewDesc(triple.Parse("aarch64-unknown-linux-gnu"))
	a := d.AddClass("a", 4)
	b := d.AddClass("b", 8)
	c := d.AddClass("c", 16)

	d.LinkSuper(a, b)
	d.LinkSuper(b, c)
	// Linking the same pair again must not duplicate the edge.
	d.LinkSuper(a, b)

	supers := d.SuperClasses(a)
	if len(supers) != 3 || supers[0] != a || supers[1] != b || supers[2] != c {
		t.Fatalf("SuperClasses(a) = %v, want [a b c]", supers)
	}
	if supers := d.SuperClasses(c); len(supers) != 1 || supers[0] != c {
		t.Fatalf("SuperClasses(c) = %v, want [c]", supers)
	}
}

func TestVectorStrategyDefaults(t *testing.T) {
	d := NewDesc(triple.Parse("riscv32"))

	if got := d.VectorStrategyFor(vt.MakeVector(vt.I32, 1)); got != PreferScalarize {
		t.Fatalf("one-lane strategy = %v", got)
	}
	if got := d.VectorStrategyFor(vt.MakeVector(vt.I8, 8)); got != PreferPromote {
		t.Fatalf("default strategy = %v", got)
	}

	v8i8 := vt.MakeVector(vt.I8, 8)
	d.SetVectorStrategy(v8i8, PreferWiden)
	if got := d.VectorStrategyFor(v8i8); got != PreferWiden {
		t.Fatalf("override strategy = %v", got)
	}
	// An explicit default restores the built-in choice.
	d.SetVectorStrategy(v8i8, PreferDefault)
	if got := d.VectorStrategyFor(v8i8); got != PreferPromote {
		t.Fatalf("restored strategy = %v", got)
	}
}

func TestABIAlign(t *testing.T) {
	d := NewDesc(triple.Parse("riscv32"))

	cases := []struct {
		ty   vt.Type
		want uint32
	}{
		{vt.I1, 1},
		{vt.I32, 4},
		{vt.I64, 8},
		{vt.F80, 16}, // storage rounds to 128 bits
		{vt.MakeVector(vt.I8, 16), 16},
	}
	for _, c := range cases {
		if got := d.ABIAlign(c.ty); got != c.want {
			t.Fatalf("ABIAlign(%v) = %d, want %d", c.ty, got, c.want)
		}
	}

	d.ABIAlignFn = func(ty vt.Type) uint32 { return 2 }
	if got := d.ABIAlign(vt.I64); got != 2 {
		t.Fatalf("hooked ABIAlign(i64) = %d", got)
	}
}

func TestAllowsMisalignedDefaultsClosed(t *testing.T) {
	d := NewDesc(triple.Parse("riscv32"))
	if ok, fast := d.AllowsMisaligned(vt.I64, 0, 1); ok || fast {
		t.Fatalf("hookless misaligned access = %v/%v", ok, fast)
	}
}

func TestPresetsAreFreshCopies(t *testing.T) {
	first := RV32()
	v4i32 := vt.MakeVector(vt.I32, 4)
	first.SetVectorStrategy(v4i32, PreferScalarize)
	first.RecipEstimates = "all"

	second := RV32()
	if got := second.VectorStrategyFor(v4i32); got != PreferPromote {
		t.Fatalf("preset mutation leaked: strategy = %v", got)
	}
	if second.RecipEstimates != "" {
		t.Fatalf("preset mutation leaked: recip = %q", second.RecipEstimates)
	}
}

func TestPresetLookup(t *testing.T) {
	for _, name := range PresetNames() {
		d, ok := Preset(name)
		if !ok || d == nil {
			t.Fatalf("preset %q missing", name)
		}
		legal := 0
		for _, ty := range vt.Enumerated() {
			if _, ok := d.ClassFor(ty); ok {
				legal++
			}
		}
		if legal == 0 {
			t.Fatalf("preset %q has no legal types", name)
		}
	}
	if _, ok := Preset("pdp11"); ok {
		t.Fatalf("unknown preset resolved")
	}
}

func TestPresetShapes(t *testing.T) {
	rv32 := RV32()
	if rv32.Triple.Arch != triple.RISCV32 {
		t.Fatalf("rv32 arch = %v", rv32.Triple.Arch)
	}
	if _, ok := rv32.ClassFor(vt.F32); ok {
		t.Fatalf("rv32 has float registers")
	}

	soft := Softfloat32()
	if soft.Triple.Environment != triple.GNUEABI {
		t.Fatalf("softfloat32 environment = %v", soft.Triple.Environment)
	}

	neon := Neon64()
	fpr32, ok := neon.ClassByName("fpr32")
	if !ok {
		t.Fatalf("neon64 lost its fpr32 class")
	}
	vec128, ok := neon.ClassByName("vec128")
	if !ok {
		t.Fatalf("neon64 lost its vec128 class")
	}
	supers := neon.SuperClasses(fpr32)
	if supers[len(supers)-1] != vec128 {
		t.Fatalf("fpr32 closure %v does not end at vec128", supers)
	}
	if _, ok := neon.ClassFor(vt.MakeVector(vt.I16, 2)); ok {
		t.Fatalf("neon64 marks v2i16 legal")
	}
}
