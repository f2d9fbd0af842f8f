package tdesc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anvil/internal/legalize"
	"anvil/internal/target"
	"anvil/internal/triple"
	"anvil/internal/vt"
)

const rv32fdFile = `
triple = "riscv32-unknown-linux-gnu"
recip-estimates = "sqrtf:2"

[[register-class]]
name = "gpr"
spill-bytes = 4
types = ["i32"]

[[register-class]]
name = "fpr32"
spill-bytes = 4
types = ["f32"]
super-classes = ["fpr64"]

[[register-class]]
name = "fpr64"
spill-bytes = 8
types = ["f32", "f64"]

[legal]
i32 = "gpr"
f32 = "fpr32"
f64 = "fpr64"

[vector-action]
v4i32 = "split"
`

func TestLoadBuildsWorkingDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rv32fd.toml")
	if err := os.WriteFile(path, []byte(rv32fdFile), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	desc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if desc.Triple.Arch != triple.RISCV32 || desc.Triple.OS != triple.Linux {
		t.Fatalf("triple parsed as %+v", desc.Triple)
	}
	if desc.RecipEstimates != "sqrtf:2" {
		t.Fatalf("recip-estimates = %q", desc.RecipEstimates)
	}

	gpr, ok := desc.ClassByName("gpr")
	if !ok {
		t.Fatalf("class gpr not registered")
	}
	if got := desc.Class(gpr).SpillBytes; got != 4 {
		t.Fatalf("gpr spill-bytes = %d, want 4", got)
	}
	if id, ok := desc.ClassFor(vt.I32); !ok || id != gpr {
		t.Fatalf("i32 assignment = (%d, %v), want gpr", id, ok)
	}

	// fpr32 names fpr64 before fpr64's block appears in the file.
	fpr32, _ := desc.ClassByName("fpr32")
	fpr64, _ := desc.ClassByName("fpr64")
	supers := desc.SuperClasses(fpr32)
	if len(supers) != 2 || supers[1] != fpr64 {
		t.Fatalf("fpr32 super-classes = %v, want [fpr32 fpr64]", supers)
	}

	if got := desc.VectorStrategyFor(vt.MakeVector(vt.I32, 4)); got != target.PreferSplit {
		t.Fatalf("v4i32 strategy = %v, want split", got)
	}

	eng, err := legalize.New(desc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if act := eng.TypeAction(vt.I64); act != legalize.ExpandInteger {
		t.Fatalf("i64 action = %v, want expand-integer", act)
	}
	if n := eng.NumRegisters(vt.I64); n != 2 {
		t.Fatalf("i64 registers = %d, want 2", n)
	}
	if act := eng.TypeAction(vt.F64); act != legalize.Legal {
		t.Fatalf("f64 action = %v, want legal", act)
	}
	if steps := eng.ReciprocalSqrtSteps(vt.F32); steps != 2 {
		t.Fatalf("sqrtf steps = %d, want 2", steps)
	}
}

func TestSplitHintOnOneLaneVectorScalarizes(t *testing.T) {
	desc, err := FromString(`
triple = "riscv32-unknown-linux-gnu"

[[register-class]]
name = "gpr"
spill-bytes = 4
types = ["i32"]

[legal]
i32 = "gpr"

[vector-action]
v1i32 = "split"
`)
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	eng, err := legalize.New(desc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v1i32 := vt.MakeVector(vt.I32, 1)
	if act := eng.TypeAction(v1i32); act != legalize.ScalarizeVector {
		t.Fatalf("v1i32 action = %v, want scalarize-vector", act)
	}
	if got := eng.TransformTo(v1i32); got != vt.I32 {
		t.Fatalf("v1i32 transforms to %s, want i32", got)
	}
}

func TestExampleFileLoads(t *testing.T) {
	desc, err := FromString(ExampleFile)
	if err != nil {
		t.Fatalf("FromString(ExampleFile): %v", err)
	}
	eng, err := legalize.New(desc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !eng.IsTypeLegal(vt.I32) {
		t.Fatalf("example description leaves i32 illegal")
	}
	if n := eng.NumRegisters(vt.I64); n != 2 {
		t.Fatalf("i64 registers = %d, want 2", n)
	}
}

func TestLoadReportsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	var derr *DescError
	if !errors.As(err, &derr) || derr.Kind != DescErrParse {
		t.Fatalf("Load on missing file = %v, want DescErrParse", err)
	}
}

func TestFromStringErrors(t *testing.T) {
	// Minimal valid description; cases append or replace sections.
	const base = `
triple = "riscv32-unknown-linux-gnu"

[[register-class]]
name = "gpr"
spill-bytes = 4
types = ["i32"]

[legal]
i32 = "gpr"
`
	cases := []struct {
		name  string
		input string
		kind  DescErrorKind
		want  string // substring of the message
	}{
		{"not toml", "triple = ", DescErrParse, ""},
		{"missing triple", `
[[register-class]]
name = "gpr"
spill-bytes = 4

[legal]
i32 = "gpr"
`, DescErrMissingField, "triple"},
		{"no classes", `triple = "riscv32"`, DescErrMissingField, "[[register-class]]"},
		{"unnamed class", `
triple = "riscv32"

[[register-class]]
spill-bytes = 4
`, DescErrMissingField, "register-class[0].name"},
		{"duplicate class", `
triple = "riscv32"

[[register-class]]
name = "gpr"
spill-bytes = 4

[[register-class]]
name = "gpr"
spill-bytes = 8

[legal]
i32 = "gpr"
`, DescErrDuplicateClass, `"gpr"`},
		{"zero spill", `
triple = "riscv32"

[[register-class]]
name = "gpr"
spill-bytes = 0

[legal]
i32 = "gpr"
`, DescErrBadSpill, "spill-bytes 0"},
		{"negative spill", `
triple = "riscv32"

[[register-class]]
name = "gpr"
spill-bytes = -4

[legal]
i32 = "gpr"
`, DescErrBadSpill, "spill-bytes -4"},
		{"unknown class type", `
triple = "riscv32"

[[register-class]]
name = "gpr"
spill-bytes = 4
types = ["q32"]

[legal]
i32 = "gpr"
`, DescErrUnknownType, `"q32"`},
		{"class type outside canonical set", `
triple = "riscv32"

[[register-class]]
name = "gpr"
spill-bytes = 4
types = ["i24"]

[legal]
i32 = "gpr"
`, DescErrNotEnumerated, "i24"},
		{"self super-class", `
triple = "riscv32"

[[register-class]]
name = "gpr"
spill-bytes = 4
super-classes = ["gpr"]

[legal]
i32 = "gpr"
`, DescErrBadSuper, `"gpr"`},
		{"unknown super-class", `
triple = "riscv32"

[[register-class]]
name = "gpr"
spill-bytes = 4
super-classes = ["vec"]

[legal]
i32 = "gpr"
`, DescErrUnknownClass, `"vec"`},
		{"unknown legal type", base + `bogus = "gpr"` + "\n", DescErrUnknownType, `"bogus"`},
		{"legal type outside canonical set", base + `i24 = "gpr"` + "\n", DescErrNotEnumerated, "i24"},
		{"unknown legal class", base + `f32 = "fpr"` + "\n", DescErrUnknownClass, `"fpr"`},
		{"no integer assignment", `
triple = "riscv32"

[[register-class]]
name = "fpr"
spill-bytes = 4
types = ["f32"]

[legal]
f32 = "fpr"
`, DescErrMissingField, "integer"},
		{"vector action on scalar", base + `
[vector-action]
i32 = "split"
`, DescErrNotVector, "i32"},
		{"vector action outside canonical set", base + `
[vector-action]
v3i8 = "widen"
`, DescErrNotEnumerated, "v3i8"},
		{"unknown vector action", base + `
[vector-action]
v4i32 = "shrink"
`, DescErrBadAction, `"shrink"`},
	}

	for _, tc := range cases {
		_, err := FromString(tc.input)
		var derr *DescError
		if !errors.As(err, &derr) {
			t.Fatalf("%s: err = %v, want *DescError", tc.name, err)
		}
		if derr.Kind != tc.kind {
			t.Fatalf("%s: kind = %d (%v), want %d", tc.name, derr.Kind, derr, tc.kind)
		}
		if derr.Path != "<string>" {
			t.Fatalf("%s: path = %q", tc.name, derr.Path)
		}
		if tc.want != "" && !strings.Contains(derr.Error(), tc.want) {
			t.Fatalf("%s: message %q misses %q", tc.name, derr.Error(), tc.want)
		}
	}
}
