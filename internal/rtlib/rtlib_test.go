package rtlib

import (
	"testing"

	"anvil/internal/triple"
	"anvil/internal/vt"
)

func linuxTable() *Table {
	return NewTable(triple.Parse("riscv32-unknown-linux-gnu"))
}

func TestSizedAtomicNames(t *testing.T) {
	tab := linuxTable()

	r, ok := tab.Lookup(OpSyncFetchAdd, vt.I64)
	if !ok {
		t.Fatalf("no 8-byte fetch-add routine")
	}
	if r.Name != "__sync_fetch_and_add_8" {
		t.Fatalf("8-byte fetch-add = %q", r.Name)
	}

	r, ok = tab.Lookup(OpSyncFetchAdd, vt.I8)
	if !ok {
		t.Fatalf("no 1-byte fetch-add routine")
	}
	if r.Name != "__sync_fetch_and_add_1" {
		t.Fatalf("1-byte fetch-add = %q", r.Name)
	}

	if _, ok := tab.Lookup(OpSyncFetchAdd, vt.MakeInt(24)); ok {
		t.Fatalf("fetch-add matched a non-power-of-two width")
	}

	// Byte-width lookups resolve through the same entries.
	if r, ok := tab.SyncFor(OpSyncSwap, 2); !ok || r.Name != "__sync_lock_test_and_set_2" {
		t.Fatalf("2-byte test-and-set = %q ok=%v", r.Name, ok)
	}
	if _, ok := tab.SyncFor(OpSyncFetchAdd, 3); ok {
		t.Fatalf("sync lookup accepted width 3")
	}
}

func TestIntegerNames(t *testing.T) {
	tab := linuxTable()
	cases := []struct {
		op   Op
		ty   vt.Type
		name string
	}{
		{OpShl, vt.I32, "__ashlsi3"},
		{OpShl, vt.I128, "__ashlti3"},
		{OpSra, vt.I64, "__ashrdi3"},
		{OpMul, vt.I8, "__mulqi3"},
		{OpSDiv, vt.I64, "__divdi3"},
		{OpURem, vt.I128, "__umodti3"},
		{OpMulOverflow, vt.I32, "__mulosi4"},
		{OpNeg, vt.I64, "__negdi2"},
	}
	for _, c := range cases {
		r, ok := tab.Lookup(c.op, c.ty)
		if !ok {
			t.Fatalf("%v %v: no routine", c.op, c.ty)
		}
		if r.Name != c.name {
			t.Fatalf("%v %v = %q, want %q", c.op, c.ty, r.Name, c.name)
		}
		if r.Conv != CallConvC {
			t.Fatalf("%v %v: convention %v", c.op, c.ty, r.Conv)
		}
	}
	if _, ok := tab.Lookup(OpShl, vt.I8); ok {
		t.Fatalf("i8 shift should have no routine")
	}
}

func TestFloatArithmeticNames(t *testing.T) {
	tab := linuxTable()
	cases := []struct {
		op   Op
		ty   vt.Type
		name string
	}{
		{OpFAdd, vt.F32, "__addsf3"},
		{OpFAdd, vt.F128, "__addtf3"},
		{OpFAdd, vt.PPCF128, "__gcc_qadd"},
		{OpFDiv, vt.F80, "__divxf3"},
		{OpFRem, vt.F32, "fmodf"},
		{OpFRem, vt.F64, "fmod"},
		{OpFRem, vt.PPCF128, "fmodl"},
		{OpSqrt, vt.F80, "sqrtl"},
		{OpPowI, vt.F64, "__powidf2"},
		{OpPowI, vt.PPCF128, "__powitf2"},
		{OpCopySign, vt.F32, "copysignf"},
		{OpNearbyInt, vt.F128, "nearbyintl"},
	}
	for _, c := range cases {
		r, ok := tab.Lookup(c.op, c.ty)
		if !ok {
			t.Fatalf("%v %v: no routine", c.op, c.ty)
		}
		if r.Name != c.name {
			t.Fatalf("%v %v = %q, want %q", c.op, c.ty, r.Name, c.name)
		}
	}
}

func TestConversionNames(t *testing.T) {
	tab := linuxTable()

	r, ok := tab.FPExt(vt.F32, vt.F64)
	if !ok || r.Name != "__extendsfdf2" {
		t.Fatalf("fpext f32->f64 = %q ok=%v", r.Name, ok)
	}
	r, ok = tab.FPRound(vt.F128, vt.F32)
	if !ok || r.Name != "__trunctfsf2" {
		t.Fatalf("fpround f128->f32 = %q ok=%v", r.Name, ok)
	}
	r, ok = tab.FPRound(vt.PPCF128, vt.F64)
	if !ok || r.Name != "__gcc_qtod" {
		t.Fatalf("fpround ppcf128->f64 = %q ok=%v", r.Name, ok)
	}
	r, ok = tab.FPToSint(vt.F64, vt.I128)
	if !ok || r.Name != "__fixdfti" {
		t.Fatalf("fptosi f64->i128 = %q ok=%v", r.Name, ok)
	}
	// The double-double to i32 table inherited the unsigned entry point.
	r, ok = tab.FPToSint(vt.PPCF128, vt.I32)
	if !ok || r.Name != "__gcc_qtou" {
		t.Fatalf("fptosi ppcf128->i32 = %q ok=%v", r.Name, ok)
	}
	r, ok = tab.UintToFP(vt.I32, vt.PPCF128)
	if !ok || r.Name != "__gcc_utoq" {
		t.Fatalf("uitofp i32->ppcf128 = %q ok=%v", r.Name, ok)
	}
	r, ok = tab.SintToFP(vt.I64, vt.F32)
	if !ok || r.Name != "__floatdisf" {
		t.Fatalf("sitofp i64->f32 = %q ok=%v", r.Name, ok)
	}

	// Half only converts through f32; no direct integer conversions exist.
	if _, ok := tab.FPToSint(vt.F16, vt.I32); ok {
		t.Fatalf("f16->i32 should have no routine")
	}
	if _, ok := tab.FPExt(vt.F64, vt.F80); ok {
		t.Fatalf("f64->f80 should have no routine")
	}
}

func TestHalfConversionsFollowOS(t *testing.T) {
	gnu := triple.Parse("arm-unknown-linux-gnueabihf")
	mac := triple.Parse("aarch64-apple-darwin21.6")

	r, ok := NewTable(gnu).FPExt(vt.F16, vt.F32)
	if !ok || r.Name != "__gnu_h2f_ieee" {
		t.Fatalf("gnu f16 extend = %q ok=%v", r.Name, ok)
	}
	r, ok = NewTable(mac).FPExt(vt.F16, vt.F32)
	if !ok || r.Name != "__extendhfsf2" {
		t.Fatalf("darwin f16 extend = %q ok=%v", r.Name, ok)
	}
	r, ok = NewTable(mac).FPRound(vt.F32, vt.F16)
	if !ok || r.Name != "__truncsfhf2" {
		t.Fatalf("darwin f16 round = %q ok=%v", r.Name, ok)
	}
}

func TestComparisonPredicates(t *testing.T) {
	tab := linuxTable()
	cases := []struct {
		op   Op
		ty   vt.Type
		name string
		pred Predicate
	}{
		{OpCmpOEQ, vt.F32, "__eqsf2", PredEQ},
		{OpCmpUNE, vt.F64, "__nedf2", PredNE},
		{OpCmpOGT, vt.F128, "__gttf2", PredGT},
		{OpCmpUO, vt.F32, "__unordsf2", PredNE},
		{OpCmpO, vt.F32, "__unordsf2", PredEQ},
		{OpCmpOLE, vt.PPCF128, "__gcc_qle", PredLE},
		{OpCmpUO, vt.PPCF128, "__gcc_qunord", PredNE},
	}
	for _, c := range cases {
		r, ok := tab.Lookup(c.op, c.ty)
		if !ok {
			t.Fatalf("%v %v: no routine", c.op, c.ty)
		}
		if r.Name != c.name || r.Pred != c.pred {
			t.Fatalf("%v %v = %q/%v, want %q/%v", c.op, c.ty, r.Name, r.Pred, c.name, c.pred)
		}
	}
	if got := tab.CmpReturnType(); got != vt.I32 {
		t.Fatalf("comparison return type = %v", got)
	}
	if _, ok := tab.Lookup(OpCmpOEQ, vt.F80); ok {
		t.Fatalf("f80 comparison should have no routine")
	}
}

func TestEnvironmentDependentNames(t *testing.T) {
	gnu := linuxTable()
	if _, ok := gnu.Lookup(OpSinCos, vt.F64); !ok {
		t.Fatalf("gnu environment should have sincos")
	}
	if r, _ := gnu.Lookup(OpSinCos, vt.F32); r.Name != "sincosf" {
		t.Fatalf("sincosf = %q", r.Name)
	}
	if _, ok := gnu.Lookup(OpStackProtectorFail); !ok {
		t.Fatalf("linux should have a stack protector handler")
	}

	musl := triple.Parse("x86_64-unknown-linux-musl")
	if _, ok := NewTable(musl).Lookup(OpSinCos, vt.F64); ok {
		t.Fatalf("musl should have no sincos")
	}

	obsd := triple.Parse("amd64-unknown-openbsd")
	if _, ok := NewTable(obsd).Lookup(OpStackProtectorFail); ok {
		t.Fatalf("openbsd should have no stack protector handler")
	}
}

func TestMemoryAndAtomicNames(t *testing.T) {
	tab := linuxTable()

	if r, _ := tab.Lookup(OpMemcpy); r.Name != "memcpy" {
		t.Fatalf("memcpy = %q", r.Name)
	}
	r, ok := tab.ElementAtomicMemcpy(4)
	if !ok || r.Name != "__llvm_memcpy_element_atomic_4" {
		t.Fatalf("element atomic memcpy 4 = %q ok=%v", r.Name, ok)
	}
	if _, ok := tab.ElementAtomicMemcpy(3); ok {
		t.Fatalf("element atomic memcpy should reject width 3")
	}

	if r, _ := tab.Lookup(OpAtomicLoad); r.Name != "__atomic_load" {
		t.Fatalf("generic atomic load = %q", r.Name)
	}
	if r, _ := tab.Lookup(OpAtomicLoad, vt.I128); r.Name != "__atomic_load_16" {
		t.Fatalf("16-byte atomic load = %q", r.Name)
	}
	if r, _ := tab.AtomicFor(OpAtomicLoad, 16); r.Name != "__atomic_load_16" {
		t.Fatalf("16-byte atomic load by width = %q", r.Name)
	}
	if r, _ := tab.Lookup(OpAtomicFetchNand, vt.I16); r.Name != "__atomic_fetch_nand_2" {
		t.Fatalf("2-byte atomic nand = %q", r.Name)
	}
	if r, _ := tab.Lookup(OpSyncCmpSwap, vt.I32); r.Name != "__sync_val_compare_and_swap_4" {
		t.Fatalf("4-byte cmpswap = %q", r.Name)
	}
	if r, _ := tab.Lookup(OpUnwindResume); r.Name != "_Unwind_Resume" {
		t.Fatalf("unwind resume = %q", r.Name)
	}
}

func TestEntriesDeterministic(t *testing.T) {
	tab := linuxTable()
	first := tab.Entries()
	second := tab.Entries()
	if len(first) == 0 || len(first) != tab.Len() {
		t.Fatalf("entries length %d, table %d", len(first), tab.Len())
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("entry %d differs between enumerations", i)
		}
	}
}
