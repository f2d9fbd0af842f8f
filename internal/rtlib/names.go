package rtlib

import (
	"strconv"

	"anvil/internal/vt"
)

// intSuffix is the compiler-rt mode suffix for a sized integer.
func intSuffix(t vt.Type) string {
	switch t {
	case vt.I8:
		return "qi"
	case vt.I16:
		return "hi"
	case vt.I32:
		return "si"
	case vt.I64:
		return "di"
	case vt.I128:
		return "ti"
	}
	panic("rtlib: no mode suffix for " + t.String())
}

// floatSuffix is the compiler-rt mode suffix for a float format. The IBM
// double-double shares tf with binary128; its dedicated routines carry
// __gcc_q names instead and are set explicitly.
func floatSuffix(t vt.Type) string {
	switch t.Format {
	case vt.FormatSingle:
		return "sf"
	case vt.FormatDouble:
		return "df"
	case vt.FormatX87Extended:
		return "xf"
	case vt.FormatQuad, vt.FormatDoubleDouble:
		return "tf"
	}
	panic("rtlib: no mode suffix for " + t.String())
}

// libmName appends the C math library precision suffix: f for single,
// nothing for double, l for every longer format.
func libmName(base string, t vt.Type) string {
	switch t.Format {
	case vt.FormatSingle:
		return base + "f"
	case vt.FormatDouble:
		return base
	default:
		return base + "l"
	}
}

var (
	shiftTypes = []vt.Type{vt.I16, vt.I32, vt.I64, vt.I128}
	divTypes   = []vt.Type{vt.I8, vt.I16, vt.I32, vt.I64, vt.I128}
	fpTypes    = []vt.Type{vt.F32, vt.F64, vt.F80, vt.F128, vt.PPCF128}
	// hwFloats excludes the double-double, whose arithmetic goes through
	// the __gcc_q family.
	hwFloats = []vt.Type{vt.F32, vt.F64, vt.F80, vt.F128}
	cvtInts  = []vt.Type{vt.I32, vt.I64, vt.I128}
)

func (t *Table) addIntegerNames() {
	for _, it := range shiftTypes {
		s := intSuffix(it)
		t.set(OpShl, it, vt.Type{}, "__ashl"+s+"3")
		t.set(OpSrl, it, vt.Type{}, "__lshr"+s+"3")
		t.set(OpSra, it, vt.Type{}, "__ashr"+s+"3")
	}
	for _, it := range divTypes {
		s := intSuffix(it)
		t.set(OpMul, it, vt.Type{}, "__mul"+s+"3")
		t.set(OpSDiv, it, vt.Type{}, "__div"+s+"3")
		t.set(OpUDiv, it, vt.Type{}, "__udiv"+s+"3")
		t.set(OpSRem, it, vt.Type{}, "__mod"+s+"3")
		t.set(OpURem, it, vt.Type{}, "__umod"+s+"3")
	}
	for _, it := range cvtInts {
		t.set(OpMulOverflow, it, vt.Type{}, "__mulo"+intSuffix(it)+"4")
	}
	t.set(OpNeg, vt.I32, vt.Type{}, "__negsi2")
	t.set(OpNeg, vt.I64, vt.Type{}, "__negdi2")
}

func (t *Table) addFloatNames() {
	for _, ft := range hwFloats {
		s := floatSuffix(ft)
		t.set(OpFAdd, ft, vt.Type{}, "__add"+s+"3")
		t.set(OpFSub, ft, vt.Type{}, "__sub"+s+"3")
		t.set(OpFMul, ft, vt.Type{}, "__mul"+s+"3")
		t.set(OpFDiv, ft, vt.Type{}, "__div"+s+"3")
	}
	t.set(OpFAdd, vt.PPCF128, vt.Type{}, "__gcc_qadd")
	t.set(OpFSub, vt.PPCF128, vt.Type{}, "__gcc_qsub")
	t.set(OpFMul, vt.PPCF128, vt.Type{}, "__gcc_qmul")
	t.set(OpFDiv, vt.PPCF128, vt.Type{}, "__gcc_qdiv")

	for _, ft := range fpTypes {
		t.set(OpPowI, ft, vt.Type{}, "__powi"+floatSuffix(ft)+"2")
		t.set(OpFRem, ft, vt.Type{}, libmName("fmod", ft))
		t.set(OpFMA, ft, vt.Type{}, libmName("fma", ft))
		t.set(OpSqrt, ft, vt.Type{}, libmName("sqrt", ft))
		t.set(OpLog, ft, vt.Type{}, libmName("log", ft))
		t.set(OpLog2, ft, vt.Type{}, libmName("log2", ft))
		t.set(OpLog10, ft, vt.Type{}, libmName("log10", ft))
		t.set(OpExp, ft, vt.Type{}, libmName("exp", ft))
		t.set(OpExp2, ft, vt.Type{}, libmName("exp2", ft))
		t.set(OpSin, ft, vt.Type{}, libmName("sin", ft))
		t.set(OpCos, ft, vt.Type{}, libmName("cos", ft))
		t.set(OpPow, ft, vt.Type{}, libmName("pow", ft))
		t.set(OpCeil, ft, vt.Type{}, libmName("ceil", ft))
		t.set(OpTrunc, ft, vt.Type{}, libmName("trunc", ft))
		t.set(OpRint, ft, vt.Type{}, libmName("rint", ft))
		t.set(OpNearbyInt, ft, vt.Type{}, libmName("nearbyint", ft))
		t.set(OpRound, ft, vt.Type{}, libmName("round", ft))
		t.set(OpFloor, ft, vt.Type{}, libmName("floor", ft))
		t.set(OpFMin, ft, vt.Type{}, libmName("fmin", ft))
		t.set(OpFMax, ft, vt.Type{}, libmName("fmax", ft))
		t.set(OpCopySign, ft, vt.Type{}, libmName("copysign", ft))
	}
}

func (t *Table) addConversionNames() {
	// Half extension and truncation default to the gnueabi names; Apple
	// platforms link the standard compiler-rt ones.
	if t.tr.IsOSDarwin() {
		t.set(OpFPExt, vt.F16, vt.F32, "__extendhfsf2")
		t.set(OpFPRound, vt.F32, vt.F16, "__truncsfhf2")
	} else {
		t.set(OpFPExt, vt.F16, vt.F32, "__gnu_h2f_ieee")
		t.set(OpFPRound, vt.F32, vt.F16, "__gnu_f2h_ieee")
	}

	t.set(OpFPExt, vt.F32, vt.F64, "__extendsfdf2")
	t.set(OpFPExt, vt.F32, vt.F128, "__extendsftf2")
	t.set(OpFPExt, vt.F64, vt.F128, "__extenddftf2")
	t.set(OpFPExt, vt.F32, vt.PPCF128, "__gcc_stoq")
	t.set(OpFPExt, vt.F64, vt.PPCF128, "__gcc_dtoq")

	t.set(OpFPRound, vt.F64, vt.F16, "__truncdfhf2")
	t.set(OpFPRound, vt.F80, vt.F16, "__truncxfhf2")
	t.set(OpFPRound, vt.F128, vt.F16, "__trunctfhf2")
	t.set(OpFPRound, vt.PPCF128, vt.F16, "__trunctfhf2")
	t.set(OpFPRound, vt.F64, vt.F32, "__truncdfsf2")
	t.set(OpFPRound, vt.F80, vt.F32, "__truncxfsf2")
	t.set(OpFPRound, vt.F128, vt.F32, "__trunctfsf2")
	t.set(OpFPRound, vt.PPCF128, vt.F32, "__gcc_qtos")
	t.set(OpFPRound, vt.F80, vt.F64, "__truncxfdf2")
	t.set(OpFPRound, vt.F128, vt.F64, "__trunctfdf2")
	t.set(OpFPRound, vt.PPCF128, vt.F64, "__gcc_qtod")

	for _, ft := range hwFloats {
		fs := floatSuffix(ft)
		for _, it := range cvtInts {
			is := intSuffix(it)
			t.set(OpFPToSint, ft, it, "__fix"+fs+is)
			t.set(OpFPToUint, ft, it, "__fixuns"+fs+is)
			t.set(OpSintToFP, it, ft, "__float"+is+fs)
			t.set(OpUintToFP, it, ft, "__floatun"+is+fs)
		}
	}
	t.set(OpFPToSint, vt.PPCF128, vt.I32, "__gcc_qtou")
	t.set(OpFPToSint, vt.PPCF128, vt.I64, "__fixtfdi")
	t.set(OpFPToSint, vt.PPCF128, vt.I128, "__fixtfti")
	t.set(OpFPToUint, vt.PPCF128, vt.I32, "__fixunstfsi")
	t.set(OpFPToUint, vt.PPCF128, vt.I64, "__fixunstfdi")
	t.set(OpFPToUint, vt.PPCF128, vt.I128, "__fixunstfti")
	t.set(OpSintToFP, vt.I32, vt.PPCF128, "__gcc_itoq")
	t.set(OpSintToFP, vt.I64, vt.PPCF128, "__floatditf")
	t.set(OpSintToFP, vt.I128, vt.PPCF128, "__floattitf")
	t.set(OpUintToFP, vt.I32, vt.PPCF128, "__gcc_utoq")
	t.set(OpUintToFP, vt.I64, vt.PPCF128, "__floatunditf")
	t.set(OpUintToFP, vt.I128, vt.PPCF128, "__floatuntitf")
}

func (t *Table) addComparisonNames() {
	for _, ft := range []vt.Type{vt.F32, vt.F64, vt.F128} {
		s := floatSuffix(ft)
		t.setCmp(OpCmpOEQ, ft, "__eq"+s+"2", PredEQ)
		t.setCmp(OpCmpUNE, ft, "__ne"+s+"2", PredNE)
		t.setCmp(OpCmpOGE, ft, "__ge"+s+"2", PredGE)
		t.setCmp(OpCmpOLT, ft, "__lt"+s+"2", PredLT)
		t.setCmp(OpCmpOLE, ft, "__le"+s+"2", PredLE)
		t.setCmp(OpCmpOGT, ft, "__gt"+s+"2", PredGT)
		t.setCmp(OpCmpUO, ft, "__unord"+s+"2", PredNE)
		t.setCmp(OpCmpO, ft, "__unord"+s+"2", PredEQ)
	}
	t.setCmp(OpCmpOEQ, vt.PPCF128, "__gcc_qeq", PredEQ)
	t.setCmp(OpCmpUNE, vt.PPCF128, "__gcc_qne", PredNE)
	t.setCmp(OpCmpOGE, vt.PPCF128, "__gcc_qge", PredGE)
	t.setCmp(OpCmpOLT, vt.PPCF128, "__gcc_qlt", PredLT)
	t.setCmp(OpCmpOLE, vt.PPCF128, "__gcc_qle", PredLE)
	t.setCmp(OpCmpOGT, vt.PPCF128, "__gcc_qgt", PredGT)
	t.setCmp(OpCmpUO, vt.PPCF128, "__gcc_qunord", PredNE)
	t.setCmp(OpCmpO, vt.PPCF128, "__gcc_qunord", PredEQ)
}

func (t *Table) addMemoryNames() {
	t.set(OpMemcpy, vt.Type{}, vt.Type{}, "memcpy")
	t.set(OpMemmove, vt.Type{}, vt.Type{}, "memmove")
	t.set(OpMemset, vt.Type{}, vt.Type{}, "memset")
	for _, bytes := range []uint32{1, 2, 4, 8, 16} {
		it, _ := sizedInt(bytes)
		name := "__llvm_memcpy_element_atomic_" + digits(bytes)
		t.set(OpMemcpyElementAtomic, it, vt.Type{}, name)
	}
	t.set(OpUnwindResume, vt.Type{}, vt.Type{}, "_Unwind_Resume")
}

func (t *Table) addSyncNames() {
	families := []struct {
		op   Op
		stem string
	}{
		{OpSyncSwap, "__sync_lock_test_and_set_"},
		{OpSyncCmpSwap, "__sync_val_compare_and_swap_"},
		{OpSyncFetchAdd, "__sync_fetch_and_add_"},
		{OpSyncFetchSub, "__sync_fetch_and_sub_"},
		{OpSyncFetchAnd, "__sync_fetch_and_and_"},
		{OpSyncFetchOr, "__sync_fetch_and_or_"},
		{OpSyncFetchXor, "__sync_fetch_and_xor_"},
		{OpSyncFetchNand, "__sync_fetch_and_nand_"},
		{OpSyncFetchMax, "__sync_fetch_and_max_"},
		{OpSyncFetchUMax, "__sync_fetch_and_umax_"},
		{OpSyncFetchMin, "__sync_fetch_and_min_"},
		{OpSyncFetchUMin, "__sync_fetch_and_umin_"},
	}
	for _, f := range families {
		for _, bytes := range []uint32{1, 2, 4, 8, 16} {
			it, _ := sizedInt(bytes)
			t.set(f.op, it, vt.Type{}, f.stem+digits(bytes))
		}
	}
}

func (t *Table) addAtomicNames() {
	generic := []struct {
		op   Op
		stem string
	}{
		{OpAtomicLoad, "__atomic_load"},
		{OpAtomicStore, "__atomic_store"},
		{OpAtomicExchange, "__atomic_exchange"},
		{OpAtomicCmpExchange, "__atomic_compare_exchange"},
	}
	for _, g := range generic {
		// Size-generic form takes a byte count at runtime.
		t.set(g.op, vt.Type{}, vt.Type{}, g.stem)
		for _, bytes := range []uint32{1, 2, 4, 8, 16} {
			it, _ := sizedInt(bytes)
			t.set(g.op, it, vt.Type{}, g.stem+"_"+digits(bytes))
		}
	}
	sized := []struct {
		op   Op
		stem string
	}{
		{OpAtomicFetchAdd, "__atomic_fetch_add_"},
		{OpAtomicFetchSub, "__atomic_fetch_sub_"},
		{OpAtomicFetchAnd, "__atomic_fetch_and_"},
		{OpAtomicFetchOr, "__atomic_fetch_or_"},
		{OpAtomicFetchXor, "__atomic_fetch_xor_"},
		{OpAtomicFetchNand, "__atomic_fetch_nand_"},
	}
	for _, f := range sized {
		for _, bytes := range []uint32{1, 2, 4, 8, 16} {
			it, _ := sizedInt(bytes)
			t.set(f.op, it, vt.Type{}, f.stem+digits(bytes))
		}
	}
}

func (t *Table) addEnvironmentNames() {
	if t.tr.IsGNUEnvironment() {
		for _, ft := range fpTypes {
			t.set(OpSinCos, ft, vt.Type{}, libmName("sincos", ft))
		}
	}
	if !t.tr.IsOSOpenBSD() {
		t.set(OpStackProtectorFail, vt.Type{}, vt.Type{}, "__stack_chk_fail")
	}
	t.set(OpDeoptimize, vt.Type{}, vt.Type{}, "__llvm_deoptimize")
}

func digits(n uint32) string { return strconv.FormatUint(uint64(n), 10) }
