// Package rtlib holds the runtime routine (libcall) tables: for every
// operation the hardware may lack, the externally linked symbol that
// substitutes for it, its calling convention, and, for float comparisons,
// the predicate to apply to the routine's integer result.
package rtlib

import (
	"fmt"
	"sort"

	"anvil/internal/triple"
	"anvil/internal/vt"
)

// Op identifies an abstract operation a routine can substitute for.
type Op uint8

const (
	OpInvalid Op = iota

	OpShl
	OpSrl
	OpSra
	OpMul
	OpMulOverflow
	OpSDiv
	OpUDiv
	OpSRem
	OpURem
	OpNeg

	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFRem
	OpFMA
	OpPowI
	OpSqrt
	OpLog
	OpLog2
	OpLog10
	OpExp
	OpExp2
	OpSin
	OpCos
	OpSinCos
	OpPow
	OpCeil
	OpTrunc
	OpRint
	OpNearbyInt
	OpRound
	OpFloor
	OpFMin
	OpFMax
	OpCopySign

	OpFPExt
	OpFPRound
	OpFPToSint
	OpFPToUint
	OpSintToFP
	OpUintToFP

	OpCmpOEQ
	OpCmpUNE
	OpCmpOGE
	OpCmpOLT
	OpCmpOLE
	OpCmpOGT
	OpCmpUO
	OpCmpO

	OpMemcpy
	OpMemmove
	OpMemset
	OpMemcpyElementAtomic

	OpUnwindResume

	OpSyncSwap
	OpSyncCmpSwap
	OpSyncFetchAdd
	OpSyncFetchSub
	OpSyncFetchAnd
	OpSyncFetchOr
	OpSyncFetchXor
	OpSyncFetchNand
	OpSyncFetchMax
	OpSyncFetchUMax
	OpSyncFetchMin
	OpSyncFetchUMin

	OpAtomicLoad
	OpAtomicStore
	OpAtomicExchange
	OpAtomicCmpExchange
	OpAtomicFetchAdd
	OpAtomicFetchSub
	OpAtomicFetchAnd
	OpAtomicFetchOr
	OpAtomicFetchXor
	OpAtomicFetchNand

	OpStackProtectorFail
	OpDeoptimize
)

var opNames = map[Op]string{
	OpShl:                 "shl",
	OpSrl:                 "srl",
	OpSra:                 "sra",
	OpMul:                 "mul",
	OpMulOverflow:         "mulo",
	OpSDiv:                "sdiv",
	OpUDiv:                "udiv",
	OpSRem:                "srem",
	OpURem:                "urem",
	OpNeg:                 "neg",
	OpFAdd:                "fadd",
	OpFSub:                "fsub",
	OpFMul:                "fmul",
	OpFDiv:                "fdiv",
	OpFRem:                "frem",
	OpFMA:                 "fma",
	OpPowI:                "powi",
	OpSqrt:                "sqrt",
	OpLog:                 "log",
	OpLog2:                "log2",
	OpLog10:               "log10",
	OpExp:                 "exp",
	OpExp2:                "exp2",
	OpSin:                 "sin",
	OpCos:                 "cos",
	OpSinCos:              "sincos",
	OpPow:                 "pow",
	OpCeil:                "ceil",
	OpTrunc:               "trunc",
	OpRint:                "rint",
	OpNearbyInt:           "nearbyint",
	OpRound:               "round",
	OpFloor:               "floor",
	OpFMin:                "fmin",
	OpFMax:                "fmax",
	OpCopySign:            "copysign",
	OpFPExt:               "fpext",
	OpFPRound:             "fpround",
	OpFPToSint:            "fptosi",
	OpFPToUint:            "fptoui",
	OpSintToFP:            "sitofp",
	OpUintToFP:            "uitofp",
	OpCmpOEQ:              "cmp-oeq",
	OpCmpUNE:              "cmp-une",
	OpCmpOGE:              "cmp-oge",
	OpCmpOLT:              "cmp-olt",
	OpCmpOLE:              "cmp-ole",
	OpCmpOGT:              "cmp-ogt",
	OpCmpUO:               "cmp-uo",
	OpCmpO:                "cmp-o",
	OpMemcpy:              "memcpy",
	OpMemmove:             "memmove",
	OpMemset:              "memset",
	OpMemcpyElementAtomic: "memcpy-element-atomic",
	OpUnwindResume:        "unwind-resume",
	OpSyncSwap:            "sync-swap",
	OpSyncCmpSwap:         "sync-cmpswap",
	OpSyncFetchAdd:        "sync-fetch-add",
	OpSyncFetchSub:        "sync-fetch-sub",
	OpSyncFetchAnd:        "sync-fetch-and",
	OpSyncFetchOr:         "sync-fetch-or",
	OpSyncFetchXor:        "sync-fetch-xor",
	OpSyncFetchNand:       "sync-fetch-nand",
	OpSyncFetchMax:        "sync-fetch-max",
	OpSyncFetchUMax:       "sync-fetch-umax",
	OpSyncFetchMin:        "sync-fetch-min",
	OpSyncFetchUMin:       "sync-fetch-umin",
	OpAtomicLoad:          "atomic-load",
	OpAtomicStore:         "atomic-store",
	OpAtomicExchange:      "atomic-exchange",
	OpAtomicCmpExchange:   "atomic-cmpexchange",
	OpAtomicFetchAdd:      "atomic-fetch-add",
	OpAtomicFetchSub:      "atomic-fetch-sub",
	OpAtomicFetchAnd:      "atomic-fetch-and",
	OpAtomicFetchOr:       "atomic-fetch-or",
	OpAtomicFetchXor:      "atomic-fetch-xor",
	OpAtomicFetchNand:     "atomic-fetch-nand",
	OpStackProtectorFail:  "stack-protector-fail",
	OpDeoptimize:          "deoptimize",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", o)
}

// CallConv is the calling convention a routine expects. Every routine in
// the default tables uses the C convention.
type CallConv uint8

const CallConvC CallConv = iota

func (c CallConv) String() string {
	if c == CallConvC {
		return "c"
	}
	return fmt.Sprintf("CallConv(%d)", c)
}

// Predicate tells a caller how to turn a comparison routine's integer
// result into a boolean: compare it against zero with this relation.
type Predicate uint8

const (
	PredNone Predicate = iota
	PredEQ
	PredNE
	PredGE
	PredLT
	PredLE
	PredGT
)

func (p Predicate) String() string {
	switch p {
	case PredNone:
		return "none"
	case PredEQ:
		return "eq"
	case PredNE:
		return "ne"
	case PredGE:
		return "ge"
	case PredLT:
		return "lt"
	case PredLE:
		return "le"
	case PredGT:
		return "gt"
	default:
		return fmt.Sprintf("Predicate(%d)", p)
	}
}

// Routine is one externally linked runtime routine.
type Routine struct {
	Op   Op
	Name string
	Conv CallConv
	Pred Predicate
}

type key struct {
	op   Op
	a, b vt.Type
}

// Entry pairs a table key with its routine, for enumeration.
type Entry struct {
	Op      Op
	A, B    vt.Type
	Routine Routine
}

// Table maps (operation, operand types) to routines. Built once per target
// triple; immutable and safe for concurrent readers afterward.
type Table struct {
	tr      triple.Triple
	entries map[key]Routine
}

// NewTable builds the routine table for a triple. Symbol selection follows
// the triple: Apple platforms use the standard f16 conversion names where
// others use the gnueabi-style ones, the combined sine+cosine routine only
// exists on GNU environments, and OpenBSD has no stack protector failure
// handler.
func NewTable(tr triple.Triple) *Table {
	t := &Table{tr: tr, entries: make(map[key]Routine, 512)}
	t.addIntegerNames()
	t.addFloatNames()
	t.addConversionNames()
	t.addComparisonNames()
	t.addMemoryNames()
	t.addSyncNames()
	t.addAtomicNames()
	t.addEnvironmentNames()
	return t
}

// Triple returns the triple the table was built for.
func (t *Table) Triple() triple.Triple { return t.tr }

// Lookup finds the routine for an operation and its operand types: none for
// untyped operations (memcpy), one for single-type operations, two for
// conversions (source, destination). A miss is an ordinary "no mapping"
// outcome, not an error.
func (t *Table) Lookup(op Op, types ...vt.Type) (Routine, bool) {
	k := key{op: op}
	if len(types) > 0 {
		k.a = types[0]
	}
	if len(types) > 1 {
		k.b = types[1]
	}
	r, ok := t.entries[k]
	return r, ok
}

// FPExt finds the extension routine from one float format to a wider one.
func (t *Table) FPExt(from, to vt.Type) (Routine, bool) {
	return t.Lookup(OpFPExt, from, to)
}

// FPRound finds the truncation routine from one float format to a narrower
// one.
func (t *Table) FPRound(from, to vt.Type) (Routine, bool) {
	return t.Lookup(OpFPRound, from, to)
}

// FPToSint finds the float-to-signed-integer conversion routine.
func (t *Table) FPToSint(from, to vt.Type) (Routine, bool) {
	return t.Lookup(OpFPToSint, from, to)
}

// FPToUint finds the float-to-unsigned-integer conversion routine.
func (t *Table) FPToUint(from, to vt.Type) (Routine, bool) {
	return t.Lookup(OpFPToUint, from, to)
}

// SintToFP finds the signed-integer-to-float conversion routine.
func (t *Table) SintToFP(from, to vt.Type) (Routine, bool) {
	return t.Lookup(OpSintToFP, from, to)
}

// UintToFP finds the unsigned-integer-to-float conversion routine.
func (t *Table) UintToFP(from, to vt.Type) (Routine, bool) {
	return t.Lookup(OpUintToFP, from, to)
}

// SyncFor finds a __sync_* routine by operation and access width in bytes.
func (t *Table) SyncFor(op Op, bytes uint32) (Routine, bool) {
	it, ok := sizedInt(bytes)
	if !ok {
		return Routine{}, false
	}
	return t.Lookup(op, it)
}

// AtomicFor finds a size-suffixed __atomic_* routine by operation and
// access width in bytes. The size-generic forms stay reachable through
// Lookup with no type.
func (t *Table) AtomicFor(op Op, bytes uint32) (Routine, bool) {
	it, ok := sizedInt(bytes)
	if !ok {
		return Routine{}, false
	}
	return t.Lookup(op, it)
}

// ElementAtomicMemcpy finds the unordered-atomic memcpy routine for an
// element size in bytes.
func (t *Table) ElementAtomicMemcpy(elemBytes uint32) (Routine, bool) {
	it, ok := sizedInt(elemBytes)
	if !ok {
		return Routine{}, false
	}
	return t.Lookup(OpMemcpyElementAtomic, it)
}

// CmpReturnType is the integer type comparison routines return.
func (t *Table) CmpReturnType() vt.Type { return vt.I32 }

// Entries lists the whole table in a deterministic order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for k, r := range t.entries {
		out = append(out, Entry{Op: k.op, A: k.a, B: k.b, Routine: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Op != out[j].Op {
			return out[i].Op < out[j].Op
		}
		if out[i].A != out[j].A {
			return out[i].A.String() < out[j].A.String()
		}
		return out[i].B.String() < out[j].B.String()
	})
	return out
}

// Len reports the number of routines in the table.
func (t *Table) Len() int { return len(t.entries) }

func (t *Table) set(op Op, a, b vt.Type, name string) {
	t.entries[key{op: op, a: a, b: b}] = Routine{Op: op, Name: name, Conv: CallConvC}
}

func (t *Table) setCmp(op Op, a vt.Type, name string, pred Predicate) {
	t.entries[key{op: op, a: a}] = Routine{Op: op, Name: name, Conv: CallConvC, Pred: pred}
}

// sizedInt maps an atomic access width in bytes to its integer value type.
func sizedInt(bytes uint32) (vt.Type, bool) {
	switch bytes {
	case 1:
		return vt.I8, true
	case 2:
		return vt.I16, true
	case 4:
		return vt.I32, true
	case 8:
		return vt.I64, true
	case 16:
		return vt.I128, true
	default:
		return vt.Type{}, false
	}
}
