// Package legalize computes, for a target description, how every value
// type is handled: which types live in registers unchanged, and the chain
// of promotions, expansions, and vector splits that reduces every other
// type to ones that do.
package legalize

import (
	"fmt"

	"anvil/internal/observ"
	"anvil/internal/rtlib"
	"anvil/internal/target"
	"anvil/internal/vt"
)

// props is one row of the computed tables.
type props struct {
	action    Action
	transform vt.Type
	regType   vt.Type
	numRegs   uint32
	repClass  target.ClassID
	repCost   uint8
}

// Engine answers legalization queries for one target description.
// Construction computes the full tables over the canonical enumeration;
// afterward the engine is immutable and safe for concurrent readers.
type Engine struct {
	desc     *target.Desc
	props    map[vt.Type]props
	routines *rtlib.Table
	recip    *recipControl
}

// New builds the legalization tables for a target description. A
// malformed reciprocal-estimate override is reported as an error. An
// inconsistent register description, one with no integer registers at
// all, panics: no table can be computed from it.
func New(desc *target.Desc) (*Engine, error) {
	return NewWithTimer(desc, nil)
}

// NewWithTimer is New with per-phase timings recorded into tm.
func NewWithTimer(desc *target.Desc, tm *observ.Timer) (*Engine, error) {
	recip, err := parseRecipEstimates(desc.RecipEstimates)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		desc:  desc,
		props: make(map[vt.Type]props, len(vt.Enumerated())),
		recip: recip,
	}
	e.build(tm)
	e.routines = rtlib.NewTable(desc.Triple)
	return e, nil
}

// Desc returns the target description the engine was built from.
func (e *Engine) Desc() *target.Desc { return e.desc }

// Routines returns the runtime routine table for the engine's triple.
func (e *Engine) Routines() *rtlib.Table { return e.routines }

// IsTypeLegal reports whether a type can live in a register unchanged.
// Extended types are never legal.
func (e *Engine) IsTypeLegal(t vt.Type) bool {
	if !vt.IsEnumerated(t) {
		return false
	}
	_, ok := e.desc.ClassFor(t)
	return ok
}

// TypeAction returns the first legalization step for a type.
func (e *Engine) TypeAction(t vt.Type) Action {
	a, _ := e.Conversion(t)
	return a
}

// TransformTo returns the type one legalization step produces. Applying
// it repeatedly converges on a legal type.
func (e *Engine) TransformTo(t vt.Type) vt.Type {
	_, out := e.Conversion(t)
	return out
}

// RegisterType returns the register type a value of type t is carried in
// after full legalization.
func (e *Engine) RegisterType(t vt.Type) vt.Type {
	if vt.IsEnumerated(t) {
		return e.props[t].regType
	}
	if t.IsVector() {
		return e.VectorBreakdown(t).RegType
	}
	if t.IsInteger() {
		return e.RegisterType(e.TransformTo(t))
	}
	panic(fmt.Sprintf("legalize: no register type for %s", t))
}

// NumRegisters returns how many registers a value of type t occupies
// after full legalization. Only the void type takes zero registers.
func (e *Engine) NumRegisters(t vt.Type) uint32 {
	if vt.IsEnumerated(t) {
		return e.props[t].numRegs
	}
	if t.IsVector() {
		return e.VectorBreakdown(t).NumRegs
	}
	if t.IsInteger() {
		regBits := e.RegisterType(t).BitSize()
		return (t.BitSize() + regBits - 1) / regBits
	}
	panic(fmt.Sprintf("legalize: no register count for %s", t))
}

// RepresentativeClass returns the register class that stands for a type
// in cost models, with a relative cost. Types with no register mapping
// return the zero class and cost zero.
func (e *Engine) RepresentativeClass(t vt.Type) (target.ClassID, uint8) {
	if !vt.IsEnumerated(t) {
		return target.NoClass, 0
	}
	p := e.props[t]
	return p.repClass, p.repCost
}

// LegalizationCost estimates how expensive a type is to legalize: each
// splitting or expanding step doubles the running cost, while promotions
// and widenings keep it. It returns the cost factor and the legal type
// the chain ends at.
func (e *Engine) LegalizationCost(t vt.Type) (uint32, vt.Type) {
	cost := uint32(1)
	cur := t
	for {
		action, next := e.Conversion(cur)
		if action == Legal {
			return cost, cur
		}
		if next == cur {
			panic(fmt.Sprintf("legalize: %s: legalization stalls at %s", t, cur))
		}
		if action == SplitVector || action == ExpandInteger {
			cost *= 2
		}
		cur = next
	}
}

// AllowsMemoryAccess reports whether a load or store of type t at the
// given alignment is permitted in an address space, and whether it is
// fast. Accesses at or above the ABI alignment always are; anything
// below defers to the target's misaligned-access hook.
func (e *Engine) AllowsMemoryAccess(t vt.Type, addrSpace, alignBytes uint32) (ok, fast bool) {
	if t.BitSize() == 0 {
		return true, true
	}
	if alignBytes >= e.desc.ABIAlign(t) {
		return true, true
	}
	return e.desc.AllowsMisaligned(t, addrSpace, alignBytes)
}
