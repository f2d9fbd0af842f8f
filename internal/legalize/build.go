package legalize

import (
	"fmt"

	"anvil/internal/observ"
	"anvil/internal/target"
	"anvil/internal/vt"
)

// build computes one table row per enumerated type. Pass order matters:
// scalars must be final before vectors, because the vector pass reads
// element rows through the breakdown, and the representative pass reads
// legality decided by everything before it.
func (e *Engine) build(tm *observ.Timer) {
	idx := tm.Begin("defaults")
	e.buildDefaults()
	tm.End(idx, fmt.Sprintf("%d types", len(vt.Enumerated())))

	idx = tm.Begin("integers")
	largest := e.buildIntegers()
	tm.End(idx, "largest register "+largest.String())

	idx = tm.Begin("floats")
	e.buildFloats()
	tm.End(idx, "")

	idx = tm.Begin("vectors")
	n := e.buildVectors()
	tm.End(idx, fmt.Sprintf("%d lowered", n))

	idx = tm.Begin("representatives")
	e.buildRepresentatives()
	tm.End(idx, "")

	e.checkPromotionChains()
}

// buildDefaults seeds every row as legal and self-carried. Later passes
// only touch the rows that need something else, so a register-rich
// target keeps most defaults.
func (e *Engine) buildDefaults() {
	for _, t := range vt.Enumerated() {
		p := props{action: Legal, transform: t, regType: t, numRegs: 1}
		if t.IsVoid() {
			p.numRegs = 0
		}
		e.props[t] = p
	}
}

// buildIntegers decides every integer scalar around the widest one with a
// register class: wider integers expand in halves down to it, each step
// doubling the register count, and narrower ones without a class of
// their own promote to the nearest registered width above them.
func (e *Engine) buildIntegers() vt.Type {
	ints := vt.IntScalars()

	largest := -1
	for i, t := range ints {
		if e.IsTypeLegal(t) {
			largest = i
		}
	}
	if largest < 0 {
		panic("legalize: target description has no integer registers")
	}
	largestReg := ints[largest]

	for i := largest + 1; i < len(ints); i++ {
		prev := e.props[ints[i-1]]
		e.props[ints[i]] = props{
			action:    ExpandInteger,
			transform: ints[i-1],
			regType:   largestReg,
			numRegs:   prev.numRegs * 2,
		}
	}

	nearest := largestReg
	for i := largest - 1; i >= 0; i-- {
		t := ints[i]
		if e.IsTypeLegal(t) {
			nearest = t
			continue
		}
		p := e.props[t]
		p.action = PromoteInteger
		p.transform = nearest
		p.regType = nearest
		e.props[t] = p
	}
	return largestReg
}

// buildFloats lowers the float scalars the target left unregistered. The
// double-double splits into two doubles when doubles are registered and
// softens to i128 otherwise; quad, double, and single soften to the
// equally sized integer; half promotes to single, since no runtime
// routines exist for it beyond conversions. The x87 extended format has
// no fallback of its own.
func (e *Engine) buildFloats() {
	if !e.IsTypeLegal(vt.PPCF128) {
		if e.IsTypeLegal(vt.F64) {
			f64 := e.props[vt.F64]
			e.props[vt.PPCF128] = props{
				action:    ExpandFloat,
				transform: vt.F64,
				regType:   vt.F64,
				numRegs:   f64.numRegs * 2,
			}
		} else {
			e.soften(vt.PPCF128, vt.I128)
		}
	}
	if !e.IsTypeLegal(vt.F128) {
		e.soften(vt.F128, vt.I128)
	}
	if !e.IsTypeLegal(vt.F64) {
		e.soften(vt.F64, vt.I64)
	}
	if !e.IsTypeLegal(vt.F32) {
		e.soften(vt.F32, vt.I32)
	}
	// Reads the f32 row after its own lowering, so a promoted half lands
	// directly in whatever carries f32.
	if !e.IsTypeLegal(vt.F16) {
		f32 := e.props[vt.F32]
		e.props[vt.F16] = props{
			action:    PromoteFloat,
			transform: vt.F32,
			regType:   f32.regType,
			numRegs:   f32.numRegs,
		}
	}
}

// soften maps a float to the integer of the same width, inheriting that
// integer's register shape.
func (e *Engine) soften(f, i vt.Type) {
	ip := e.props[i]
	e.props[f] = props{
		action:    SoftenFloat,
		transform: i,
		regType:   ip.regType,
		numRegs:   ip.numRegs,
	}
}

// buildVectors lowers every enumerated vector the target left
// unregistered. The preferred strategy decides which searches run:
// element promotion for integer vectors, widening to a larger vector of
// the same element, and finally the register breakdown paired with a
// split or scalarize step.
func (e *Engine) buildVectors() int {
	lowered := 0
	for _, t := range vt.Enumerated() {
		if !t.IsVector() || e.IsTypeLegal(t) {
			continue
		}
		lowered++

		preferred := e.desc.VectorStrategyFor(t)
		found := false
		switch preferred {
		case target.PreferPromote:
			found = e.tryPromoteVector(t) || e.tryWidenVector(t)
		case target.PreferWiden:
			found = e.tryWidenVector(t)
		}
		if found {
			continue
		}

		bd := e.VectorBreakdown(t)
		p := props{regType: bd.RegType, numRegs: bd.NumRegs}
		// A one-lane vector has no halves, so a split hint on it
		// scalarizes like the default does.
		if preferred == target.PreferScalarize || t.NumLanes() == 1 {
			p.action = ScalarizeVector
			p.transform = t.ElemType()
		} else {
			p.action = SplitVector
			p.transform = t.HalfLanes()
		}
		e.props[t] = p
	}
	return lowered
}

// tryPromoteVector looks for a legal integer vector with the same lane
// count and a wider element. The smallest such element wins.
func (e *Engine) tryPromoteVector(t vt.Type) bool {
	if !t.IsIntVector() {
		return false
	}
	lanes := t.NumLanes()
	eltBits := t.ElemType().BitSize()
	for _, cand := range vt.Enumerated() {
		if !cand.IsIntVector() || cand.NumLanes() != lanes {
			continue
		}
		if cand.ElemType().BitSize() <= eltBits || !e.IsTypeLegal(cand) {
			continue
		}
		p := e.props[t]
		p.action = PromoteInteger
		p.transform = cand
		p.regType = cand
		p.numRegs = 1
		e.props[t] = p
		return true
	}
	return false
}

// tryWidenVector looks for a legal vector with the same element type and
// more lanes. The smallest such widening wins.
func (e *Engine) tryWidenVector(t vt.Type) bool {
	elem := t.ElemType()
	lanes := t.NumLanes()
	for _, cand := range vt.Enumerated() {
		if !cand.IsVector() || cand.ElemType() != elem || cand.NumLanes() <= lanes {
			continue
		}
		if !e.IsTypeLegal(cand) {
			continue
		}
		p := e.props[t]
		p.action = WidenVector
		p.transform = cand
		p.regType = cand
		p.numRegs = 1
		e.props[t] = p
		return true
	}
	return false
}

func (e *Engine) buildRepresentatives() {
	for _, t := range vt.Enumerated() {
		p := e.props[t]
		p.repClass, p.repCost = e.representativeFor(t)
		e.props[t] = p
	}
}

// checkPromotionChains verifies that no integer promotion or expansion
// lands on a type that itself promotes. A second promotion there would
// make step counting ambiguous, and the builder never produces one from a
// well-formed description. Scalarized elements are exempt: a one-lane
// vector may legitimately scalarize to a promoting element.
func (e *Engine) checkPromotionChains() {
	for _, t := range vt.Enumerated() {
		p := e.props[t]
		if p.action != PromoteInteger && p.action != ExpandInteger {
			continue
		}
		next := p.transform
		if next.IsVector() {
			continue
		}
		if e.props[next].action == PromoteInteger {
			panic(fmt.Sprintf("legalize: %s: promotion may not follow %s", t, p.action))
		}
	}
}
