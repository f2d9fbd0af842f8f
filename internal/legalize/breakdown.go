package legalize

import (
	"fmt"

	"anvil/internal/vt"
)

// Breakdown describes how a vector value is carried after legalization:
// NumRegs registers of RegType, assembled from NumIntermediates pieces of
// the Intermediate type.
type Breakdown struct {
	NumRegs          uint32
	Intermediate     vt.Type
	NumIntermediates uint32
	RegType          vt.Type
}

// VectorBreakdown splits a vector into the widest legal pieces the target
// can hold. When a single legalization step already lands on a legal
// vector, by widening or element promotion, that vector is the one piece:
// v2f32 rides in a legal v4f32 whole. Otherwise the lane count halves
// until a legal subvector appears; if none does, the pieces are the
// scalar elements, carried in whatever the element legalizes to.
func (e *Engine) VectorBreakdown(t vt.Type) Breakdown {
	if !t.IsVector() {
		panic(fmt.Sprintf("legalize: vector breakdown of %s", t))
	}

	lanes := t.NumLanes()
	elem := t.ElemType()

	if lanes != 1 {
		action, next := e.Conversion(t)
		if (action == WidenVector || action == PromoteInteger) && e.IsTypeLegal(next) {
			return Breakdown{NumRegs: 1, Intermediate: next, NumIntermediates: 1, RegType: next}
		}
	}

	numVectorRegs := uint32(1)

	// Non-power-of-two lane counts break straight into single lanes.
	if !vt.IsPow2(lanes) {
		numVectorRegs = lanes
		lanes = 1
	}

	for lanes > 1 && !e.IsTypeLegal(vt.MakeVector(elem, int(lanes))) {
		lanes /= 2
		numVectorRegs *= 2
	}

	intermediate := vt.MakeVector(elem, int(lanes))
	if !e.IsTypeLegal(intermediate) {
		intermediate = elem
	}

	regType := e.RegisterType(intermediate)
	interBits := intermediate.BitSize()
	numRegs := numVectorRegs
	if regType.BitSize() < interBits {
		// A piece wider than a register expands across several, padded
		// up to a power of two the way odd scalars are.
		numRegs = numVectorRegs * (vt.NextPow2(interBits) / regType.BitSize())
	}
	return Breakdown{
		NumRegs:          numRegs,
		Intermediate:     intermediate,
		NumIntermediates: numVectorRegs,
		RegType:          regType,
	}
}
