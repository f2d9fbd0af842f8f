package legalize

import "fmt"

// Action is the first legalization step to apply to a type. Legal types
// take no step; every other action names a transformation whose result is
// examined again, until a legal type is reached.
type Action uint8

const (
	Legal Action = iota
	PromoteInteger
	ExpandInteger
	SoftenFloat
	PromoteFloat
	ExpandFloat
	ScalarizeVector
	SplitVector
	WidenVector
)

func (a Action) String() string {
	switch a {
	case Legal:
		return "legal"
	case PromoteInteger:
		return "promote-integer"
	case ExpandInteger:
		return "expand-integer"
	case SoftenFloat:
		return "soften-float"
	case PromoteFloat:
		return "promote-float"
	case ExpandFloat:
		return "expand-float"
	case ScalarizeVector:
		return "scalarize-vector"
	case SplitVector:
		return "split-vector"
	case WidenVector:
		return "widen-vector"
	default:
		return fmt.Sprintf("Action(%d)", a)
	}
}
