package tdesc

import "fmt"

// DescErrorKind enumerates the ways a target description file can be bad.
type DescErrorKind uint8

const (
	// DescErrParse indicates the file is not valid TOML.
	DescErrParse DescErrorKind = iota + 1
	DescErrMissingField
	DescErrBadSpill
	DescErrDuplicateClass
	DescErrUnknownClass
	DescErrUnknownType
	DescErrNotEnumerated // type parses but is outside the canonical set
	DescErrNotVector     // vector action keyed by a scalar type
	DescErrBadAction
	DescErrBadSuper // class lists itself as a super-class
)

// DescError reports an invalid target description file.
type DescError struct {
	Kind  DescErrorKind
	Path  string
	Field string // schema location, e.g. `[legal]` or `register-class "gpr" types`
	Value string // the offending name or value
	Err   error  // for DescErrParse
}

func (e *DescError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case DescErrParse:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	case DescErrMissingField:
		return fmt.Sprintf("%s: missing %s", e.Path, e.Field)
	case DescErrBadSpill:
		return fmt.Sprintf("%s: register class %q: bad spill-bytes %s", e.Path, e.Field, e.Value)
	case DescErrDuplicateClass:
		return fmt.Sprintf("%s: duplicate register class %q", e.Path, e.Value)
	case DescErrUnknownClass:
		return fmt.Sprintf("%s: %s: unknown register class %q", e.Path, e.Field, e.Value)
	case DescErrUnknownType:
		return fmt.Sprintf("%s: %s: unknown value type %q", e.Path, e.Field, e.Value)
	case DescErrNotEnumerated:
		return fmt.Sprintf("%s: %s: %s is outside the canonical type set", e.Path, e.Field, e.Value)
	case DescErrNotVector:
		return fmt.Sprintf("%s: %s: %s is not a vector type", e.Path, e.Field, e.Value)
	case DescErrBadAction:
		return fmt.Sprintf("%s: %s: unknown vector action %q", e.Path, e.Field, e.Value)
	case DescErrBadSuper:
		return fmt.Sprintf("%s: register class %q lists itself as a super-class", e.Path, e.Value)
	default:
		return fmt.Sprintf("%s: description error kind=%d", e.Path, e.Kind)
	}
}
