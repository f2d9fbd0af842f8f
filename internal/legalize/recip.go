package legalize

import (
	"fmt"
	"strings"

	"anvil/internal/vt"
)

// RecipSetting is a three-state switch for reciprocal-estimate codegen.
type RecipSetting int8

const (
	RecipUnspecified RecipSetting = -1
	RecipDisabled    RecipSetting = 0
	RecipEnabled     RecipSetting = 1
)

func (s RecipSetting) String() string {
	switch s {
	case RecipUnspecified:
		return "unspecified"
	case RecipDisabled:
		return "disabled"
	case RecipEnabled:
		return "enabled"
	default:
		return fmt.Sprintf("RecipSetting(%d)", s)
	}
}

// RecipStepsUnspecified is returned when an override names no refinement
// step count.
const RecipStepsUnspecified = -1

// RecipError reports a malformed reciprocal-estimate override list.
type RecipError struct {
	List  string
	Entry string
	Why   string
}

func (e *RecipError) Error() string {
	return fmt.Sprintf("reciprocal estimate override %q: entry %q: %s", e.List, e.Entry, e.Why)
}

// recipToken is one parsed override entry. Tokens match in the order
// written; the first name match wins.
type recipToken struct {
	name    string
	setting RecipSetting
	steps   int
}

// recipControl is the parsed form of an override list. A single entry of
// all, none, or default becomes the global fallback instead of a token.
type recipControl struct {
	tokens    []recipToken
	global    recipToken
	hasGlobal bool
}

// parseRecipEstimates parses a comma-separated override list. Each entry
// is [!]name[:d]: name is div or sqrt, optionally vec- prefixed and
// h/f/d suffixed (the suffix may be omitted to cover all three), d is a
// single digit of refinement steps, and ! disables the entry.
func parseRecipEstimates(s string) (*recipControl, error) {
	c := &recipControl{}
	if s == "" {
		return c, nil
	}
	parts := strings.Split(s, ",")

	if len(parts) == 1 {
		name, steps, err := splitRecipSteps(s, parts[0])
		if err != nil {
			return nil, err
		}
		switch name {
		case "all":
			c.global = recipToken{setting: RecipEnabled, steps: steps}
			c.hasGlobal = true
			return c, nil
		case "default":
			c.global = recipToken{setting: RecipUnspecified, steps: steps}
			c.hasGlobal = true
			return c, nil
		case "none":
			if steps != RecipStepsUnspecified {
				return nil, &RecipError{List: s, Entry: parts[0], Why: "refinement steps with estimates disabled"}
			}
			c.global = recipToken{setting: RecipDisabled, steps: RecipStepsUnspecified}
			c.hasGlobal = true
			return c, nil
		}
	}

	for _, part := range parts {
		name, steps, err := splitRecipSteps(s, part)
		if err != nil {
			return nil, err
		}
		tok := recipToken{setting: RecipEnabled, steps: steps}
		if strings.HasPrefix(name, "!") {
			name = name[1:]
			tok.setting = RecipDisabled
			tok.steps = RecipStepsUnspecified
		}
		if name == "" {
			return nil, &RecipError{List: s, Entry: part, Why: "empty entry"}
		}
		if !validRecipName(name) {
			return nil, &RecipError{List: s, Entry: part, Why: "unknown operation"}
		}
		tok.name = name
		c.tokens = append(c.tokens, tok)
	}
	return c, nil
}

// validRecipName reports whether an entry names an overridable operation.
func validRecipName(name string) bool {
	name = strings.TrimPrefix(name, "vec-")
	switch name {
	case "div", "divh", "divf", "divd", "sqrt", "sqrth", "sqrtf", "sqrtd":
		return true
	default:
		return false
	}
}

// splitRecipSteps strips an optional :d suffix from an entry. The step
// count must be exactly one digit.
func splitRecipSteps(list, entry string) (string, int, error) {
	i := strings.IndexByte(entry, ':')
	if i < 0 {
		return entry, RecipStepsUnspecified, nil
	}
	rest := entry[i+1:]
	if len(rest) != 1 || rest[0] < '0' || rest[0] > '9' {
		return "", 0, &RecipError{List: list, Entry: entry, Why: "refinement steps must be a single digit"}
	}
	return entry[:i], int(rest[0] - '0'), nil
}

// reciprocalOpName builds the override key for an operation and type:
// [vec-](div|sqrt)(h|f|d).
func reciprocalOpName(isSqrt bool, t vt.Type) string {
	var b strings.Builder
	if t.IsVector() {
		b.WriteString("vec-")
	}
	if isSqrt {
		b.WriteString("sqrt")
	} else {
		b.WriteString("div")
	}
	switch t.ScalarType() {
	case vt.F64:
		b.WriteByte('d')
	case vt.F16:
		b.WriteByte('h')
	case vt.F32:
		b.WriteByte('f')
	default:
		panic(fmt.Sprintf("legalize: no reciprocal estimate key for %s", t))
	}
	return b.String()
}

func (c *recipControl) enabled(name string) RecipSetting {
	short := name[:len(name)-1]
	for _, tok := range c.tokens {
		if tok.name == name || tok.name == short {
			return tok.setting
		}
	}
	if c.hasGlobal {
		return c.global.setting
	}
	return RecipUnspecified
}

func (c *recipControl) steps(name string) int {
	short := name[:len(name)-1]
	for _, tok := range c.tokens {
		if tok.steps == RecipStepsUnspecified {
			continue
		}
		if tok.name == name || tok.name == short {
			return tok.steps
		}
	}
	if c.hasGlobal {
		return c.global.steps
	}
	return RecipStepsUnspecified
}

// ReciprocalDivEnabled reports whether reciprocal-estimate division is
// forced on or off for a type. Only the half, single, and double formats
// (and their vectors) participate.
func (e *Engine) ReciprocalDivEnabled(t vt.Type) RecipSetting {
	return e.recip.enabled(reciprocalOpName(false, t))
}

// ReciprocalDivSteps returns the refinement step count forced for
// reciprocal division, if any.
func (e *Engine) ReciprocalDivSteps(t vt.Type) int {
	return e.recip.steps(reciprocalOpName(false, t))
}

// ReciprocalSqrtEnabled reports whether reciprocal square-root estimation
// is forced on or off for a type.
func (e *Engine) ReciprocalSqrtEnabled(t vt.Type) RecipSetting {
	return e.recip.enabled(reciprocalOpName(true, t))
}

// ReciprocalSqrtSteps returns the refinement step count forced for
// reciprocal square root, if any.
func (e *Engine) ReciprocalSqrtSteps(t vt.Type) int {
	return e.recip.steps(reciprocalOpName(true, t))
}
