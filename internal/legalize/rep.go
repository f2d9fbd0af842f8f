package legalize

import (
	"anvil/internal/target"
	"anvil/internal/vt"
)

// representativeFor picks the register class that stands for a type in
// cost models: the widest legal class reachable through super-class
// links from the class the type is assigned to. Wider wins; ties keep
// the nearer class.
func (e *Engine) representativeFor(t vt.Type) (target.ClassID, uint8) {
	id, ok := e.desc.ClassFor(t)
	if !ok {
		return target.NoClass, 0
	}
	best := e.desc.Class(id)
	for _, sid := range e.desc.SuperClasses(id)[1:] {
		super := e.desc.Class(sid)
		if super.SpillBytes <= best.SpillBytes {
			continue
		}
		if !e.isLegalClass(super) {
			continue
		}
		best = super
	}
	return best.ID, 1
}

// isLegalClass reports whether every type a class can hold is itself
// legal. A class listing no types passes trivially.
func (e *Engine) isLegalClass(c *target.Class) bool {
	for _, ct := range c.Types {
		if !e.IsTypeLegal(ct) {
			return false
		}
	}
	return true
}
