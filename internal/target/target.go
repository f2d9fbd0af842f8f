// Package target holds the externally supplied machine description a
// legalization engine is built from: register classes, the value types
// assigned to them, per-vector strategy hints, and memory access hooks.
// A Desc is configuration, not computation; the engine derives everything
// else from it. Misuse of the builder API (duplicate class names, types
// outside the canonical enumeration) is a programmer error and panics;
// the tdesc loader validates file input so none of these panics are
// reachable from a description file.
package target

import (
	"fmt"

	"fortio.org/safecast"

	"anvil/internal/triple"
	"anvil/internal/vt"
)

// ClassID names a register class within one Desc. The zero value is
// NoClass: "no class assigned".
type ClassID uint8

// NoClass is the ClassID of types with no register mapping.
const NoClass ClassID = 0

// Class is one register file: a grouping of interchangeable physical
// registers. Types lists every value type the class can hold; SpillBytes
// is the stack slot size of one register; Supers are the classes whose
// registers contain this class's registers as subregister views, kept as
// an explicit adjacency list.
type Class struct {
	ID         ClassID
	Name       string
	SpillBytes uint32
	Types      []vt.Type
	Supers     []ClassID
}

// VectorStrategy is the first move tried when legalizing an illegal
// vector type.
type VectorStrategy uint8

const (
	// PreferDefault defers to the built-in choice: scalarize one-lane
	// vectors, promote the elements of everything else.
	PreferDefault VectorStrategy = iota
	PreferPromote
	PreferWiden
	PreferSplit
	PreferScalarize
)

func (s VectorStrategy) String() string {
	switch s {
	case PreferDefault:
		return "default"
	case PreferPromote:
		return "promote"
	case PreferWiden:
		return "widen"
	case PreferSplit:
		return "split"
	case PreferScalarize:
		return "scalarize"
	default:
		return fmt.Sprintf("VectorStrategy(%d)", s)
	}
}

// Desc describes one target machine. Build it with NewDesc, AddClass,
// LinkSuper, Assign, and SetVectorStrategy before handing it to
// legalize.New; the engine reads it but never changes it.
type Desc struct {
	Triple triple.Triple

	// RecipEstimates is the raw reciprocal-estimate override list, parsed
	// by the engine. A malformed list is a user-visible error there.
	RecipEstimates string

	// AllowsMisalignedFn decides accesses below the ABI alignment. When
	// nil, underaligned accesses are rejected.
	AllowsMisalignedFn func(t vt.Type, addrSpace, alignBytes uint32) (ok, fast bool)

	// ABIAlignFn overrides the ABI alignment of a type in bytes. When
	// nil, the natural (power-of-two storage) alignment is used.
	ABIAlignFn func(t vt.Type) uint32

	classes    []*Class
	byName     map[string]ClassID
	assigned   map[vt.Type]ClassID
	strategies map[vt.Type]VectorStrategy
}

// NewDesc returns an empty description for a triple.
func NewDesc(tr triple.Triple) *Desc {
	return &Desc{
		Triple:     tr,
		byName:     make(map[string]ClassID),
		assigned:   make(map[vt.Type]ClassID),
		strategies: make(map[vt.Type]VectorStrategy),
	}
}

// AddClass registers a register file and returns its ID. Class names are
// unique within a description; types must come from the canonical
// enumeration.
func (d *Desc) AddClass(name string, spillBytes uint32, types ...vt.Type) ClassID {
	if name == "" {
		panic("target: register class needs a name")
	}
	if _, dup := d.byName[name]; dup {
		panic(fmt.Sprintf("target: duplicate register class %q", name))
	}
	if spillBytes == 0 {
		panic(fmt.Sprintf("target: register class %q has no spill size", name))
	}
	for _, t := range types {
		if !vt.IsEnumerated(t) {
			panic(fmt.Sprintf("target: register class %q holds non-enumerated type %s", name, t))
		}
	}
	raw, err := safecast.Conv[uint8](len(d.classes) + 1)
	if err != nil {
		panic(fmt.Sprintf("target: too many register classes adding %q", name))
	}
	id := ClassID(raw)
	d.classes = append(d.classes, &Class{
		ID:         id,
		Name:       name,
		SpillBytes: spillBytes,
		Types:      append([]vt.Type(nil), types...),
	})
	d.byName[name] = id
	return id
}

// Class resolves an ID. NoClass and unknown IDs panic.
func (d *Desc) Class(id ClassID) *Class {
	if id == NoClass || int(id) > len(d.classes) {
		panic(fmt.Sprintf("target: no register class with id %d", id))
	}
	return d.classes[id-1]
}

// ClassByName resolves a class by name.
func (d *Desc) ClassByName(name string) (ClassID, bool) {
	id, ok := d.byName[name]
	return id, ok
}

// LinkSuper records that super's registers contain sub's registers as
// subregister views. Linking a class to itself panics; linking the same
// pair twice is a no-op.
func (d *Desc) LinkSuper(sub, super ClassID) {
	if sub == super {
		panic(fmt.Sprintf("target: class %q cannot be its own super-class", d.Class(sub).Name))
	}
	c := d.Class(sub)
	d.Class(super)
	for _, existing := range c.Supers {
		if existing == super {
			return
		}
	}
	c.Supers = append(c.Supers, super)
}

// SuperClasses returns the transitive super-class closure of a class,
// starting with the class itself, in breadth-first order. Nearer classes
// come first, which is what makes representative-class ties keep the
// smallest superset.
func (d *Desc) SuperClasses(id ClassID) []ClassID {
	out := []ClassID{id}
	seen := map[ClassID]bool{id: true}
	for i := 0; i < len(out); i++ {
		for _, super := range d.Class(out[i]).Supers {
			if seen[super] {
				continue
			}
			seen[super] = true
			out = append(out, super)
		}
	}
	return out
}

// Assign gives a value type a register class, which is what makes the
// type legal. Only enumerated types can be assigned.
func (d *Desc) Assign(t vt.Type, id ClassID) {
	if !vt.IsEnumerated(t) {
		panic(fmt.Sprintf("target: cannot assign a register class to non-enumerated %s", t))
	}
	d.Class(id)
	d.assigned[t] = id
}

// ClassFor returns the register class assigned to a type, if any.
func (d *Desc) ClassFor(t vt.Type) (ClassID, bool) {
	id, ok := d.assigned[t]
	return id, ok
}

// SetVectorStrategy overrides the first move tried when legalizing an
// illegal vector type. Setting PreferDefault restores the built-in
// choice.
func (d *Desc) SetVectorStrategy(t vt.Type, s VectorStrategy) {
	if !t.IsVector() {
		panic(fmt.Sprintf("target: vector strategy on scalar %s", t))
	}
	if !vt.IsEnumerated(t) {
		panic(fmt.Sprintf("target: vector strategy on non-enumerated %s", t))
	}
	d.strategies[t] = s
}

// VectorStrategyFor returns the strategy the engine tries first for an
// illegal vector: the recorded override when there is one, otherwise
// scalarize for one-lane vectors and element promotion for the rest.
func (d *Desc) VectorStrategyFor(t vt.Type) VectorStrategy {
	if s, ok := d.strategies[t]; ok && s != PreferDefault {
		return s
	}
	if t.NumLanes() == 1 {
		return PreferScalarize
	}
	return PreferPromote
}

// ABIAlign returns the ABI alignment of a type in bytes: the hook's
// answer when one is set, the natural power-of-two storage alignment
// otherwise.
func (d *Desc) ABIAlign(t vt.Type) uint32 {
	if d.ABIAlignFn != nil {
		return d.ABIAlignFn(t)
	}
	return (t.StoreBits() + 7) / 8
}

// AllowsMisaligned asks the target whether an access below the ABI
// alignment is permitted and fast. Without a hook nothing underaligned
// is allowed.
func (d *Desc) AllowsMisaligned(t vt.Type, addrSpace, alignBytes uint32) (ok, fast bool) {
	if d.AllowsMisalignedFn == nil {
		return false, false
	}
	return d.AllowsMisalignedFn(t, addrSpace, alignBytes)
}
