// Package tdesc loads target descriptions from TOML files and turns them
// into target.Desc values a legalization engine can be built from.
//
// The file schema mirrors the target package: [[register-class]] blocks
// declare register files, the [legal] table assigns a class to each legal
// value type, and [vector-action] overrides the first move for illegal
// vectors. Everything is validated up front so that a description read from
// disk can never trip the target package's programmer-error panics.
package tdesc

import (
	"fmt"
	"sort"
	"strconv"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/samber/lo"

	"anvil/internal/target"
	"anvil/internal/triple"
	"anvil/internal/vt"
)

type fileSchema struct {
	Triple         string            `toml:"triple"`
	RecipEstimates string            `toml:"recip-estimates"`
	Classes        []classSchema     `toml:"register-class"`
	Legal          map[string]string `toml:"legal"`
	VectorActions  map[string]string `toml:"vector-action"`
}

type classSchema struct {
	Name         string   `toml:"name"`
	SpillBytes   int64    `toml:"spill-bytes"`
	Types        []string `toml:"types"`
	SuperClasses []string `toml:"super-classes"`
}

// Load reads a target description file.
func Load(path string) (*target.Desc, error) {
	var s fileSchema
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, &DescError{Kind: DescErrParse, Path: path, Err: err}
	}
	return build(path, meta, &s)
}

// FromString builds a description from in-memory TOML. Errors report the
// path as "<string>".
func FromString(data string) (*target.Desc, error) {
	var s fileSchema
	meta, err := toml.Decode(data, &s)
	if err != nil {
		return nil, &DescError{Kind: DescErrParse, Path: "<string>", Err: err}
	}
	return build("<string>", meta, &s)
}

func build(path string, meta toml.MetaData, s *fileSchema) (*target.Desc, error) {
	if !meta.IsDefined("triple") || s.Triple == "" {
		return nil, &DescError{Kind: DescErrMissingField, Path: path, Field: "triple"}
	}
	if len(s.Classes) == 0 {
		return nil, &DescError{Kind: DescErrMissingField, Path: path, Field: "[[register-class]]"}
	}
	for i, c := range s.Classes {
		if c.Name == "" {
			return nil, &DescError{
				Kind: DescErrMissingField, Path: path,
				Field: fmt.Sprintf("register-class[%d].name", i),
			}
		}
	}
	names := lo.Map(s.Classes, func(c classSchema, _ int) string { return c.Name })
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return nil, &DescError{Kind: DescErrDuplicateClass, Path: path, Value: dups[0]}
	}

	desc := target.NewDesc(triple.Parse(s.Triple))
	desc.RecipEstimates = s.RecipEstimates

	for _, c := range s.Classes {
		spill, err := safecast.Conv[uint32](c.SpillBytes)
		if err != nil || spill == 0 {
			return nil, &DescError{
				Kind: DescErrBadSpill, Path: path,
				Field: c.Name, Value: strconv.FormatInt(c.SpillBytes, 10),
			}
		}
		types, err := parseTypes(path, fmt.Sprintf("register-class %q types", c.Name), c.Types)
		if err != nil {
			return nil, err
		}
		desc.AddClass(c.Name, spill, types...)
	}

	// Super-classes may be declared before or after the class naming them,
	// so links resolve only once every class is registered.
	for _, c := range s.Classes {
		sub, _ := desc.ClassByName(c.Name)
		for _, superName := range c.SuperClasses {
			field := fmt.Sprintf("register-class %q super-classes", c.Name)
			if superName == c.Name {
				return nil, &DescError{Kind: DescErrBadSuper, Path: path, Field: field, Value: c.Name}
			}
			super, ok := desc.ClassByName(superName)
			if !ok {
				return nil, &DescError{Kind: DescErrUnknownClass, Path: path, Field: field, Value: superName}
			}
			desc.LinkSuper(sub, super)
		}
	}

	for _, key := range sortedKeys(s.Legal) {
		t, err := parseEnumerated(path, "[legal]", key)
		if err != nil {
			return nil, err
		}
		id, ok := desc.ClassByName(s.Legal[key])
		if !ok {
			return nil, &DescError{
				Kind: DescErrUnknownClass, Path: path,
				Field: fmt.Sprintf("[legal] %s", key), Value: s.Legal[key],
			}
		}
		desc.Assign(t, id)
	}

	// The engine cannot be built without at least one legal integer type;
	// catching that here keeps file mistakes as errors instead of panics.
	if !lo.SomeBy(vt.IntScalars(), func(t vt.Type) bool {
		_, ok := desc.ClassFor(t)
		return ok
	}) {
		return nil, &DescError{
			Kind: DescErrMissingField, Path: path,
			Field: "[legal] entry for an integer type",
		}
	}

	for _, key := range sortedKeys(s.VectorActions) {
		t, err := vt.Parse(key)
		if err != nil {
			return nil, &DescError{Kind: DescErrUnknownType, Path: path, Field: "[vector-action]", Value: key}
		}
		if !t.IsVector() {
			return nil, &DescError{Kind: DescErrNotVector, Path: path, Field: "[vector-action]", Value: key}
		}
		if !vt.IsEnumerated(t) {
			return nil, &DescError{Kind: DescErrNotEnumerated, Path: path, Field: "[vector-action]", Value: key}
		}
		strategy, ok := parseStrategy(s.VectorActions[key])
		if !ok {
			return nil, &DescError{
				Kind: DescErrBadAction, Path: path,
				Field: fmt.Sprintf("[vector-action] %s", key), Value: s.VectorActions[key],
			}
		}
		desc.SetVectorStrategy(t, strategy)
	}

	return desc, nil
}

func parseTypes(path, field string, names []string) ([]vt.Type, error) {
	out := make([]vt.Type, 0, len(names))
	for _, name := range names {
		t, err := parseEnumerated(path, field, name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// parseEnumerated resolves a type name and requires it to be one of the
// canonical enumerated types; only those can carry class assignments.
func parseEnumerated(path, field, name string) (vt.Type, error) {
	t, err := vt.Parse(name)
	if err != nil {
		return vt.Type{}, &DescError{Kind: DescErrUnknownType, Path: path, Field: field, Value: name}
	}
	if !vt.IsEnumerated(t) {
		return vt.Type{}, &DescError{Kind: DescErrNotEnumerated, Path: path, Field: field, Value: name}
	}
	return t, nil
}

func parseStrategy(s string) (target.VectorStrategy, bool) {
	switch s {
	case "default":
		return target.PreferDefault, true
	case "promote":
		return target.PreferPromote, true
	case "widen":
		return target.PreferWiden, true
	case "split":
		return target.PreferSplit, true
	case "scalarize":
		return target.PreferScalarize, true
	default:
		return target.PreferDefault, false
	}
}

// sortedKeys keeps validation order and error reporting deterministic.
func sortedKeys(m map[string]string) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
