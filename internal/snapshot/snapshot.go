// Package snapshot serializes a computed legalization table to disk and
// back. The format is msgpack behind an explicit schema version so files
// written by an older build are rejected instead of misread.
package snapshot

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"anvil/internal/legalize"
	"anvil/internal/rtlib"
	"anvil/internal/target"
	"anvil/internal/vt"
)

// Bump when Payload's layout changes.
const schemaVersion uint16 = 1

// Digest is a SHA-256 over the routine table. Two snapshots with equal
// digests were built against the same runtime-library surface.
type Digest [sha256.Size]byte

// Row is one enumerated type's table entry. Types and actions are stored
// by their printed names so a snapshot stays meaningful even if internal
// numbering shifts between builds.
type Row struct {
	Type      string
	Action    string
	Transform string
	RegType   string
	NumRegs   uint32
	RepClass  string // representative class name, empty when none
	RepCost   uint8
}

// Payload is the on-disk snapshot.
type Payload struct {
	Schema   uint16
	Triple   string
	Rows     []Row
	Routines Digest
}

// SchemaError reports a snapshot written under a different schema version.
type SchemaError struct {
	Path string
	Got  uint16
	Want uint16
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: snapshot schema %d, this build reads %d", e.Path, e.Got, e.Want)
}

// Capture flattens an engine's table into a payload.
func Capture(e *legalize.Engine) *Payload {
	types := vt.Enumerated()
	p := &Payload{
		Schema:   schemaVersion,
		Triple:   e.Desc().Triple.Raw,
		Rows:     make([]Row, 0, len(types)),
		Routines: RoutineDigest(e.Routines()),
	}
	for _, t := range types {
		id, cost := e.RepresentativeClass(t)
		name := ""
		if id != target.NoClass {
			name = e.Desc().Class(id).Name
		}
		p.Rows = append(p.Rows, Row{
			Type:      t.String(),
			Action:    e.TypeAction(t).String(),
			Transform: e.TransformTo(t).String(),
			RegType:   e.RegisterType(t).String(),
			NumRegs:   e.NumRegisters(t),
			RepClass:  name,
			RepCost:   cost,
		})
	}
	return p
}

// RoutineDigest hashes the routine table in its deterministic entry order.
func RoutineDigest(tbl *rtlib.Table) Digest {
	h := sha256.New()
	for _, e := range tbl.Entries() {
		fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s\n",
			e.Op, e.A, e.B, e.Routine.Name, e.Routine.Conv, e.Routine.Pred)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Write stores a payload atomically: encode into a temp file next to the
// destination, then rename over it.
func Write(path string, p *Payload) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "snapshot-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(p); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Read loads a payload and checks its schema version.
func Read(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var p Payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("%s: decode snapshot: %w", path, err)
	}
	if p.Schema != schemaVersion {
		return nil, &SchemaError{Path: path, Got: p.Schema, Want: schemaVersion}
	}
	return &p, nil
}
