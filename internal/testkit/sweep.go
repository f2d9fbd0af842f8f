package testkit

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"anvil/internal/legalize"
	"anvil/internal/vt"
)

// Transform chains shrink geometrically, so this bounds types far beyond
// anything the extended sample generates.
const convergenceBudget = 64

// Status of one sweep family.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event reports a family's status change during a sweep.
type Event struct {
	Family string
	Status Status
}

// Failure is one invariant violation found by a sweep.
type Failure struct {
	Family string
	Err    error
}

// SweepOptions bounds the extended-space sample.
type SweepOptions struct {
	MaxBits  uint32 // extended integer widths checked, 1..MaxBits
	MaxLanes uint32 // extended vector lane counts checked, 1..MaxLanes
}

// Families lists the sweep families in display order.
func Families() []string {
	return []string{"integers", "floats", "vectors", "extended integers", "extended vectors"}
}

// Sweep runs every invariant over the enumerated space plus a bounded
// sample of the extended space. Families run in parallel. If events is
// non-nil it receives one update per family status change and is closed
// when the sweep finishes. All violations are collected, not just the
// first, and returned sorted for stable reporting.
func Sweep(e *legalize.Engine, opts SweepOptions, events chan<- Event) []Failure {
	if opts.MaxBits == 0 {
		opts.MaxBits = 256
	}
	if opts.MaxLanes == 0 {
		opts.MaxLanes = 16
	}

	var (
		mu       sync.Mutex
		failures []Failure
	)
	emit := func(ev Event) {
		if events != nil {
			events <- ev
		}
	}
	run := func(family string, check func() []error) func() error {
		return func() error {
			emit(Event{Family: family, Status: StatusWorking})
			errs := check()
			mu.Lock()
			for _, err := range errs {
				failures = append(failures, Failure{Family: family, Err: err})
			}
			mu.Unlock()
			if len(errs) > 0 {
				emit(Event{Family: family, Status: StatusError})
				return fmt.Errorf("%s: %d violations", family, len(errs))
			}
			emit(Event{Family: family, Status: StatusDone})
			return nil
		}
	}

	var g errgroup.Group
	g.Go(run("integers", func() []error { return checkIntegers(e) }))
	g.Go(run("floats", func() []error { return checkFloats(e) }))
	g.Go(run("vectors", func() []error { return checkVectors(e) }))
	g.Go(run("extended integers", func() []error { return checkExtendedIntegers(e, opts.MaxBits) }))
	g.Go(run("extended vectors", func() []error { return checkExtendedVectors(e, opts.MaxLanes) }))
	_ = g.Wait() // failures already carry every violation

	if events != nil {
		close(events)
	}
	sort.Slice(failures, func(i, j int) bool {
		if failures[i].Family != failures[j].Family {
			return failures[i].Family < failures[j].Family
		}
		return failures[i].Err.Error() < failures[j].Err.Error()
	})
	return failures
}

func checkIntegers(e *legalize.Engine) []error {
	var errs []error
	for _, t := range vt.IntScalars() {
		errs = appendErr(errs, CheckFixedPoint(e, t))
		errs = appendErr(errs, CheckConvergence(e, t, convergenceBudget))
	}
	errs = appendErr(errs, CheckRegisterMonotonicity(e))
	return errs
}

func checkFloats(e *legalize.Engine) []error {
	var errs []error
	for _, t := range vt.FloatScalars() {
		errs = appendErr(errs, CheckFixedPoint(e, t))
		errs = appendErr(errs, CheckConvergence(e, t, convergenceBudget))
	}
	return errs
}

func checkVectors(e *legalize.Engine) []error {
	var errs []error
	for _, t := range vt.Enumerated() {
		if !t.IsVector() {
			continue
		}
		errs = appendErr(errs, CheckFixedPoint(e, t))
		errs = appendErr(errs, CheckConvergence(e, t, convergenceBudget))
		errs = appendErr(errs, CheckLaneConservation(e, t))
	}
	return errs
}

func checkExtendedIntegers(e *legalize.Engine, maxBits uint32) []error {
	var errs []error
	for bits := uint32(1); bits <= maxBits; bits++ {
		errs = appendErr(errs, CheckConvergence(e, vt.MakeInt(int(bits)), convergenceBudget))
	}
	return errs
}

func checkExtendedVectors(e *legalize.Engine, maxLanes uint32) []error {
	elems := make([]vt.Type, 0, 12)
	elems = append(elems, vt.IntScalars()...)
	elems = append(elems, vt.FloatScalars()...)

	var errs []error
	for _, elem := range elems {
		for lanes := uint32(1); lanes <= maxLanes; lanes++ {
			t := vt.MakeVector(elem, int(lanes))
			errs = appendErr(errs, CheckConvergence(e, t, convergenceBudget))
			errs = appendErr(errs, CheckLaneConservation(e, t))
		}
	}
	return errs
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		errs = append(errs, err)
	}
	return errs
}
