// Package memprobe measures the heap allocation cost of a single
// function call. It snapshots the per-site heap profile immediately
// before and after the call, diffs in-use bytes per allocation site and
// sums only the sites that grew.
//
// Summing positive deltas only is a deliberate bias: the result is the
// allocation cost attributable to the call, not its net retained
// footprint. Sites that shrank during the call (transient frees of
// unrelated prior allocations) are ignored rather than subtracted, so
// heavy churn can overstate the true retained footprint. Switching to
// net-delta accounting would change measured outcomes and is not done.
package memprobe

import (
	"fmt"
	"runtime"
)

const bytesPerMB = 1 << 20

// Sample is one measurement of net positive heap growth attributable to
// a single operation, in megabytes.
type Sample struct {
	DataLength int
	DeltaMB    float64
}

// SetFullSampling makes the runtime record every allocation in the heap
// profile. Must run before any allocation the harness wants attributed,
// so call it first thing in main.
func SetFullSampling() {
	runtime.MemProfileRate = 1
}

// snapshot maps an allocation site (its call stack) to in-use bytes.
type snapshot map[[32]uintptr]int64

// takeSnapshot reads the current heap profile. The runtime only
// publishes profile records at GC, so a forced cycle is part of
// acquiring the snapshot — not setup around the measured call.
func takeSnapshot() snapshot {
	runtime.GC()

	n, _ := runtime.MemProfile(nil, true)

	var (
		records []runtime.MemProfileRecord
		ok      bool
	)

	// The profile can grow between the sizing call and the read.
	for {
		records = make([]runtime.MemProfileRecord, n+64)

		n, ok = runtime.MemProfile(records, true)
		if ok {
			records = records[:n]

			break
		}
	}

	snap := make(snapshot, len(records))
	for i := range records {
		snap[records[i].Stack0] += records[i].InUseBytes()
	}

	return snap
}

// Measure invokes op synchronously and returns the net positive
// allocation delta it caused, tagged with dataLength. Nothing but op
// executes between the two snapshots. Returns a zero-delta sample when
// no allocation site grew.
func Measure(dataLength int, op func() error) (Sample, error) {
	before := takeSnapshot()

	if err := op(); err != nil {
		return Sample{}, fmt.Errorf("measured operation: %w", err)
	}

	after := takeSnapshot()

	var growth int64

	for site, inUse := range after {
		if d := inUse - before[site]; d > 0 {
			growth += d
		}
	}

	return Sample{
		DataLength: dataLength,
		DeltaMB:    float64(growth) / bytesPerMB,
	}, nil
}
