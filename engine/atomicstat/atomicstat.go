// Package atomicstat accumulates per-step aggregate counters that are
// safe to write concurrently, without a mutex. Adapted
// from AtomicFloat64's CAS-retry discipline: many low-contention
// writers incrementing a handful of scalars don't need a lock, they
// need a correct retry loop.
package atomicstat

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// Counter is a float64 safe for concurrent Add from many goroutines.
type Counter struct {
	val float64
}

// NewCounter returns a Counter initialized to val.
func NewCounter(val float64) *Counter {
	return &Counter{val: val}
}

// Read atomically loads the counter's current value.
func (c *Counter) Read() float64 {
	bits := atomic.LoadUint64((*uint64)(unsafe.Pointer(&c.val)))
	return math.Float64frombits(bits)
}

// Add atomically adds addend, retrying under contention until the
// compare-and-swap succeeds, and returns the resulting value.
func (c *Counter) Add(addend float64) float64 {
	for {
		old := c.Read()
		newVal := old + addend
		if atomic.CompareAndSwapUint64(
			(*uint64)(unsafe.Pointer(&c.val)),
			math.Float64bits(old),
			math.Float64bits(newVal),
		) {
			return newVal
		}
	}
}

// Set atomically overwrites the counter's value.
func (c *Counter) Set(val float64) {
	atomic.StoreUint64((*uint64)(unsafe.Pointer(&c.val)), math.Float64bits(val))
}

// StepStats aggregates the counters a single Step() call reports:
// cells newly ignited (FOREST -> IGNITION) and cells consumed by fire
// this step (BURNING_OUT -> ASH).
type StepStats struct {
	Ignited  *Counter
	Consumed *Counter
}

// NewStepStats returns a zeroed StepStats for a single step. Engine.Step
// fills it in during its (sequential) commit phase.
func NewStepStats() *StepStats {
	return &StepStats{
		Ignited:  NewCounter(0),
		Consumed: NewCounter(0),
	}
}
