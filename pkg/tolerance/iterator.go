// Package tolerance generates alternate anchor offsets around a preferred
// label position.
//
// An [Iterator] yields 0 first and then alternates around it with growing
// magnitude: -f(1), +f(1), -f(2), +f(2), ... It stops as soon as a magnitude
// exceeds the tolerance. A hard cap of [MaxValues] values bounds the search
// for pathological spacing and tolerance settings.
package tolerance

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// MaxValues is the maximum number of offsets an iterator produces before
// giving up.
const MaxValues = 255

// Func maps a step number (1, 2, ...) and the tolerance to an offset
// magnitude. It must grow with step.
type Func func(step, tolerance float64) float64

// Exponential is the default growth function: 1.3^s * s / (4t) + s.
func Exponential(step, tolerance float64) float64 {
	return math.Pow(1.3, step)*step/(4*tolerance) + step
}

// Iterator is a lazy, resettable sequence of signed offsets.
type Iterator struct {
	tolerance float64
	spacing   float64
	fn        Func
	logger    *log.Logger

	step        float64
	value       float64
	initialized bool
	tried       int
	capHit      bool
}

// Option configures an Iterator.
type Option func(*Iterator)

// WithLogger sets the logger receiving the cap warning.
func WithLogger(l *log.Logger) Option {
	return func(it *Iterator) {
		if l != nil {
			it.logger = l
		}
	}
}

// WithSpacing records the anchor spacing the offsets are searched around.
// It is reported with the cap warning.
func WithSpacing(spacing float64) Option {
	return func(it *Iterator) { it.spacing = spacing }
}

// New creates an iterator bounded by tolerance. A nil fn selects
// [Exponential].
func New(tolerance float64, fn Func, opts ...Option) *Iterator {
	if fn == nil {
		fn = Exponential
	}
	it := &Iterator{
		tolerance: tolerance,
		fn:        fn,
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		step:      1,
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Tolerance returns the bound the iterator was created with.
func (it *Iterator) Tolerance() float64 { return it.tolerance }

// Next advances to the next offset and reports whether one is available.
func (it *Iterator) Next() bool {
	it.tried++
	if it.tried > MaxValues {
		if !it.capHit {
			it.capHit = true
			it.logger.Warn("tried a huge number of placements, check position tolerance and spacing",
				"tolerance", it.tolerance, "spacing", it.spacing, "values", MaxValues)
		}
		return false
	}
	if !it.initialized {
		it.initialized = true
		return true
	}
	if it.value == 0 {
		it.value = it.fn(it.step, it.tolerance)
		return it.value <= it.tolerance
	}
	it.value = -it.value
	if it.value > 0 {
		it.step++
		it.value = it.fn(it.step, it.tolerance)
	}
	return it.value <= it.tolerance
}

// Value returns the current offset. It is only meaningful after Next
// returned true.
func (it *Iterator) Value() float64 { return -it.value }

// Tried returns how many times Next was called since the last reset.
func (it *Iterator) Tried() int { return it.tried }

// CapHit reports whether the iterator stopped at [MaxValues] since the last
// reset.
func (it *Iterator) CapHit() bool { return it.capHit }

// Reset restarts the sequence at 0.
func (it *Iterator) Reset() {
	it.step = 1
	it.value = 0
	it.initialized = false
	it.tried = 0
	it.capHit = false
}
