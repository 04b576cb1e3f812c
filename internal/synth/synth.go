// Package synth renders short procedural sound effects from seeded noise.
//
// Every pipeline is a sequential fold over time steps: each step draws from
// an injected random source, advances the pipeline's private filter state and
// yields one float amplitude, which an Emitter clips and truncates to a
// signed 16-bit sample.
package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// Output layout shared by every pipeline.
const (
	Channels = 1
	BitDepth = 16
)

// MaxSamples is the longest render whose data chunk still fits the 32-bit
// RIFF size field (36 + 2n <= 2^32-1).
const MaxSamples = (math.MaxUint32 - 36) / 2

var (
	// ErrInvalidFormat is returned when a Format cannot produce any samples.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrInvalidParams is returned when pipeline tunables are out of range.
	ErrInvalidParams = errors.New("invalid params")
)

// Format fixes the sample rate and length of a render.
type Format struct {
	SampleRate  int
	DurationSec float64
}

// SampleCount returns floor(DurationSec * SampleRate).
func (f Format) SampleCount() int {
	return int(math.Floor(f.DurationSec * float64(f.SampleRate)))
}

// Validate reports whether the format describes at least one sample and no
// more than MaxSamples.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidFormat, f.SampleRate)
	}
	if math.IsNaN(f.DurationSec) || math.IsInf(f.DurationSec, 0) || f.DurationSec <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidFormat, f.DurationSec)
	}
	if f.DurationSec*float64(f.SampleRate) >= MaxSamples+1 {
		return fmt.Errorf("%w: %vs at %d Hz exceeds %d samples", ErrInvalidFormat, f.DurationSec, f.SampleRate, MaxSamples)
	}
	if f.SampleCount() < 1 {
		return fmt.Errorf("%w: %vs at %d Hz yields no samples", ErrInvalidFormat, f.DurationSec, f.SampleRate)
	}
	return nil
}

// Time returns the elapsed time in seconds at step n.
func (f Format) Time(n int) float64 {
	return float64(n) / float64(f.SampleRate)
}

// Progress returns n / SampleCount, in [0, 1) for every rendered step.
func (f Format) Progress(n int) float64 {
	return float64(n) / float64(f.SampleCount())
}

// Source supplies uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic PCG source for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// White draws a uniform white-noise value in [-1, 1).
func White(src Source) float64 {
	return 2*src.Float64() - 1
}

func uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// Pipeline is a complete sound recipe bound to a Format.
type Pipeline interface {
	Name() string
	Format() Format
	// Render produces exactly Format().SampleCount() samples. All filter
	// state lives for the duration of one call.
	Render(src Source) []int16
}

// voice yields the unclipped amplitude of step n. It must be called with n
// counting up from zero since each step depends on the state left by the
// previous one.
type voice interface {
	sample(n int) float64
}

func render(f Format, v voice, limit float64) []int16 {
	count := f.SampleCount()
	e := NewEmitter(count, limit)
	for n := 0; n < count; n++ {
		e.Emit(v.sample(n))
	}
	return e.Samples()
}
