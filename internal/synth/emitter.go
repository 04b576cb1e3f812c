package synth

import "math"

// MaxLimit is the largest clip limit that still fits a signed 16-bit sample.
const MaxLimit = math.MaxInt16

// Emitter clips float amplitudes to ±limit and appends them, truncated
// toward zero, to an ordered sample buffer.
type Emitter struct {
	limit float64
	buf   []int16
}

// NewEmitter creates an Emitter with room for capacity samples. limit is
// capped at MaxLimit.
func NewEmitter(capacity int, limit float64) *Emitter {
	return &Emitter{
		limit: math.Min(math.Abs(limit), MaxLimit),
		buf:   make([]int16, 0, capacity),
	}
}

// Emit clips v and appends it.
func (e *Emitter) Emit(v float64) {
	e.buf = append(e.buf, Clip(v, e.limit))
}

// Samples returns the emitted samples in playback order.
func (e *Emitter) Samples() []int16 {
	return e.buf
}

// Clip hard-limits v to [-limit, limit] and truncates it to an int16.
// NaN maps to silence.
func Clip(v, limit float64) int16 {
	if math.IsNaN(v) {
		return 0
	}
	if v > limit {
		v = limit
	} else if v < -limit {
		v = -limit
	}
	return int16(v)
}
