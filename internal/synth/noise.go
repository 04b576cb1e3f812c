package synth

// PinkFilter shapes white noise toward a -3 dB/octave slope with a fixed
// cascade of one-pole filters. The zero value is ready to use.
type PinkFilter struct {
	b [7]float64
}

// Next feeds one white sample through the cascade and returns the pink
// sample. b[6] is updated but never summed into the output.
func (p *PinkFilter) Next(white float64) float64 {
	b := &p.b
	b[0] = 0.99886*b[0] + white*0.0555179
	b[1] = 0.99332*b[1] + white*0.0750759
	b[2] = 0.96900*b[2] + white*0.1538520
	b[3] = 0.86650*b[3] + white*0.3104856
	b[4] = 0.55000*b[4] + white*0.5329522
	b[5] = -0.7616*b[5] - white*0.0168980
	pink := b[0] + b[1] + b[2] + b[3] + b[4] + b[5] + white*0.5362
	b[6] = white * 0.115926
	return pink
}

// BrownWalk is a leaky integrator over white noise: each step adds
// white*Step to the accumulator and then scales it by Damping.
type BrownWalk struct {
	Step    float64
	Damping float64

	value float64
}

// NewBrownWalk returns a walk starting at zero.
func NewBrownWalk(step, damping float64) *BrownWalk {
	return &BrownWalk{Step: step, Damping: damping}
}

// Next advances the walk by one white sample and returns the new value.
func (w *BrownWalk) Next(white float64) float64 {
	w.value = (w.value + white*w.Step) * w.Damping
	return w.value
}

// Value returns the current accumulator.
func (w *BrownWalk) Value() float64 {
	return w.value
}
