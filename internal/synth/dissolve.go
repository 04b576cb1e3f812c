package synth

import (
	"fmt"
	"math"
)

// DissolveParams tunes the dissolve recipe: an attack/decay shaped noise body
// through a closing low-pass, over a short decaying sub-bass thump.
type DissolveParams struct {
	AttackSec     float64 // linear ramp length
	DecayExponent float64 // power of the release curve

	PinkMix  float64 // pink share of the noise body
	WhiteMix float64 // white share of the noise body

	CutoffStart float64 // low-pass coefficient at progress 0
	CutoffSweep float64 // fraction of CutoffStart removed by progress 1
	BodyGain    float64 // low-passed body level in the mix

	BoomFreqHz float64
	BoomSec    float64 // boom is silent from here on
	BoomAmp    float64
	BoomGain   float64 // boom level in the mix

	Gain      float64 // float to sample scale
	ClipLimit float64
}

// DefaultDissolveParams returns the stock dissolve recipe.
func DefaultDissolveParams() DissolveParams {
	return DissolveParams{
		AttackSec:     0.1,
		DecayExponent: 4,
		PinkMix:       0.7,
		WhiteMix:      0.3,
		CutoffStart:   0.8,
		CutoffSweep:   0.8,
		BodyGain:      0.8,
		BoomFreqHz:    50,
		BoomSec:       0.5,
		BoomAmp:       2.0,
		BoomGain:      0.4,
		Gain:          25000,
		ClipLimit:     32700,
	}
}

// Validate checks p against the format it will be rendered with.
func (p DissolveParams) Validate(f Format) error {
	switch {
	case p.AttackSec < 0 || p.AttackSec >= f.DurationSec:
		return fmt.Errorf("%w: attack %vs must be in [0, %v)", ErrInvalidParams, p.AttackSec, f.DurationSec)
	case p.DecayExponent <= 0:
		return fmt.Errorf("%w: decay exponent must be positive, got %v", ErrInvalidParams, p.DecayExponent)
	case p.CutoffStart <= 0 || p.CutoffStart > 1:
		return fmt.Errorf("%w: cutoff start must be in (0, 1], got %v", ErrInvalidParams, p.CutoffStart)
	case p.CutoffSweep < 0 || p.CutoffSweep > 1:
		return fmt.Errorf("%w: cutoff sweep must be in [0, 1], got %v", ErrInvalidParams, p.CutoffSweep)
	case p.BoomSec < 0:
		return fmt.Errorf("%w: boom length must not be negative, got %v", ErrInvalidParams, p.BoomSec)
	case p.PinkMix < 0 || p.WhiteMix < 0 || p.BodyGain < 0 || p.BoomGain < 0 || p.Gain < 0:
		return fmt.Errorf("%w: mix levels and gain must not be negative", ErrInvalidParams)
	case p.ClipLimit <= 0 || p.ClipLimit > MaxLimit:
		return fmt.Errorf("%w: clip limit must be in (0, %d], got %v", ErrInvalidParams, MaxLimit, p.ClipLimit)
	}
	return nil
}

// Envelope returns the amplitude multiplier at time t: a linear ramp to 1
// over attack, then (1 - decayProgress)^exponent down to 0 at duration.
func Envelope(t, attack, duration, exponent float64) float64 {
	if t < attack {
		return t / attack
	}
	decay := (t - attack) / (duration - attack)
	return math.Pow(math.Max(0, 1-decay), exponent)
}

// Cutoff returns the low-pass coefficient at progress in [0, 1]. It falls
// linearly from start to start*(1-sweep).
func Cutoff(progress, start, sweep float64) float64 {
	return start * (1 - progress*sweep)
}

// LowPass is a one-pole IIR low-pass whose coefficient may change per sample.
type LowPass struct {
	value float64
}

// Process moves the filter output toward in by cutoff and returns it.
func (l *LowPass) Process(in, cutoff float64) float64 {
	l.value += cutoff * (in - l.value)
	return l.value
}

// SubBass returns a sine at freq fading linearly to zero over length
// seconds, scaled by amp. It is zero for t >= length.
func SubBass(t, freq, length, amp float64) float64 {
	if t >= length {
		return 0
	}
	return math.Sin(2*math.Pi*freq*t) * (1 - t/length) * amp
}

// Dissolve is the transient "burn away" pipeline.
type Dissolve struct {
	format Format
	params DissolveParams
}

// NewDissolve validates f and p and binds them into a pipeline.
func NewDissolve(f Format, p DissolveParams) (*Dissolve, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(f); err != nil {
		return nil, err
	}
	return &Dissolve{format: f, params: p}, nil
}

func (d *Dissolve) Name() string   { return "dissolve" }
func (d *Dissolve) Format() Format { return d.format }

// Render runs the recipe over the whole format with fresh filter state.
func (d *Dissolve) Render(src Source) []int16 {
	v := &dissolveVoice{format: d.format, params: d.params, src: src}
	return render(d.format, v, d.params.ClipLimit)
}

type dissolveVoice struct {
	format Format
	params DissolveParams
	src    Source

	pink PinkFilter
	lp   LowPass
}

func (v *dissolveVoice) sample(n int) float64 {
	p := &v.params
	t := v.format.Time(n)

	white := White(v.src)
	body := v.pink.Next(white)*p.PinkMix + white*p.WhiteMix

	amp := Envelope(t, p.AttackSec, v.format.DurationSec, p.DecayExponent)
	lp := v.lp.Process(body, Cutoff(v.format.Progress(n), p.CutoffStart, p.CutoffSweep))
	boom := SubBass(t, p.BoomFreqHz, p.BoomSec, p.BoomAmp)

	return (lp*p.BodyGain + boom*p.BoomGain) * amp * p.Gain
}
