package synth

import "fmt"

// FireParams tunes the fire recipe: a brown-noise rumble with sparse crackles.
type FireParams struct {
	RumbleStep    float64
	RumbleDamping float64

	CrackleProbability float64 // per-sample chance of a burst
	CrackleMin         float64
	CrackleMax         float64

	ClipLimit float64
}

// DefaultFireParams returns the stock fire recipe. At 44.1 kHz the crackle
// probability gives roughly 22 bursts per second.
func DefaultFireParams() FireParams {
	return FireParams{
		RumbleStep:         500,
		RumbleDamping:      0.95,
		CrackleProbability: 0.0005,
		CrackleMin:         5000,
		CrackleMax:         15000,
		ClipLimit:          MaxLimit,
	}
}

// Validate checks that p describes a bounded walk and a usable crackle range.
func (p FireParams) Validate() error {
	switch {
	case p.RumbleStep < 0:
		return fmt.Errorf("%w: rumble step must not be negative, got %v", ErrInvalidParams, p.RumbleStep)
	case p.RumbleDamping < 0 || p.RumbleDamping >= 1:
		return fmt.Errorf("%w: rumble damping must be in [0, 1), got %v", ErrInvalidParams, p.RumbleDamping)
	case p.CrackleProbability < 0 || p.CrackleProbability > 1:
		return fmt.Errorf("%w: crackle probability must be in [0, 1], got %v", ErrInvalidParams, p.CrackleProbability)
	case p.CrackleMin < 0 || p.CrackleMin > p.CrackleMax:
		return fmt.Errorf("%w: crackle range [%v, %v] is invalid", ErrInvalidParams, p.CrackleMin, p.CrackleMax)
	case p.ClipLimit <= 0 || p.ClipLimit > MaxLimit:
		return fmt.Errorf("%w: clip limit must be in (0, %d], got %v", ErrInvalidParams, MaxLimit, p.ClipLimit)
	}
	return nil
}

// Crackle injects single-sample bursts as independent Bernoulli trials.
type Crackle struct {
	Probability float64
	Min         float64
	Max         float64
}

// Next returns 0, or with Probability a burst of magnitude in [Min, Max)
// with an equally likely sign.
func (c Crackle) Next(src Source) float64 {
	if src.Float64() >= c.Probability {
		return 0
	}
	mag := uniform(src, c.Min, c.Max)
	if src.Float64() > 0.5 {
		return mag
	}
	return -mag
}

// Fire is the sustained crackling-fire pipeline.
type Fire struct {
	format Format
	params FireParams
}

// NewFire validates f and p and binds them into a pipeline.
func NewFire(f Format, p FireParams) (*Fire, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Fire{format: f, params: p}, nil
}

func (f *Fire) Name() string   { return "fire" }
func (f *Fire) Format() Format { return f.format }

// Render runs the recipe over the whole format with a fresh walk.
func (f *Fire) Render(src Source) []int16 {
	v := &fireVoice{
		src:     src,
		rumble:  NewBrownWalk(f.params.RumbleStep, f.params.RumbleDamping),
		crackle: Crackle{Probability: f.params.CrackleProbability, Min: f.params.CrackleMin, Max: f.params.CrackleMax},
	}
	return render(f.format, v, f.params.ClipLimit)
}

type fireVoice struct {
	src     Source
	rumble  *BrownWalk
	crackle Crackle
}

// Bursts are added to the output only; the walk keeps its pre-burst value.
func (v *fireVoice) sample(int) float64 {
	rumble := v.rumble.Next(White(v.src))
	return rumble + v.crackle.Next(v.src)
}
