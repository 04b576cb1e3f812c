package pcm

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// fullScale maps int16 samples onto [-1, 1).
const fullScale = 32768.0

// Resample converts samples from inputRate to outputRate with the
// resampler's medium-quality polyphase filter, for delivery at a rate other
// than the one a pipeline was rendered at.
func Resample(samples []int16, inputRate, outputRate int) ([]int16, error) {
	if inputRate <= 0 || outputRate <= 0 {
		return nil, fmt.Errorf("invalid rates: %d -> %d", inputRate, outputRate)
	}
	if inputRate == outputRate || len(samples) == 0 {
		return samples, nil
	}

	out, err := resampling.ResampleMono(toFloat(samples), float64(inputRate), float64(outputRate), resampling.QualityMedium)
	if err != nil {
		return nil, fmt.Errorf("resample %d -> %d Hz: %w", inputRate, outputRate, err)
	}
	return fromFloat(out), nil
}

func toFloat(samples []int16) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s) / fullScale
	}
	return out
}

// fromFloat rounds back to int16, saturating filter overshoot at the rails.
func fromFloat(values []float64) []int16 {
	out := make([]int16, len(values))
	for i, v := range values {
		out[i] = int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(v*fullScale))))
	}
	return out
}
