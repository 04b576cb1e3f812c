// Package inspect summarizes rendered WAV files without playing them.
package inspect

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep/wav"
)

// HotLevel is the full-scale fraction at or above which a frame counts as
// hot. Both pipeline clip limits (32700 and 32767) sit above it.
const HotLevel = 0.997

// beep scales 16-bit samples by 1/(2^16-1); this brings them back to a
// full scale of 32768.
const scale16 = (1<<16 - 1) / 32768.0

// Stats describes a decoded file.
type Stats struct {
	SampleRate int
	Channels   int
	Precision  int // bytes per sample
	Frames     int
	Duration   time.Duration
	Peak       float64 // max |sample|, full scale = 1
	RMS        float64
	Hot        int // frames at or above HotLevel
}

// File opens path and summarizes it.
func File(path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open %s: %w", path, err)
	}
	// The streamer closes f.
	st, err := Read(f)
	if err != nil {
		f.Close()
		return Stats{}, fmt.Errorf("inspect %s: %w", path, err)
	}
	return st, nil
}

// Read decodes a WAV stream and summarizes it. If r is an io.Closer it is
// closed once the stream has been read.
func Read(r io.Reader) (Stats, error) {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return Stats{}, fmt.Errorf("wav decode: %w", err)
	}
	defer streamer.Close()

	st := Stats{
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
		Precision:  format.Precision,
	}

	scale := 1.0
	if format.Precision == 2 {
		scale = scale16
	}

	var sum float64
	buf := make([][2]float64, 4096)
	for {
		n, ok := streamer.Stream(buf)
		for _, frame := range buf[:n] {
			s := frame[0] * scale
			v := math.Abs(s)
			if v > st.Peak {
				st.Peak = v
			}
			sum += s * s
			if v >= HotLevel {
				st.Hot++
			}
		}
		st.Frames += n
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return Stats{}, fmt.Errorf("wav stream: %w", err)
	}

	if st.Frames > 0 {
		st.RMS = math.Sqrt(sum / float64(st.Frames))
	}
	st.Duration = format.SampleRate.D(st.Frames)
	return st, nil
}
