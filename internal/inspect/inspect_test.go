package inspect

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/Danondso/furnace/internal/pcm"
	"github.com/Danondso/furnace/internal/synth"
)

func TestReadStats(t *testing.T) {
	samples := make([]int16, 8000)
	samples[10] = 32700
	samples[20] = -32767
	samples[30] = 16384
	samples[40] = 32000

	data, err := pcm.EncodeWAV(samples, 8000)
	if err != nil {
		t.Fatal(err)
	}

	st, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.SampleRate != 8000 {
		t.Errorf("expected 8000 Hz, got %d", st.SampleRate)
	}
	if st.Channels != 1 {
		t.Errorf("expected 1 channel, got %d", st.Channels)
	}
	if st.Precision != 2 {
		t.Errorf("expected 2-byte precision, got %d", st.Precision)
	}
	if st.Frames != 8000 {
		t.Errorf("expected 8000 frames, got %d", st.Frames)
	}
	if st.Duration != time.Second {
		t.Errorf("expected 1s, got %v", st.Duration)
	}
	if math.Abs(st.Peak-1) > 1e-3 {
		t.Errorf("expected peak ~1, got %v", st.Peak)
	}
	if st.Hot != 2 {
		t.Errorf("expected 2 hot frames, got %d", st.Hot)
	}
	if st.RMS <= 0 || st.RMS >= st.Peak {
		t.Errorf("expected 0 < rms < peak, got %v", st.RMS)
	}
}

func TestReadFullScale(t *testing.T) {
	cases := []struct {
		sample int16
		peak   float64
	}{
		{-32768, 1},
		{32767, 32767.0 / 32768},
		{16384, 0.5},
	}
	for _, tc := range cases {
		samples := make([]int16, 100)
		samples[50] = tc.sample
		data, err := pcm.EncodeWAV(samples, 1000)
		if err != nil {
			t.Fatal(err)
		}
		st, err := Read(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", tc.sample, err)
		}
		if math.Abs(st.Peak-tc.peak) > 1e-6 {
			t.Errorf("sample %d: expected peak %v, got %v", tc.sample, tc.peak, st.Peak)
		}
		wantRMS := tc.peak / 10
		if math.Abs(st.RMS-wantRMS) > 1e-6 {
			t.Errorf("sample %d: expected rms %v, got %v", tc.sample, wantRMS, st.RMS)
		}
	}
}

func TestReadSilence(t *testing.T) {
	data, err := pcm.EncodeWAV(make([]int16, 100), 1000)
	if err != nil {
		t.Fatal(err)
	}
	st, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Peak != 0 || st.RMS != 0 || st.Hot != 0 {
		t.Errorf("expected silent stats, got %+v", st)
	}
}

func TestFileRenderedFire(t *testing.T) {
	fire, err := synth.NewFire(synth.Format{SampleRate: 22050, DurationSec: 0.5}, synth.DefaultFireParams())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "fire.wav")
	if err := pcm.WriteFile(path, fire.Render(synth.NewSource(8)), 22050); err != nil {
		t.Fatal(err)
	}

	st, err := File(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Frames != 11025 {
		t.Errorf("expected 11025 frames, got %d", st.Frames)
	}
	if st.Duration != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", st.Duration)
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File("/nonexistent/file.wav"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadGarbage(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("not a wav file at all, definitely not"))); err == nil {
		t.Error("expected error for non-WAV data")
	}
}
