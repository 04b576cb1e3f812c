package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Danondso/furnace/internal/synth"
)

// ErrInvalid wraps every validation failure reported by Config.Validate.
var ErrInvalid = errors.New("invalid config")

// OutputConfig holds settings shared by every rendered file.
type OutputConfig struct {
	Dir                string `toml:"dir"`
	DeliverySampleRate int    `toml:"delivery_sample_rate"` // 0 keeps the synthesis rate
}

// DissolveConfig holds the dissolve pipeline settings.
type DissolveConfig struct {
	Enabled     bool    `toml:"enabled"`
	File        string  `toml:"file"`
	DurationSec float64 `toml:"duration_sec"`
	SampleRate  int     `toml:"sample_rate"`
	Seed        uint64  `toml:"seed"`

	AttackSec     float64 `toml:"attack_sec"`
	DecayExponent float64 `toml:"decay_exponent"`
	PinkMix       float64 `toml:"pink_mix"`
	WhiteMix      float64 `toml:"white_mix"`
	CutoffStart   float64 `toml:"cutoff_start"`
	CutoffSweep   float64 `toml:"cutoff_sweep"`
	BodyGain      float64 `toml:"body_gain"`
	BoomFreqHz    float64 `toml:"boom_freq_hz"`
	BoomSec       float64 `toml:"boom_sec"`
	BoomAmp       float64 `toml:"boom_amp"`
	BoomGain      float64 `toml:"boom_gain"`
	Gain          float64 `toml:"gain"`
	ClipLimit     float64 `toml:"clip_limit"`
}

// FireConfig holds the fire pipeline settings.
type FireConfig struct {
	Enabled     bool    `toml:"enabled"`
	File        string  `toml:"file"`
	DurationSec float64 `toml:"duration_sec"`
	SampleRate  int     `toml:"sample_rate"`
	Seed        uint64  `toml:"seed"`

	RumbleStep         float64 `toml:"rumble_step"`
	RumbleDamping      float64 `toml:"rumble_damping"`
	CrackleProbability float64 `toml:"crackle_probability"`
	CrackleMin         float64 `toml:"crackle_min"`
	CrackleMax         float64 `toml:"crackle_max"`
	ClipLimit          float64 `toml:"clip_limit"`
}

// Config is the top-level configuration.
type Config struct {
	Theme    string         `toml:"theme"`
	Output   OutputConfig   `toml:"output"`
	Dissolve DissolveConfig `toml:"dissolve"`
	Fire     FireConfig     `toml:"fire"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	dp := synth.DefaultDissolveParams()
	fp := synth.DefaultFireParams()
	return &Config{
		Theme: "ember",
		Output: OutputConfig{
			Dir:                ".",
			DeliverySampleRate: 0,
		},
		Dissolve: DissolveConfig{
			Enabled:       true,
			File:          "dissolve.wav",
			DurationSec:   6,
			SampleRate:    44100,
			AttackSec:     dp.AttackSec,
			DecayExponent: dp.DecayExponent,
			PinkMix:       dp.PinkMix,
			WhiteMix:      dp.WhiteMix,
			CutoffStart:   dp.CutoffStart,
			CutoffSweep:   dp.CutoffSweep,
			BodyGain:      dp.BodyGain,
			BoomFreqHz:    dp.BoomFreqHz,
			BoomSec:       dp.BoomSec,
			BoomAmp:       dp.BoomAmp,
			BoomGain:      dp.BoomGain,
			Gain:          dp.Gain,
			ClipLimit:     dp.ClipLimit,
		},
		Fire: FireConfig{
			Enabled:            true,
			File:               "fire_burning.wav",
			DurationSec:        10,
			SampleRate:         44100,
			RumbleStep:         fp.RumbleStep,
			RumbleDamping:      fp.RumbleDamping,
			CrackleProbability: fp.CrackleProbability,
			CrackleMin:         fp.CrackleMin,
			CrackleMax:         fp.CrackleMax,
			ClipLimit:          fp.ClipLimit,
		},
	}
}

// Format returns the render format of the dissolve section.
func (d DissolveConfig) Format() synth.Format {
	return synth.Format{SampleRate: d.SampleRate, DurationSec: d.DurationSec}
}

// Params returns the dissolve recipe described by the section.
func (d DissolveConfig) Params() synth.DissolveParams {
	return synth.DissolveParams{
		AttackSec:     d.AttackSec,
		DecayExponent: d.DecayExponent,
		PinkMix:       d.PinkMix,
		WhiteMix:      d.WhiteMix,
		CutoffStart:   d.CutoffStart,
		CutoffSweep:   d.CutoffSweep,
		BodyGain:      d.BodyGain,
		BoomFreqHz:    d.BoomFreqHz,
		BoomSec:       d.BoomSec,
		BoomAmp:       d.BoomAmp,
		BoomGain:      d.BoomGain,
		Gain:          d.Gain,
		ClipLimit:     d.ClipLimit,
	}
}

// Pipeline builds the dissolve pipeline, validating format and params.
func (d DissolveConfig) Pipeline() (*synth.Dissolve, error) {
	return synth.NewDissolve(d.Format(), d.Params())
}

// Format returns the render format of the fire section.
func (f FireConfig) Format() synth.Format {
	return synth.Format{SampleRate: f.SampleRate, DurationSec: f.DurationSec}
}

// Params returns the fire recipe described by the section.
func (f FireConfig) Params() synth.FireParams {
	return synth.FireParams{
		RumbleStep:         f.RumbleStep,
		RumbleDamping:      f.RumbleDamping,
		CrackleProbability: f.CrackleProbability,
		CrackleMin:         f.CrackleMin,
		CrackleMax:         f.CrackleMax,
		ClipLimit:          f.ClipLimit,
	}
}

// Pipeline builds the fire pipeline, validating format and params.
func (f FireConfig) Pipeline() (*synth.Fire, error) {
	return synth.NewFire(f.Format(), f.Params())
}

// Validate checks every enabled section without rendering anything.
func (c *Config) Validate() error {
	if c.Output.DeliverySampleRate < 0 {
		return fmt.Errorf("%w: output: delivery_sample_rate must not be negative", ErrInvalid)
	}
	if c.Dissolve.Enabled {
		if c.Dissolve.File == "" {
			return fmt.Errorf("%w: dissolve: file must not be empty", ErrInvalid)
		}
		if _, err := c.Dissolve.Pipeline(); err != nil {
			return fmt.Errorf("%w: dissolve: %w", ErrInvalid, err)
		}
	}
	if c.Fire.Enabled {
		if c.Fire.File == "" {
			return fmt.Errorf("%w: fire: file must not be empty", ErrInvalid)
		}
		if _, err := c.Fire.Pipeline(); err != nil {
			return fmt.Errorf("%w: fire: %w", ErrInvalid, err)
		}
	}
	return nil
}

// DefaultPath returns the default config file path (~/.config/furnace/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "furnace", "config.toml")
}

// Save writes the config as TOML to the given path, creating parent
// directories if needed. The write is atomic: data is written to a
// temporary file and renamed into place so a crash mid-write cannot
// corrupt the existing config.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".furnace-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML config from path. If the file does not exist,
// it returns the default config without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
