package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Danondso/furnace/internal/synth"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Theme != "ember" {
		t.Errorf("expected theme ember, got %s", cfg.Theme)
	}
	if cfg.Output.DeliverySampleRate != 0 {
		t.Errorf("expected delivery rate 0, got %d", cfg.Output.DeliverySampleRate)
	}
	if !cfg.Dissolve.Enabled || !cfg.Fire.Enabled {
		t.Error("expected both pipelines enabled by default")
	}
	if cfg.Dissolve.File != "dissolve.wav" {
		t.Errorf("expected dissolve.wav, got %s", cfg.Dissolve.File)
	}
	if cfg.Dissolve.DurationSec != 6 {
		t.Errorf("expected dissolve duration 6, got %v", cfg.Dissolve.DurationSec)
	}
	if cfg.Dissolve.SampleRate != 44100 {
		t.Errorf("expected dissolve sample rate 44100, got %d", cfg.Dissolve.SampleRate)
	}
	if cfg.Dissolve.Params() != synth.DefaultDissolveParams() {
		t.Errorf("expected default dissolve params, got %+v", cfg.Dissolve.Params())
	}
	if cfg.Fire.File != "fire_burning.wav" {
		t.Errorf("expected fire_burning.wav, got %s", cfg.Fire.File)
	}
	if cfg.Fire.DurationSec != 10 {
		t.Errorf("expected fire duration 10, got %v", cfg.Fire.DurationSec)
	}
	if cfg.Fire.Params() != synth.DefaultFireParams() {
		t.Errorf("expected default fire params, got %+v", cfg.Fire.Params())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Fire.CrackleProbability != 0.0005 {
		t.Errorf("expected default crackle probability, got %v", cfg.Fire.CrackleProbability)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
theme = "ash"

[output]
dir = "/tmp/sfx"
delivery_sample_rate = 22050

[dissolve]
duration_sec = 3.5
sample_rate = 48000
seed = 12345
attack_sec = 0.05
decay_exponent = 2

[fire]
enabled = false
rumble_step = 250
crackle_probability = 0.001
crackle_min = 1000
crackle_max = 2000
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Theme != "ash" {
		t.Errorf("expected ash, got %s", cfg.Theme)
	}
	if cfg.Output.Dir != "/tmp/sfx" {
		t.Errorf("expected /tmp/sfx, got %s", cfg.Output.Dir)
	}
	if cfg.Output.DeliverySampleRate != 22050 {
		t.Errorf("expected 22050, got %d", cfg.Output.DeliverySampleRate)
	}
	if cfg.Dissolve.DurationSec != 3.5 {
		t.Errorf("expected 3.5, got %v", cfg.Dissolve.DurationSec)
	}
	if cfg.Dissolve.SampleRate != 48000 {
		t.Errorf("expected 48000, got %d", cfg.Dissolve.SampleRate)
	}
	if cfg.Dissolve.Seed != 12345 {
		t.Errorf("expected seed 12345, got %d", cfg.Dissolve.Seed)
	}
	if cfg.Dissolve.AttackSec != 0.05 {
		t.Errorf("expected attack 0.05, got %v", cfg.Dissolve.AttackSec)
	}
	if cfg.Dissolve.DecayExponent != 2 {
		t.Errorf("expected exponent 2, got %v", cfg.Dissolve.DecayExponent)
	}
	// Non-overridden values should remain defaults
	if cfg.Dissolve.BoomFreqHz != 50 {
		t.Errorf("expected default boom frequency 50, got %v", cfg.Dissolve.BoomFreqHz)
	}
	if cfg.Fire.Enabled {
		t.Error("expected fire disabled")
	}
	if cfg.Fire.RumbleStep != 250 {
		t.Errorf("expected 250, got %v", cfg.Fire.RumbleStep)
	}
	if cfg.Fire.RumbleDamping != 0.95 {
		t.Errorf("expected default damping 0.95, got %v", cfg.Fire.RumbleDamping)
	}
	if cfg.Fire.CrackleMin != 1000 || cfg.Fire.CrackleMax != 2000 {
		t.Errorf("expected crackle range [1000, 2000], got [%v, %v]", cfg.Fire.CrackleMin, cfg.Fire.CrackleMax)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[dissolve\nduration_sec = "), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Theme = "monochrome"
	cfg.Fire.DurationSec = 30
	cfg.Dissolve.Seed = 1 << 40

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}

	if loaded.Theme != "monochrome" {
		t.Errorf("expected theme monochrome, got %s", loaded.Theme)
	}
	if loaded.Fire.DurationSec != 30 {
		t.Errorf("expected fire duration 30, got %v", loaded.Fire.DurationSec)
	}
	if loaded.Dissolve.Seed != 1<<40 {
		t.Errorf("expected seed %d, got %d", uint64(1<<40), loaded.Dissolve.Seed)
	}
	if loaded.Dissolve.Params() != cfg.Dissolve.Params() {
		t.Errorf("dissolve params not preserved: %+v", loaded.Dissolve.Params())
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "config.toml")

	cfg := Default()
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed to create nested dirs: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist at %s: %v", path, err)
	}
}

func TestValidateRejectsBadSections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		cause  error
	}{
		{"zero duration", func(c *Config) { c.Dissolve.DurationSec = 0 }, synth.ErrInvalidFormat},
		{"negative rate", func(c *Config) { c.Fire.SampleRate = -1 }, synth.ErrInvalidFormat},
		{"crackle range", func(c *Config) { c.Fire.CrackleMin = 20000 }, synth.ErrInvalidParams},
		{"attack too long", func(c *Config) { c.Dissolve.AttackSec = 6 }, synth.ErrInvalidParams},
		{"empty file", func(c *Config) { c.Fire.File = "" }, nil},
		{"negative delivery", func(c *Config) { c.Output.DeliverySampleRate = -8000 }, nil},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		err := cfg.Validate()
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tc.name, err)
			continue
		}
		if tc.cause != nil && !errors.Is(err, tc.cause) {
			t.Errorf("%s: expected cause %v, got %v", tc.name, tc.cause, err)
		}
	}
}

func TestValidateSkipsDisabled(t *testing.T) {
	cfg := Default()
	cfg.Fire.Enabled = false
	cfg.Fire.DurationSec = -1
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected disabled section to be ignored, got %v", err)
	}
}
