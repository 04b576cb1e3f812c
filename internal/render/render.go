// Package render turns a config into rendered WAV files.
package render

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/Danondso/furnace/internal/config"
	"github.com/Danondso/furnace/internal/pcm"
	"github.com/Danondso/furnace/internal/report"
	"github.com/Danondso/furnace/internal/synth"
)

// clockSeed picks a seed when the config leaves it at zero.
var clockSeed = func() uint64 {
	return uint64(time.Now().UnixNano())
}

// Job is one pipeline bound to its output path and seed.
type Job struct {
	Pipeline synth.Pipeline
	Path     string
	Seed     uint64
}

// Result describes a file written by Run.
type Result struct {
	Path       string
	Samples    int
	SampleRate int
	Seed       uint64
}

// Jobs builds the jobs for the named pipelines, or for every enabled one
// when names is empty. The whole config is validated before any job is
// returned, so a bad section fails the whole batch up front.
func Jobs(cfg *config.Config, names []string) ([]Job, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		if cfg.Dissolve.Enabled {
			names = append(names, "dissolve")
		}
		if cfg.Fire.Enabled {
			names = append(names, "fire")
		}
	}

	jobs := make([]Job, 0, len(names))
	for _, name := range names {
		var (
			p    synth.Pipeline
			file string
			seed uint64
			err  error
		)
		switch name {
		case "dissolve":
			p, err = cfg.Dissolve.Pipeline()
			file, seed = cfg.Dissolve.File, cfg.Dissolve.Seed
		case "fire":
			p, err = cfg.Fire.Pipeline()
			file, seed = cfg.Fire.File, cfg.Fire.Seed
		default:
			return nil, fmt.Errorf("unknown pipeline %q (want dissolve or fire)", name)
		}
		// Validate skips disabled sections; these can still be named.
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", config.ErrInvalid, name, err)
		}
		if file == "" {
			return nil, fmt.Errorf("%w: %s: file must not be empty", config.ErrInvalid, name)
		}
		if seed == 0 {
			seed = clockSeed()
		}
		jobs = append(jobs, Job{Pipeline: p, Path: outputPath(cfg.Output.Dir, file), Seed: seed})
	}
	return jobs, nil
}

func outputPath(dir, file string) string {
	if filepath.IsAbs(file) || dir == "" {
		return file
	}
	return filepath.Join(dir, file)
}

// Runner renders jobs and writes them to disk.
type Runner struct {
	DeliveryRate int // 0 keeps the synthesis rate
	Printer      *report.Printer
	Logger       *log.Logger
}

// Run renders a single job. The buffer is only handed to the sink once
// synthesis has finished.
func (r *Runner) Run(job Job) (Result, error) {
	f := job.Pipeline.Format()
	if r.Printer != nil {
		r.Printer.Generating(job.Pipeline.Name(), f.DurationSec, job.Path)
	}
	start := time.Now()

	samples := job.Pipeline.Render(synth.NewSource(job.Seed))
	r.logf("%s: rendered %d samples at %d Hz in %s (seed %d)", job.Pipeline.Name(), len(samples), f.SampleRate, time.Since(start), job.Seed)

	rate := f.SampleRate
	if r.DeliveryRate > 0 && r.DeliveryRate != rate {
		resampled, err := pcm.Resample(samples, rate, r.DeliveryRate)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", job.Pipeline.Name(), err)
		}
		r.logf("%s: resampled %d Hz -> %d Hz (%d samples)", job.Pipeline.Name(), rate, r.DeliveryRate, len(resampled))
		samples, rate = resampled, r.DeliveryRate
	}

	if err := pcm.WriteFile(job.Path, samples, rate); err != nil {
		return Result{}, fmt.Errorf("%s: write %s: %w", job.Pipeline.Name(), job.Path, err)
	}

	res := Result{Path: job.Path, Samples: len(samples), SampleRate: rate, Seed: job.Seed}
	if r.Printer != nil {
		r.Printer.Done(job.Pipeline.Name(), res.Samples, res.SampleRate, res.Seed, time.Since(start))
	}
	return res, nil
}

// All builds and runs the jobs for cfg. A failing job does not stop the
// others; all failures are joined into the returned error.
func All(cfg *config.Config, names []string, r *Runner) ([]Result, error) {
	jobs, err := Jobs(cfg, names)
	if err != nil {
		if r.Printer != nil {
			r.Printer.Failed("config", err)
		}
		return nil, err
	}

	var (
		results []Result
		errs    []error
	)
	for _, job := range jobs {
		res, err := r.Run(job)
		if err != nil {
			if r.Printer != nil {
				r.Printer.Failed(job.Pipeline.Name(), err)
			}
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}
