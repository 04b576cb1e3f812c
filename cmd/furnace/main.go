package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Danondso/furnace/internal/config"
	"github.com/Danondso/furnace/internal/inspect"
	"github.com/Danondso/furnace/internal/render"
	"github.com/Danondso/furnace/internal/report"
	"github.com/Danondso/furnace/internal/watch"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "init":
			os.Exit(handleInit(args[1:]))
		case "inspect":
			os.Exit(handleInspect(args[1:]))
		case "render":
			args = args[1:]
		}
	}
	os.Exit(run(args))
}

func newDebugLogger(debug bool) *log.Logger {
	if debug {
		return log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
	return log.New(io.Discard, "", 0)
}

func handleInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultPath(), "config file to create")
	force := fs.Bool("force", false, "overwrite an existing config")
	fs.Parse(args)

	if _, err := os.Stat(*cfgPath); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "%s already exists (use -force to overwrite)\n", *cfgPath)
		return 1
	}
	if err := config.Save(*cfgPath, config.Default()); err != nil {
		fmt.Fprintf(os.Stderr, "write config: %v\n", err)
		return 1
	}
	fmt.Printf("Wrote default config to %s\n", *cfgPath)
	return 0
}

func handleInspect(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	theme := fs.String("theme", "", "output theme (defaults to the config theme)")
	cfgPath := fs.String("config", config.DefaultPath(), "config file")
	fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: furnace inspect [-theme name] <file.wav> ...")
		return 2
	}

	name := *theme
	if name == "" {
		if cfg, err := config.Load(*cfgPath); err == nil {
			name = cfg.Theme
		}
	}
	printer := report.New(os.Stdout, report.LoadTheme(name))

	status := 0
	for _, path := range fs.Args() {
		st, err := inspect.File(path)
		if err != nil {
			printer.Failed(path, err)
			status = 1
			continue
		}
		printer.Stats(path, st)
	}
	return status
}

func run(args []string) int {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultPath(), "config file")
	outDir := fs.String("out", "", "output directory (overrides config)")
	seed := fs.Uint64("seed", 0, "seed for every rendered pipeline (0 uses the config)")
	debug := fs.Bool("debug", false, "enable debug logging to stderr")
	watchCfg := fs.Bool("watch", false, "re-render whenever the config file is saved")
	fs.Parse(args)
	names := fs.Args()

	dbg := newDebugLogger(*debug)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	dbg.Printf("config: %s", *cfgPath)

	applyOverrides := func(cfg *config.Config) {
		if *outDir != "" {
			cfg.Output.Dir = *outDir
		}
		if *seed != 0 {
			cfg.Dissolve.Seed = *seed
			cfg.Fire.Seed = *seed
		}
	}
	applyOverrides(cfg)

	printer := report.New(os.Stdout, report.LoadTheme(cfg.Theme))
	runner := &render.Runner{
		DeliveryRate: cfg.Output.DeliverySampleRate,
		Printer:      printer,
		Logger:       dbg,
	}

	_, renderErr := render.All(cfg, names, runner)
	if !*watchCfg {
		if renderErr != nil {
			return 1
		}
		return 0
	}

	w, err := watch.New(*cfgPath, dbg)
	if err != nil {
		log.Fatalf("create watcher: %v", err)
	}
	if err := w.Start(); err != nil {
		log.Fatalf("start watcher: %v", err)
	}
	defer w.Stop()
	fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n", *cfgPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return 0
		case ev, ok := <-w.Events():
			if !ok {
				return 0
			}
			if ev.Err != nil {
				printer.Failed(*cfgPath, ev.Err)
				continue
			}
			applyOverrides(ev.Config)
			printer = report.New(os.Stdout, report.LoadTheme(ev.Config.Theme))
			runner.Printer = printer
			runner.DeliveryRate = ev.Config.Output.DeliverySampleRate
			if _, err := render.All(ev.Config, names, runner); err != nil {
				dbg.Printf("render: %v", err)
			}
		}
	}
}
