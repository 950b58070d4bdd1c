// Package app coordinates gapseq runs. It loads the configuration, builds
// the logger, metrics, pipeline and script runner from it, and moves text
// from the input through them to the output, once or on every change of
// the watched files.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/dshills/gapseq/internal/config"
	"github.com/dshills/gapseq/internal/logging"
	"github.com/dshills/gapseq/internal/metrics"
	"github.com/dshills/gapseq/internal/pipeline"
	"github.com/dshills/gapseq/internal/script"
	"github.com/dshills/gapseq/internal/seq"
	"github.com/dshills/gapseq/internal/seq/pool"
	"github.com/dshills/gapseq/internal/text"
	"github.com/dshills/gapseq/internal/watch"
)

// StdStream as an input or output path means stdin or stdout.
const StdStream = "-"

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses defaults and the
	// environment only.
	ConfigPath string

	// ScriptPath is a Lua script run after the pipeline. It overrides the
	// pipeline.script setting.
	ScriptPath string

	// InputPath is the text to transform. Empty or "-" reads Stdin.
	InputPath string

	// OutputPath receives the result. Empty or "-" writes Stdout.
	OutputPath string

	// LogLevel overrides the logging.level setting.
	LogLevel string

	// Stdin, Stdout and Stderr default to the process streams. Logs and
	// script print output go to Stderr.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Environ replaces the process environment for GAPSEQ_* settings.
	Environ []string
}

// Application holds the components built from one configuration.
type Application struct {
	mu sync.Mutex

	cfg      *config.Config
	pipeline *pipeline.Pipeline
	runner   *script.Runner

	logger  *logging.Logger
	metrics *metrics.Registry
	runID   string
	runs    atomic.Int64

	opts Options
}

// New loads the configuration and builds the components it names.
func New(opts Options) (*Application, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	app := &Application{
		opts:    opts,
		metrics: metrics.NewRegistry(),
		runID:   uuid.NewString(),
	}

	cfg, level, err := app.loadConfig()
	if err != nil {
		return nil, err
	}

	app.logger = logging.New(logging.Config{
		Level:  level,
		Output: opts.Stderr,
		Prefix: "gapseq",
	}).WithField("run", app.runID)

	if err := app.configure(cfg); err != nil {
		return nil, err
	}
	return app, nil
}

// loadConfig reads the configuration and resolves the log level, letting
// Options.LogLevel win over the file and environment.
func (app *Application) loadConfig() (*config.Config, logging.Level, error) {
	var copts []config.Option
	if app.opts.Environ != nil {
		copts = append(copts, config.WithEnviron(app.opts.Environ))
	}

	cfg, err := config.Load(app.opts.ConfigPath, copts...)
	if err != nil {
		return nil, 0, &InitError{Component: "config", Err: err}
	}

	name := cfg.Logging.Level
	if app.opts.LogLevel != "" {
		name = app.opts.LogLevel
	}
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, 0, &InitError{Component: "logging", Err: err}
	}
	return cfg, level, nil
}

// configure swaps in the pipeline and script runner for cfg. Nothing is
// replaced unless every component builds.
func (app *Application) configure(cfg *config.Config) error {
	if cfg.Buffer.Language != "" {
		if _, err := language.Parse(cfg.Buffer.Language); err != nil {
			return &InitError{Component: "buffer", Err: err}
		}
	}

	p, err := pipeline.FromConfig(cfg.Pipeline,
		pipeline.WithLogger(app.logger),
		pipeline.WithMetrics(app.metrics),
	)
	if err != nil {
		return &InitError{Component: "pipeline", Err: err}
	}

	runner := script.NewRunner(
		script.WithLogger(app.logger),
		script.WithMetrics(app.metrics),
		script.WithOutput(app.opts.Stderr),
		script.WithSeed(p.Seed()),
	)

	if cfg.Buffer.Pooled {
		app.metrics.RegisterPool("runes", pool.Runes)
	}

	app.mu.Lock()
	app.cfg = cfg
	app.pipeline = p
	app.runner = runner
	app.mu.Unlock()

	app.logger.Debug("configured %d steps, seed %d", p.Len(), p.Seed())
	return nil
}

// Reload re-reads the configuration. On failure the previous components
// stay in place.
func (app *Application) Reload() error {
	cfg, level, err := app.loadConfig()
	if err != nil {
		return err
	}
	if err := app.configure(cfg); err != nil {
		return err
	}
	app.logger.SetLevel(level)
	app.logger.Info("configuration reloaded")
	return nil
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg
}

// Metrics returns the registry the run records into.
func (app *Application) Metrics() *metrics.Registry {
	return app.metrics
}

// RunID returns the identifier attached to every log line.
func (app *Application) RunID() string {
	return app.runID
}

// WriteStats writes the collected metrics in the Prometheus text format.
func (app *Application) WriteStats(w io.Writer) error {
	return app.metrics.WriteText(w)
}

// scriptPath returns the script to run, if any.
func (app *Application) scriptPath(cfg *config.Config) string {
	if app.opts.ScriptPath != "" {
		return app.opts.ScriptPath
	}
	return cfg.Pipeline.Script
}

// RunOnce reads the input, runs the pipeline and then the script, and
// writes the result. Nothing is written when a step fails.
func (app *Application) RunOnce(ctx context.Context) (err error) {
	app.mu.Lock()
	cfg, p, runner := app.cfg, app.pipeline, app.runner
	app.mu.Unlock()

	log := app.logger.WithField("pass", app.runs.Add(1))
	start := time.Now()
	defer func() {
		app.metrics.RecordRun(err)
	}()

	b, err := newBuilder(cfg.Buffer, app.onGrowth)
	if err != nil {
		return err
	}
	defer b.Release()

	if err := app.readInput(b); err != nil {
		return err
	}
	in := b.Len()

	if err := p.Run(ctx, b); err != nil {
		return err
	}
	if path := app.scriptPath(cfg); path != "" {
		if err := runner.RunFile(ctx, path, b); err != nil {
			return err
		}
	}

	if err := app.writeOutput(b); err != nil {
		return err
	}
	log.Debug("transformed %d -> %d runes in %s", in, b.Len(), time.Since(start))
	return nil
}

func (app *Application) onGrowth(e seq.GrowthEvent) {
	app.metrics.RecordGrowth(e)
	app.logger.Debug("buffer %s: cap %d -> %d (len %d, need %d)", e.Kind, e.OldCap, e.NewCap, e.Len, e.Need)
}

// newBuilder creates the builder for one run from the buffer settings.
func newBuilder(bc config.BufferConfig, hook func(seq.GrowthEvent)) (*text.Builder, error) {
	seqOpts := []seq.Option{
		seq.WithCapacity(bc.Capacity),
		seq.WithGrowthHook(hook),
	}
	if bc.MaxCapacity > 0 {
		seqOpts = append(seqOpts, seq.WithMaxCapacity(bc.MaxCapacity))
	}

	opts := []text.Option{text.WithSeqOptions(seqOpts...)}
	if bc.Language != "" {
		tag, err := language.Parse(bc.Language)
		if err != nil {
			return nil, err
		}
		opts = append(opts, text.WithLanguage(tag))
	}
	if bc.Pooled {
		opts = append(opts, text.WithPool(pool.Runes))
	}
	return text.New(opts...), nil
}

func isStd(path string) bool {
	return path == "" || path == StdStream
}

func (app *Application) readInput(b *text.Builder) error {
	path := app.opts.InputPath
	if isStd(path) {
		if _, err := b.ReadFrom(app.opts.Stdin); err != nil {
			return &OperationError{Op: "read", Target: "stdin", Err: err}
		}
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return &OperationError{Op: "read", Target: path, Err: err}
	}
	defer f.Close()

	if _, err := b.ReadFrom(f); err != nil {
		return &OperationError{Op: "read", Target: path, Err: err}
	}
	return nil
}

func (app *Application) writeOutput(b *text.Builder) error {
	path := app.opts.OutputPath
	if isStd(path) {
		if _, err := b.WriteTo(app.opts.Stdout); err != nil {
			return &OperationError{Op: "write", Target: "stdout", Err: err}
		}
		if isTerminal(app.opts.Stdout) {
			fmt.Fprintln(app.opts.Stdout)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return &OperationError{Op: "write", Target: path, Err: err}
	}
	if _, err := b.WriteTo(f); err != nil {
		f.Close()
		return &OperationError{Op: "write", Target: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &OperationError{Op: "write", Target: path, Err: err}
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal. Only terminal
// output gets a trailing newline; pipes and files get the text unchanged.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Watch runs once and then again whenever the input, config or script file
// changes, until ctx is done. A config change reloads the configuration
// first. Failed runs are logged and the watch continues.
func (app *Application) Watch(ctx context.Context) error {
	in := app.opts.InputPath
	if isStd(in) {
		return ErrWatchStdin
	}
	if out := app.opts.OutputPath; !isStd(out) && samePath(in, out) {
		return ErrOutputIsInput
	}

	cfg := app.Config()
	delay := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	w, err := watch.New(delay, watch.WithLogger(app.logger))
	if err != nil {
		return &InitError{Component: "watch", Err: err}
	}
	defer w.Close()

	paths := []string{in}
	if app.opts.ConfigPath != "" {
		paths = append(paths, app.opts.ConfigPath)
	}
	if s := app.scriptPath(cfg); s != "" {
		paths = append(paths, s)
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			return &OperationError{Op: "watch", Target: p, Err: err}
		}
	}

	if err := app.RunOnce(ctx); err != nil {
		app.logger.Error("run failed: %v", err)
	}
	app.logger.Info("watching %d files", len(w.Files()))

	return w.Loop(ctx, func(c watch.Change) error {
		return app.onChange(ctx, w, c)
	})
}

func (app *Application) onChange(ctx context.Context, w *watch.Watcher, c watch.Change) error {
	if app.opts.ConfigPath != "" && slices.Contains(c.Paths, absPath(app.opts.ConfigPath)) {
		if err := app.Reload(); err != nil {
			return err
		}
		// A reloaded config may name a new script.
		if s := app.scriptPath(app.Config()); s != "" {
			if err := w.Add(s); err != nil {
				app.logger.Warn("watch %s: %v", s, err)
			}
		}
	}
	return app.RunOnce(ctx)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func samePath(a, b string) bool {
	return absPath(a) == absPath(b)
}
