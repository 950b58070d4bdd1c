package script

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/dshills/gapseq/internal/logging"
	"github.com/dshills/gapseq/internal/metrics"
	"github.com/dshills/gapseq/internal/seq"
	"github.com/dshills/gapseq/internal/text"
)

// BufferGlobal is the name scripts use for the text being transformed.
const BufferGlobal = "buf"

// Runner executes transformation scripts against a text builder. Every run
// gets a fresh interpreter, so scripts cannot leave globals behind.
type Runner struct {
	logger  *logging.Logger
	metrics *metrics.Registry
	timeout time.Duration
	output  io.Writer
	rng     seq.Rand
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for run output.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records script runs in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(r *Runner) {
		r.metrics = reg
	}
}

// WithTimeout bounds each run. Zero leaves only the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithOutput is where Lua print writes. The default is stderr.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.output = w
	}
}

// WithSeed seeds the source behind buf:shuffle(). Zero picks a random seed.
func WithSeed(seed uint64) Option {
	return func(r *Runner) {
		if seed == 0 {
			seed = rand.Uint64()
		}
		r.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger:  logging.NullLogger,
		timeout: DefaultTimeout,
		output:  os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		WithSeed(0)(r)
	}
	r.logger = r.logger.WithComponent("script")
	return r
}

// Run executes src with b bound to the buf global. name identifies the
// script in errors. Content changes made before a failure are kept.
func (r *Runner) Run(ctx context.Context, name, src string, b *text.Builder) error {
	start := time.Now()

	st := NewState(WithStateTimeout(r.timeout), WithPrintOutput(r.output))
	defer st.Close()
	st.BindBuffer(BufferGlobal, b, r.rng)

	err := st.Exec(ctx, name, src)
	if r.metrics != nil {
		r.metrics.RecordScript(err)
	}

	log := r.logger.WithField("script", name)
	if err != nil {
		log.Warn("failed after %s: %v", time.Since(start), err)
		return err
	}
	log.Debug("ran in %s, %d runes", time.Since(start), b.Len())
	return nil
}

// RunFile reads the script at path and runs it.
func (r *Runner) RunFile(ctx context.Context, path string, b *text.Builder) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return r.Run(ctx, path, string(src), b)
}
