package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/dshills/gapseq/internal/config"
	"github.com/dshills/gapseq/internal/logging"
	"github.com/dshills/gapseq/internal/metrics"
	"github.com/dshills/gapseq/internal/text"
)

// Env is the shared state every step of a run sees.
type Env struct {
	// Rand is the random source for shuffle.
	Rand *rand.Rand
	// Logger receives per-step debug output.
	Logger *logging.Logger
}

// step is a compiled configuration step.
type step struct {
	name string
	op   Op
}

// Pipeline applies an ordered list of compiled steps to a text builder.
// A Pipeline is not safe for concurrent use because its random source is
// shared between runs.
type Pipeline struct {
	steps   []step
	env     Env
	seed    uint64
	metrics *metrics.Registry
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for step output.
func WithLogger(l *logging.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.env.Logger = l
		}
	}
}

// WithMetrics records step counts and durations in r.
func WithMetrics(r *metrics.Registry) Option {
	return func(p *Pipeline) {
		p.metrics = r
	}
}

// WithSeed seeds the shuffle source. Zero picks a random seed.
func WithSeed(seed uint64) Option {
	return func(p *Pipeline) {
		p.seed = seed
	}
}

// New compiles steps into a pipeline. Every step is checked before any is
// run; the first invalid one is reported as a *StepError.
func New(steps []config.Step, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		steps: make([]step, 0, len(steps)),
		env:   Env{Logger: logging.NullLogger},
	}
	for _, opt := range opts {
		opt(p)
	}

	for i, s := range steps {
		op, err := Compile(s)
		if err != nil {
			return nil, &StepError{Index: i, Op: s.Op, Err: err}
		}
		p.steps = append(p.steps, step{name: s.Op, op: op})
	}

	if p.seed == 0 {
		p.seed = rand.Uint64()
	}
	p.env.Rand = rand.New(rand.NewPCG(p.seed, p.seed))
	p.env.Logger = p.env.Logger.WithComponent("pipeline")
	return p, nil
}

// FromConfig compiles the steps and seed of cfg.
func FromConfig(cfg config.PipelineConfig, opts ...Option) (*Pipeline, error) {
	return New(cfg.Steps, append([]Option{WithSeed(cfg.Seed)}, opts...)...)
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Names returns the operation name of each step, in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.name
	}
	return names
}

// Seed returns the seed of the shuffle source.
func (p *Pipeline) Seed() uint64 {
	return p.seed
}

// Run applies every step to b in order. It stops at the first failing step
// and returns a *StepError; steps that already ran are not undone. The
// context is checked between steps.
func (p *Pipeline) Run(ctx context.Context, b *text.Builder) error {
	log := p.env.Logger
	for i, s := range p.steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Index: i, Op: s.name, Err: err}
		}

		before := b.Len()
		start := time.Now()
		err := s.op(b, &p.env)
		elapsed := time.Since(start)

		if p.metrics != nil {
			p.metrics.RecordStep(s.name, err, elapsed)
		}
		if err != nil {
			log.WithField("step", i).Warn("%s failed: %v", s.name, err)
			return &StepError{Index: i, Op: s.name, Err: err}
		}
		log.WithFields(map[string]any{"step": i, "len": b.Len()}).
			Debug("%s: %d -> %d runes in %s", s.name, before, b.Len(), elapsed)
	}
	return nil
}
