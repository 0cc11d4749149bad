package qcengine

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultMaxShots caps a single run unless the caller overrides it.
const DefaultMaxShots = 100000

// Result is the aggregated outcome of one run.
type Result struct {
	Histogram  []int    // length 2ⁿ, sums to Shots
	QubitCount int      // n of the last reset seen (1 if none)
	Log        []string // print output of every shot, in order
	Shots      int
	Seed       int64 // seed of the default source; 0 when WithRand supplied one
}

// Outcome pairs a histogram index with its label and count.
type Outcome struct {
	Index int
	Label string
	Count int
}

// Outcomes lists every histogram entry with its MSB-first label.
func (r *Result) Outcomes() []Outcome {
	out := make([]Outcome, len(r.Histogram))
	for i, c := range r.Histogram {
		out[i] = Outcome{Index: i, Label: FormatOutcome(i, r.QubitCount), Count: c}
	}
	return out
}

// Fraction returns the share of shots that ended in the outcome named by an
// MSB-first bitstring.
func (r *Result) Fraction(bits string) float64 {
	i, err := ParseBitstring(bits)
	if err != nil || i >= len(r.Histogram) || r.Shots == 0 {
		return 0
	}
	return float64(r.Histogram[i]) / float64(r.Shots)
}

type runConfig struct {
	rng       Source
	seed      int64
	seeded    bool
	maxQubits int
	maxShots  int
	logger    *log.Logger
}

// Option configures Run.
type Option func(*runConfig)

// WithRand injects the random source used by every measurement of the run.
func WithRand(src Source) Option {
	return func(c *runConfig) { c.rng = src }
}

// WithSeed seeds the default math/rand source so histograms are reproducible.
func WithSeed(seed int64) Option {
	return func(c *runConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// WithMaxQubits bounds the register size any reset may request.
func WithMaxQubits(n int) Option {
	return func(c *runConfig) { c.maxQubits = n }
}

// WithMaxShots bounds the shot count.
func WithMaxShots(n int) Option {
	return func(c *runConfig) { c.maxShots = n }
}

// WithLogger routes run diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *runConfig) { c.logger = logger }
}

// Run executes prog shots times, each on a fresh register and allocator, and
// aggregates one classical outcome per shot. A shot that does not end
// collapsed is measured once more. The first fault aborts the whole run and no
// partial histogram is returned.
func Run(prog Program, shots int, opts ...Option) (*Result, error) {
	cfg := runConfig{
		maxQubits: DefaultMaxQubits,
		maxShots:  DefaultMaxShots,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	if shots < 1 || shots > cfg.maxShots {
		return nil, fmt.Errorf("%d shots (allowed 1..%d): %w", shots, cfg.maxShots, ErrInvalidShots)
	}

	res := &Result{Shots: shots}
	rng := cfg.rng
	if rng == nil {
		if !cfg.seeded {
			seed, err := NewSeed()
			if err != nil {
				return nil, err
			}
			cfg.seed = seed
		}
		res.Seed = cfg.seed
		rng = rand.New(rand.NewSource(cfg.seed))
	}

	logger := cfg.logger.With("instructions", len(prog), "shots", shots)
	logger.Debug("run started", "seed", res.Seed)
	started := time.Now()

	for shot := 0; shot < shots; shot++ {
		it := NewInterpreter(rng, cfg.maxQubits)
		if err := it.Execute(prog); err != nil {
			logger.Debug("run aborted", "shot", shot, "err", err)
			return nil, err
		}
		state := it.State()
		out, ok := state.Collapsed()
		if !ok {
			out = state.Sample(rng)
		}

		if res.Histogram == nil {
			res.QubitCount = state.NumQubits
			res.Histogram = make([]int, state.Len())
		}
		if out >= len(res.Histogram) {
			// Unreachable for the closed instruction set: every shot replays
			// the same resets.
			return nil, fmt.Errorf("shot %d ended on %d qubits, histogram has %d: %w",
				shot, state.NumQubits, res.QubitCount, ErrIndexOutOfRange)
		}
		res.Histogram[out]++
		res.Log = append(res.Log, it.Log()...)
	}

	logger.Debug("run finished", "qubits", res.QubitCount, "elapsed", time.Since(started))
	return res, nil
}
