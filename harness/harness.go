package harness

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/zhaorui-bi/crypto-ncRNA/algorithm"
	"github.com/zhaorui-bi/crypto-ncRNA/datagen"
	"github.com/zhaorui-bi/crypto-ncRNA/memprobe"
)

// Config holds the run parameters shared by every algorithm pass.
type Config struct {
	DataLengths     []int `validate:"required,min=1,dive,gt=0"`
	TrialsPerLength int   `validate:"required,gt=0"`
}

// Validate checks that all fields in Config are valid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validation failed for Config: %w", err)
	}

	return nil
}

// testInput is one plaintext payload, generated once per data length
// and reused across every trial at that length. Trials never regenerate
// plaintext, so measured cost stays attributable to the crypto path
// rather than to data generation.
type testInput struct {
	plaintext string
	length    int
}

// Runner executes benchmark passes strictly sequentially. The probe's
// before/after snapshot diff is only valid when no other measured
// operation allocates concurrently, so there is no parallel mode.
type Runner struct {
	cfg    Config
	gen    *datagen.Generator
	logger *slog.Logger
	runID  string
}

// NewRunner validates cfg and creates a Runner. Plaintext payloads are
// drawn from gen; every log line carries a fresh run ID.
func NewRunner(cfg Config, gen *datagen.Generator, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()

	return &Runner{
		cfg:    cfg,
		gen:    gen,
		logger: logger.With(slog.String("run_id", runID)),
		runID:  runID,
	}, nil
}

// RunID returns the identifier attached to this runner's log output.
func (r *Runner) RunID() string {
	return r.runID
}

// Run benchmarks one algorithm across every configured data length and
// trial. Samples land in the returned ResultSet in (data length order)
// x (trial index ascending) order: all trials for one length complete
// before the next length starts.
//
// Any encrypt or decrypt failure aborts the whole run — a corrupted
// measurement is worse than a missing one — and the error names the
// algorithm, data length and trial index.
func (r *Runner) Run(b algorithm.Binding) (*ResultSet, error) {
	logger := r.logger.With(slog.String("algorithm", b.Name()))

	inputs := make([]testInput, 0, len(r.cfg.DataLengths))

	for _, length := range r.cfg.DataLengths {
		plaintext, err := r.gen.Generate(length, datagen.Alphanumeric, false)
		if err != nil {
			return nil, fmt.Errorf("generate plaintext for length %d: %w", length, err)
		}

		inputs = append(inputs, testInput{plaintext: plaintext, length: length})
	}

	results := NewResultSet(b.Name())

	for _, input := range inputs {
		for trial := 0; trial < r.cfg.TrialsPerLength; trial++ {
			// Auxiliary parameters are regenerated every trial,
			// unlike plaintext.
			t, err := b.NewTrial(input.plaintext)
			if err != nil {
				return nil, fmt.Errorf(
					"algorithm %s, data length %d, trial %d: prepare parameters: %w",
					b.Name(), input.length, trial, err,
				)
			}

			encSample, err := memprobe.Measure(input.length, t.Encrypt)
			if err != nil {
				return nil, fmt.Errorf(
					"algorithm %s, data length %d, trial %d: encrypt: %w",
					b.Name(), input.length, trial, err,
				)
			}

			decSample, err := memprobe.Measure(input.length, t.Decrypt)
			if err != nil {
				return nil, fmt.Errorf(
					"algorithm %s, data length %d, trial %d: decrypt: %w",
					b.Name(), input.length, trial, err,
				)
			}

			results.Append(input.length, encSample.DeltaMB, decSample.DeltaMB)
		}

		logger.Info("data length complete",
			slog.Int("data_length", input.length),
			slog.Int("trials", r.cfg.TrialsPerLength),
		)
	}

	return results, nil
}
