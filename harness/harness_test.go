package harness

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhaorui-bi/crypto-ncRNA/algorithm"
	"github.com/zhaorui-bi/crypto-ncRNA/datagen"
)

// fakeBinding counts trials and can be told to fail a specific one.
type fakeBinding struct {
	name        string
	failAtTrial int // -1 = never fail
	trials      int
}

func (f *fakeBinding) Name() string { return f.name }

func (f *fakeBinding) NewTrial(string) (*algorithm.Trial, error) {
	trial := f.trials
	f.trials++

	return &algorithm.Trial{
		Encrypt: func() error {
			if trial == f.failAtTrial {
				return errors.New("simulated failure")
			}

			return nil
		},
		Decrypt: func() error { return nil },
	}, nil
}

func testRunner(t *testing.T, cfg Config) *Runner {
	t.Helper()

	r, err := NewRunner(cfg, datagen.NewGenerator(42), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return r
}

func TestRunOrdering(t *testing.T) {
	r := testRunner(t, Config{
		DataLengths:     []int{10, 500},
		TrialsPerLength: 5,
	})

	results, err := r.Run(&fakeBinding{name: "fake", failAtTrial: -1})
	require.NoError(t, err)

	want := []int{10, 10, 10, 10, 10, 500, 500, 500, 500, 500}
	assert.Equal(t, want, results.DataLengths)
	assert.Equal(t, "fake", results.Algorithm)
}

func TestRunParallelSequences(t *testing.T) {
	r := testRunner(t, Config{
		DataLengths:     []int{10, 100, 1000},
		TrialsPerLength: 3,
	})

	results, err := r.Run(&fakeBinding{name: "fake", failAtTrial: -1})
	require.NoError(t, err)

	require.Equal(t, 9, results.Len())
	assert.Len(t, results.EncryptionMemory, results.Len())
	assert.Len(t, results.DecryptionMemory, results.Len())

	for _, mb := range results.EncryptionMemory {
		assert.GreaterOrEqual(t, mb, 0.0)
	}
	for _, mb := range results.DecryptionMemory {
		assert.GreaterOrEqual(t, mb, 0.0)
	}
}

func TestRunFailFast(t *testing.T) {
	r := testRunner(t, Config{
		DataLengths:     []int{10, 100},
		TrialsPerLength: 5,
	})

	// Global trial 7 = data length 100, trial index 2.
	results, err := r.Run(&fakeBinding{name: "fake", failAtTrial: 7})
	require.Error(t, err)
	assert.Nil(t, results, "no partial results on failure")

	assert.Contains(t, err.Error(), "fake")
	assert.Contains(t, err.Error(), "data length 100")
	assert.Contains(t, err.Error(), "trial 2")
}

func TestNewRunnerRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no data lengths", Config{TrialsPerLength: 5}},
		{"zero trials", Config{DataLengths: []int{100}}},
		{"negative length", Config{DataLengths: []int{-1}, TrialsPerLength: 1}},
		{"zero length", Config{DataLengths: []int{0}, TrialsPerLength: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(tt.cfg, datagen.NewGenerator(1), slog.New(slog.NewTextHandler(io.Discard, nil)))
			require.Error(t, err)
		})
	}
}

func TestRunnerHasRunID(t *testing.T) {
	r := testRunner(t, Config{DataLengths: []int{10}, TrialsPerLength: 1})
	assert.NotEmpty(t, r.RunID())
}

func TestAggregateTableMergePreservesOrder(t *testing.T) {
	table := NewAggregateTable()

	first := NewResultSet("ncRNA")
	first.Append(100, 0.5, 0.25)

	second := NewResultSet("AES")
	second.Append(100, 0.1, 0.1)

	table.Merge(first)
	table.Merge(second)

	sets := table.Sets()
	require.Len(t, sets, 2)
	assert.Equal(t, "ncRNA", sets[0].Algorithm)
	assert.Equal(t, "AES", sets[1].Algorithm)
}

func TestAggregateTableMergeExtends(t *testing.T) {
	table := NewAggregateTable()

	pass1 := NewResultSet("AES")
	pass1.Append(100, 0.5, 0.25)
	pass1.Append(200, 0.6, 0.35)

	pass2 := NewResultSet("AES")
	pass2.Append(300, 0.7, 0.45)

	table.Merge(pass1)
	table.Merge(pass2)

	require.Equal(t, 1, table.Len())

	merged := table.Sets()[0]
	assert.Equal(t, []int{100, 200, 300}, merged.DataLengths)
	assert.Equal(t, []float64{0.5, 0.6, 0.7}, merged.EncryptionMemory)
	assert.Equal(t, []float64{0.25, 0.35, 0.45}, merged.DecryptionMemory)
}
