package memprobe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// retained keeps measured allocations alive across the after-snapshot's
// GC cycle so they show up as in-use growth.
var retained [][]byte

func TestMeasureNeverNegative(t *testing.T) {
	SetFullSampling()

	sample, err := Measure(0, func() error { return nil })
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sample.DeltaMB, 0.0)
}

func TestMeasureSeesRetainedAllocation(t *testing.T) {
	SetFullSampling()

	const size = 8 * bytesPerMB

	sample, err := Measure(size, func() error {
		buf := make([]byte, size)
		retained = append(retained, buf)

		return nil
	})
	require.NoError(t, err)

	defer func() { retained = nil }()

	assert.Equal(t, size, sample.DataLength)
	assert.GreaterOrEqual(t, sample.DeltaMB, 7.5,
		"an 8 MB retained buffer must dominate the delta")
}

func TestMeasurePropagatesOperationError(t *testing.T) {
	SetFullSampling()

	opErr := errors.New("cipher broke")

	_, err := Measure(100, func() error { return opErr })
	require.ErrorIs(t, err, opErr)
}
