package datagen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLengthAndCharset(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		charset string
		secure  bool
	}{
		{"alphanumeric insecure", 64, Alphanumeric, false},
		{"alphanumeric secure", 64, Alphanumeric, true},
		{"digits secure", 32, Digits, true},
		{"rna bases secure", 32, RNABases, true},
		{"single symbol charset", 16, "x", false},
		{"large payload", 100000, Alphanumeric, false},
	}

	gen := NewGenerator(42)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gen.Generate(tt.length, tt.charset, tt.secure)
			require.NoError(t, err)
			require.Len(t, got, tt.length)

			for _, c := range got {
				assert.True(t, strings.ContainsRune(tt.charset, c),
					"symbol %q not in charset %q", c, tt.charset)
			}
		})
	}
}

func TestGenerateZeroLength(t *testing.T) {
	gen := NewGenerator(1)

	got, err := gen.Generate(0, Alphanumeric, false)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Empty charset is fine when nothing is requested.
	got, err = gen.Generate(0, "", true)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerateEmptyCharset(t *testing.T) {
	gen := NewGenerator(1)

	_, err := gen.Generate(10, "", false)
	require.ErrorIs(t, err, ErrEmptyCharset)

	_, err = gen.Generate(10, "", true)
	require.ErrorIs(t, err, ErrEmptyCharset)
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	a, err := NewGenerator(7).Generate(256, Alphanumeric, false)
	require.NoError(t, err)

	b, err := NewGenerator(7).Generate(256, Alphanumeric, false)
	require.NoError(t, err)

	assert.Equal(t, a, b, "insecure draws must be reproducible per seed")
}

func TestGenerateSecureDrawsDiffer(t *testing.T) {
	gen := NewGenerator(7)

	a, err := gen.Generate(64, Alphanumeric, true)
	require.NoError(t, err)

	b, err := gen.Generate(64, Alphanumeric, true)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
