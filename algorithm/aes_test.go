package algorithm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAESEncryptDecrypt(t *testing.T) {
	const (
		seed = "98765432109876543210987654321098"
		salt = "saltsaltsaltsalt"
	)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"empty", ""},
		{"short", "secret"},
		{"long", strings.Repeat("0123456789", 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, err := aesEncrypt(tt.plaintext, seed, salt)
			require.NoError(t, err)

			got, err := aesDecrypt(ciphertext, seed, salt)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestAESDecryptRejectsWrongSeed(t *testing.T) {
	ciphertext, err := aesEncrypt("secret", "1111", "salt")
	require.NoError(t, err)

	_, err = aesDecrypt(ciphertext, "2222", "salt")
	require.Error(t, err)
}

func TestAESDecryptRejectsTruncatedCiphertext(t *testing.T) {
	_, err := aesDecrypt([]byte{0x01, 0x02}, "1111", "salt")
	require.Error(t, err)
}

func TestRSAEncryptDecryptChunked(t *testing.T) {
	rsa := NewRSA()

	// Longer than one 2048-bit modulus so chunking is exercised.
	plaintext := strings.Repeat("x", 1000)

	trial, err := rsa.NewTrial(plaintext)
	require.NoError(t, err)

	require.NoError(t, trial.Encrypt())
	require.NoError(t, trial.Decrypt())
}

func TestRSADecryptNilKey(t *testing.T) {
	_, err := rsaDecrypt([]byte{0x01}, nil)
	require.Error(t, err)
}
