package algorithm

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/zhaorui-bi/crypto-ncRNA/datagen"
)

const (
	aesSeedLength = 32
	aesSaltLength = 16
	aesKeyLength  = 32 // AES-256
	pbkdf2Rounds  = 4096
)

// AES benchmarks AES-256-GCM with a key derived from a numeric seed and
// a salt via PBKDF2. Seed and salt are the per-trial auxiliary
// parameters; decryption reuses both.
type AES struct {
	gen *datagen.Generator
}

// NewAES creates the AES binding drawing auxiliary material from gen.
func NewAES(gen *datagen.Generator) *AES {
	return &AES{gen: gen}
}

func (a *AES) Name() string { return "AES" }

// NewTrial draws a fresh secure seed and salt and binds them to an
// encrypt/decrypt pair over plaintext.
func (a *AES) NewTrial(plaintext string) (*Trial, error) {
	seed, err := a.gen.Generate(aesSeedLength, datagen.Digits, true)
	if err != nil {
		return nil, fmt.Errorf("generate seed: %w", err)
	}

	salt, err := a.gen.Generate(aesSaltLength, datagen.Alphanumeric, true)
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	var ciphertext []byte

	return &Trial{
		Encrypt: func() error {
			ct, err := aesEncrypt(plaintext, seed, salt)
			if err != nil {
				return err
			}

			ciphertext = ct

			return nil
		},
		Decrypt: func() error {
			_, err := aesDecrypt(ciphertext, seed, salt)

			return err
		},
	}, nil
}

func aesEncrypt(plaintext, seed, salt string) ([]byte, error) {
	gcm, err := aesGCM(seed, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// Output layout: nonce || ciphertext || tag.
	return gcm.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

func aesDecrypt(ciphertext []byte, seed, salt string) (string, error) {
	gcm, err := aesGCM(seed, salt)
	if err != nil {
		return "", err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return "", errors.New("ciphertext shorter than nonce")
	}

	nonce := ciphertext[:gcm.NonceSize()]

	plaintext, err := gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("open ciphertext: %w", err)
	}

	return string(plaintext), nil
}

func aesGCM(seed, salt string) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(seed), []byte(salt), pbkdf2Rounds, aesKeyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return gcm, nil
}
