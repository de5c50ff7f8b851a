package algorithm

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	mrand "math/rand"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"

	"github.com/zhaorui-bi/crypto-ncRNA/datagen"
)

const (
	ncrnaSeedLength     = 32
	ncrnaSequenceLength = 32
	ncrnaSaltLength     = 16
	ncrnaTableKeyLength = 32

	codonBases   = 3
	codonCount   = 64 // 4^3 codons over the ACGU alphabet
	basesPerByte = 4  // 2 bits per base
)

// NCRNA benchmarks the ncRNA cipher: plaintext is transcribed into an
// RNA base string, codons are shuffled through a keyed substitution
// table, and the result is sealed with ChaCha20-Poly1305. Auxiliary
// parameters are a numeric seed, a seed sequence over the ACGU alphabet
// and a salt; the substitution table key is generated during encryption
// and must accompany the ciphertext to decrypt.
type NCRNA struct {
	gen *datagen.Generator
}

// NewNCRNA creates the ncRNA binding drawing auxiliary material from gen.
func NewNCRNA(gen *datagen.Generator) *NCRNA {
	return &NCRNA{gen: gen}
}

func (n *NCRNA) Name() string { return "ncRNA" }

// NewTrial draws a fresh seed, seed sequence and salt and binds them to
// an encrypt/decrypt pair over plaintext. The table key produced during
// encryption is carried to the matching decrypt.
func (n *NCRNA) NewTrial(plaintext string) (*Trial, error) {
	seed, err := n.gen.Generate(ncrnaSeedLength, datagen.Digits, true)
	if err != nil {
		return nil, fmt.Errorf("generate seed: %w", err)
	}

	sequence, err := n.gen.Generate(ncrnaSequenceLength, datagen.RNABases, true)
	if err != nil {
		return nil, fmt.Errorf("generate seed sequence: %w", err)
	}

	salt, err := n.gen.Generate(ncrnaSaltLength, datagen.Alphanumeric, true)
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	var (
		ciphertext []byte
		tableKey   []byte
	)

	return &Trial{
		Encrypt: func() error {
			ct, tk, err := ncrnaEncrypt(plaintext, seed, sequence, salt)
			if err != nil {
				return err
			}

			ciphertext = ct
			tableKey = tk

			return nil
		},
		Decrypt: func() error {
			_, err := ncrnaDecrypt(ciphertext, seed, sequence, salt, tableKey)

			return err
		},
	}, nil
}

// ncrnaEncrypt transcribes, substitutes and seals plaintext. It returns
// the ciphertext and the freshly generated substitution table key.
func ncrnaEncrypt(plaintext, seed, sequence, salt string) ([]byte, []byte, error) {
	tableKey := make([]byte, ncrnaTableKeyLength)
	if _, err := io.ReadFull(rand.Reader, tableKey); err != nil {
		return nil, nil, fmt.Errorf("generate table key: %w", err)
	}

	bases := transcribe([]byte(plaintext))

	table := codonTable(tableKey, seed, sequence)
	substituteCodons(bases, table)

	aead, err := ncrnaAEAD(seed, sequence, salt)
	if err != nil {
		return nil, nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, bases, nil), tableKey, nil
}

func ncrnaDecrypt(ciphertext []byte, seed, sequence, salt string, tableKey []byte) (string, error) {
	if len(tableKey) == 0 {
		return "", errors.New("missing substitution table key")
	}

	aead, err := ncrnaAEAD(seed, sequence, salt)
	if err != nil {
		return "", err
	}

	if len(ciphertext) < aead.NonceSize() {
		return "", errors.New("ciphertext shorter than nonce")
	}

	nonce := ciphertext[:aead.NonceSize()]

	bases, err := aead.Open(nil, nonce, ciphertext[aead.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("open ciphertext: %w", err)
	}

	substituteCodons(bases, invertTable(codonTable(tableKey, seed, sequence)))

	plaintext, err := reverseTranscribe(bases)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

func ncrnaAEAD(seed, sequence, salt string) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(seed+sequence), []byte(salt), pbkdf2Rounds,
		chacha20poly1305.KeySize, sha256.New)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}

	return aead, nil
}

// transcribe expands each byte into four RNA bases, two bits per base,
// most significant pair first.
func transcribe(data []byte) []byte {
	bases := make([]byte, 0, len(data)*basesPerByte)

	for _, b := range data {
		for shift := 6; shift >= 0; shift -= 2 {
			bases = append(bases, datagen.RNABases[(b>>shift)&0b11])
		}
	}

	return bases
}

func reverseTranscribe(bases []byte) ([]byte, error) {
	if len(bases)%basesPerByte != 0 {
		return nil, fmt.Errorf("base string length %d is not byte-aligned", len(bases))
	}

	data := make([]byte, 0, len(bases)/basesPerByte)

	for i := 0; i < len(bases); i += basesPerByte {
		var b byte

		for j := 0; j < basesPerByte; j++ {
			v, err := baseValue(bases[i+j])
			if err != nil {
				return nil, err
			}

			b = b<<2 | v
		}

		data = append(data, b)
	}

	return data, nil
}

func baseValue(base byte) (byte, error) {
	switch base {
	case 'A':
		return 0, nil
	case 'C':
		return 1, nil
	case 'G':
		return 2, nil
	case 'U':
		return 3, nil
	default:
		return 0, fmt.Errorf("invalid RNA base %q", base)
	}
}

// codonTable derives a permutation of the 64 codons from the table key
// and both seeds. The same inputs always produce the same table.
func codonTable(tableKey []byte, seed, sequence string) []int {
	digest := sha256.Sum256(append(append(tableKey[:len(tableKey):len(tableKey)],
		seed...), sequence...))

	rng := mrand.New(mrand.NewSource(int64(binary.BigEndian.Uint64(digest[:8]))))

	return rng.Perm(codonCount)
}

func invertTable(table []int) []int {
	inverse := make([]int, len(table))
	for i, v := range table {
		inverse[v] = i
	}

	return inverse
}

// substituteCodons rewrites bases in place, mapping each full codon
// through the table. A trailing partial codon passes through unchanged.
func substituteCodons(bases []byte, table []int) {
	for i := 0; i+codonBases <= len(bases); i += codonBases {
		v0, _ := baseValue(bases[i])
		v1, _ := baseValue(bases[i+1])
		v2, _ := baseValue(bases[i+2])

		mapped := table[int(v0)<<4|int(v1)<<2|int(v2)]

		bases[i] = datagen.RNABases[mapped>>4]
		bases[i+1] = datagen.RNABases[(mapped>>2)&0b11]
		bases[i+2] = datagen.RNABases[mapped&0b11]
	}
}
