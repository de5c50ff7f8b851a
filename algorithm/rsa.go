package algorithm

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

const rsaKeyBits = 2048

// RSA benchmarks RSA-2048 with PKCS #1 v1.5 chunking. It draws no
// auxiliary parameters up front: the key pair is generated inside the
// encrypt call and counts toward its measured cost, matching how the
// harness charges symmetric families for their key derivation. Only the
// private key flows on to decrypt.
type RSA struct{}

// NewRSA creates the RSA binding.
func NewRSA() *RSA {
	return &RSA{}
}

func (r *RSA) Name() string { return "RSA" }

// NewTrial binds plaintext to an encrypt/decrypt pair. The private key
// produced during encryption is retained for the matching decrypt.
func (r *RSA) NewTrial(plaintext string) (*Trial, error) {
	var (
		ciphertext []byte
		privateKey *rsa.PrivateKey
	)

	return &Trial{
		Encrypt: func() error {
			key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
			if err != nil {
				return fmt.Errorf("generate key pair: %w", err)
			}

			ct, err := rsaEncrypt([]byte(plaintext), &key.PublicKey)
			if err != nil {
				return err
			}

			ciphertext = ct
			privateKey = key

			return nil
		},
		Decrypt: func() error {
			_, err := rsaDecrypt(ciphertext, privateKey)

			return err
		},
	}, nil
}

// rsaEncrypt encrypts plaintext of any size by splitting it into chunks
// that fit the key modulus after PKCS #1 v1.5 padding.
func rsaEncrypt(plaintext []byte, publicKey *rsa.PublicKey) ([]byte, error) {
	maxChunk := publicKey.Size() - 11

	encrypted := make([]byte, 0, len(plaintext)+publicKey.Size())

	for len(plaintext) > 0 {
		chunk := maxChunk
		if len(plaintext) < chunk {
			chunk = len(plaintext)
		}

		out, err := rsa.EncryptPKCS1v15(rand.Reader, publicKey, plaintext[:chunk])
		if err != nil {
			return nil, fmt.Errorf("encrypt chunk: %w", err)
		}

		encrypted = append(encrypted, out...)
		plaintext = plaintext[chunk:]
	}

	return encrypted, nil
}

func rsaDecrypt(ciphertext []byte, privateKey *rsa.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key cannot be nil")
	}

	chunk := privateKey.Size()

	decrypted := make([]byte, 0, len(ciphertext))

	for len(ciphertext) > 0 {
		if len(ciphertext) < chunk {
			chunk = len(ciphertext)
		}

		out, err := rsa.DecryptPKCS1v15(rand.Reader, privateKey, ciphertext[:chunk])
		if err != nil {
			return nil, fmt.Errorf("decrypt chunk: %w", err)
		}

		decrypted = append(decrypted, out...)
		ciphertext = ciphertext[chunk:]
	}

	return decrypted, nil
}
