// Package algorithm provides the encrypt/decrypt pairs the harness
// benchmarks. Each family (AES, RSA, ncRNA) needs differently shaped
// auxiliary parameters, so the family itself prepares them: a Binding
// draws fresh keys, seeds and salts per trial and hands the runner a
// uniform pair of thunks. The set of families is closed — supporting a
// new one means adding a Binding here, not touching the runner.
package algorithm

import (
	"fmt"

	"github.com/zhaorui-bi/crypto-ncRNA/datagen"
)

// Trial is one encrypt+decrypt invocation pair sharing a single set of
// auxiliary parameters. Encrypt must complete before Decrypt runs; key
// material produced during encryption (e.g. an RSA private key) is
// carried to Decrypt internally.
type Trial struct {
	Encrypt func() error
	Decrypt func() error
}

// Binding is a named algorithm family the harness can drive.
type Binding interface {
	Name() string

	// NewTrial draws fresh auxiliary parameters for one trial and binds
	// them, together with plaintext, into an encrypt/decrypt pair. The
	// same parameters are used by both operations.
	NewTrial(plaintext string) (*Trial, error)
}

// DefaultOrder lists every known family in the order benchmarks run
// them by default.
var DefaultOrder = []string{"ncRNA", "AES", "RSA"}

// Bindings resolves family names to Bindings, preserving order. Secure
// auxiliary material is drawn through gen.
func Bindings(gen *datagen.Generator, names []string) ([]Binding, error) {
	bindings := make([]Binding, 0, len(names))

	for _, name := range names {
		switch name {
		case "ncRNA":
			bindings = append(bindings, NewNCRNA(gen))
		case "AES":
			bindings = append(bindings, NewAES(gen))
		case "RSA":
			bindings = append(bindings, NewRSA())
		default:
			return nil, fmt.Errorf("unknown algorithm %q", name)
		}
	}

	return bindings, nil
}
