package solver

import (
	"context"

	"github.com/intentclob/solver/protocol"
)

// Signer is the only capability the engine needs from whatever holds the
// solver's private key: produce a signature over an already-built
// transaction, and report the address that signature proves control of.
// Nothing else in this package touches key material, so a Signer backed
// by an HSM, a remote signing service, or a local keypair all satisfy it
// identically.
type Signer interface {
	Address() protocol.Address
	Sign(ctx context.Context, txBytes []byte) ([]byte, error)
}
