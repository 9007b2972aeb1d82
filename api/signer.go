package api

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"

	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/solver"
)

// localSigner signs transaction bytes with an in-process ed25519 key. It
// exists for the façade's own server-held keys (the solver's own address,
// and any test-path user key loaded the same way); a production deployment
// with externally custodied keys would implement solver.Signer against
// whatever custody service holds them instead.
type localSigner struct {
	addr protocol.Address
	priv ed25519.PrivateKey
}

var _ solver.Signer = (*localSigner)(nil)

// NewLocalSigner derives a signer from a 64-char hex-encoded ed25519 seed,
// the format private keys arrive in from the process environment. The
// derived address is the hex-encoded public key.
func NewLocalSigner(seedHex string) (solver.Signer, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, protocol.WrapError(protocol.KindInvalidArgument, "invalid private key encoding", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, protocol.NewError(protocol.KindInvalidArgument, "private key must be a 32-byte seed")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	addr, err := protocol.ParseHex32(hex.EncodeToString(pub))
	if err != nil {
		return nil, err
	}
	return &localSigner{addr: addr, priv: priv}, nil
}

func (s *localSigner) Address() protocol.Address { return s.addr }

func (s *localSigner) Sign(ctx context.Context, txBytes []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, txBytes), nil
}
