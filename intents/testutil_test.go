package intents

import (
	"strings"
	"testing"

	"github.com/intentclob/solver/protocol"
)

// mustHex builds a protocol.Hex32 from a short "0x.."-prefixed suffix,
// left-padded with zeros to the full 64 hex characters object ids use
// on-chain.
func mustHex(t *testing.T, short string) protocol.Hex32 {
	t.Helper()
	suffix := strings.TrimPrefix(short, "0x")
	full := "0x" + strings.Repeat("0", 64-len(suffix)) + suffix
	h, err := protocol.ParseHex32(full)
	if err != nil {
		t.Fatalf("mustHex(%q): %v", short, err)
	}
	return h
}
