package intents

import "github.com/intentclob/solver/protocol"

// IsExpired reports whether intent is past its deadline as of nowMs.
func IsExpired(intent protocol.Intent, nowMs int64) bool {
	return protocol.IsExpired(intent.Deadline, nowMs)
}

// IsTerminal reports whether intent can no longer transition.
func IsTerminal(intent protocol.Intent) bool {
	return intent.Status.IsTerminal()
}

// Fee is the protocol fee withheld from amount at fee_bps, truncated
// toward zero.
func Fee(amount uint64, feeBps protocol.FeeBps) (uint64, error) {
	return protocol.Fee(amount, feeBps)
}
