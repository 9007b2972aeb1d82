package protocol

// IsExpired reports whether nowMs has passed intent's deadline. Kept as a
// free function (mirroring Intent.IsExpired) so callers that only have the
// raw fields (e.g. freshly decoded JSON) don't need to build an Intent.
func IsExpired(deadlineMs, nowMs int64) bool { return nowMs > deadlineMs }

// IsTerminal reports whether status is one of the terminal states.
func IsTerminal(status IntentStatus) bool { return status.IsTerminal() }

// ValidTransition reports whether moving an intent from `from` to `to` is a
// legal one-shot transition: OPEN -> {COMPLETED, CANCELLED, EXPIRED}, and no
// other edge exists (terminal states never transition again).
func ValidTransition(from, to IntentStatus) bool {
	if from != StatusOpen {
		return false
	}
	switch to {
	case StatusCompleted, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}
