package protocol

import "testing"

func TestIsExpired(t *testing.T) {
	if IsExpired(1000, 1000) {
		t.Fatalf("now == deadline must not be expired")
	}
	if !IsExpired(1000, 1001) {
		t.Fatalf("now > deadline must be expired")
	}
}

func TestValidTransition(t *testing.T) {
	ok := []struct{ from, to IntentStatus }{
		{StatusOpen, StatusCompleted},
		{StatusOpen, StatusCancelled},
		{StatusOpen, StatusExpired},
	}
	for _, tc := range ok {
		if !ValidTransition(tc.from, tc.to) {
			t.Fatalf("expected %v -> %v to be valid", tc.from, tc.to)
		}
	}

	bad := []struct{ from, to IntentStatus }{
		{StatusCompleted, StatusOpen},
		{StatusCancelled, StatusCompleted},
		{StatusExpired, StatusCancelled},
		{StatusOpen, StatusOpen},
	}
	for _, tc := range bad {
		if ValidTransition(tc.from, tc.to) {
			t.Fatalf("expected %v -> %v to be invalid", tc.from, tc.to)
		}
	}
}
