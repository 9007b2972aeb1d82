package solver

import "testing"

func TestMetrics_Snapshot(t *testing.T) {
	m := &Metrics{prom: defaultPromMetrics()}
	m.IncProcessed()
	m.IncProcessed()
	m.IncExecuted(1_000, 42)
	m.IncSkipped()

	snap := m.Snapshot()
	if snap.Processed != 2 || snap.Executed != 1 || snap.Skipped != 1 {
		t.Fatalf("snap=%+v", snap)
	}
	if snap.GasSpent != 1_000 || snap.ProfitRaw != 42 {
		t.Fatalf("snap=%+v", snap)
	}
}
