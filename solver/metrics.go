package solver

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's monotonic counters. Writers are many
// concurrent pipeline goroutines; readers (the /solver/metrics endpoint)
// may observe any recent consistent snapshot — plain atomics suffice, no
// total ordering is required.
type Metrics struct {
	Processed atomic.Uint64
	Executed  atomic.Uint64
	Skipped   atomic.Uint64
	GasSpent  atomic.Uint64
	ProfitRaw atomic.Uint64

	prom *promMetrics
}

type promMetrics struct {
	processed prometheus.Counter
	executed  prometheus.Counter
	skipped   prometheus.Counter
	gasSpent  prometheus.Counter
	profit    prometheus.Counter
}

var (
	promOnce     sync.Once
	promInstance *promMetrics
)

func defaultPromMetrics() *promMetrics {
	promOnce.Do(func() {
		promInstance = &promMetrics{
			processed: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "intentclob",
				Subsystem: "solver",
				Name:      "intents_processed_total",
				Help:      "Total intents that entered the processing pipeline.",
			}),
			executed: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "intentclob",
				Subsystem: "solver",
				Name:      "intents_executed_total",
				Help:      "Total intents filled successfully.",
			}),
			skipped: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "intentclob",
				Subsystem: "solver",
				Name:      "intents_skipped_total",
				Help:      "Total intents skipped without execution (no pool, quote or coin lookup failure, insufficient balance or fee coin, or below the profit floor).",
			}),
			gasSpent: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "intentclob",
				Subsystem: "solver",
				Name:      "gas_spent_total",
				Help:      "Cumulative gas used across successful executions.",
			}),
			profit: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "intentclob",
				Subsystem: "solver",
				Name:      "profit_raw_total",
				Help:      "Cumulative realized profit in output-asset raw units.",
			}),
		}
		prometheus.MustRegister(
			promInstance.processed,
			promInstance.executed,
			promInstance.skipped,
			promInstance.gasSpent,
			promInstance.profit,
		)
	})
	return promInstance
}

func NewMetrics() *Metrics {
	return &Metrics{prom: defaultPromMetrics()}
}

func (m *Metrics) IncProcessed() {
	m.Processed.Add(1)
	m.prom.processed.Inc()
}

func (m *Metrics) IncExecuted(gasUsed, profitRaw uint64) {
	m.Executed.Add(1)
	m.GasSpent.Add(gasUsed)
	m.ProfitRaw.Add(profitRaw)
	m.prom.executed.Inc()
	m.prom.gasSpent.Add(float64(gasUsed))
	m.prom.profit.Add(float64(profitRaw))
}

func (m *Metrics) IncSkipped() {
	m.Skipped.Add(1)
	m.prom.skipped.Inc()
}

// Snapshot is a JSON-friendly read of the counters at one instant.
type Snapshot struct {
	Processed uint64 `json:"processed"`
	Executed  uint64 `json:"executed"`
	Skipped   uint64 `json:"skipped"`
	GasSpent  uint64 `json:"gas_spent"`
	ProfitRaw uint64 `json:"profit_raw"`
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Processed: m.Processed.Load(),
		Executed:  m.Executed.Load(),
		Skipped:   m.Skipped.Load(),
		GasSpent:  m.GasSpent.Load(),
		ProfitRaw: m.ProfitRaw.Load(),
	}
}
