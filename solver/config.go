package solver

import (
	"time"

	"github.com/intentclob/solver/protocol"
)

// Config holds everything the engine needs to discover, evaluate, and
// execute intents, save for the dependencies it's handed directly
// (rpc.Client, clob.Quoter, intents package functions are stateless).
type Config struct {
	PackageId          protocol.Hex32
	ProtocolConfigId   protocol.Hex32
	DeepbookPackageId  protocol.Hex32
	DeepFeeCoin        protocol.Hex32
	SolverAddress      protocol.Address

	PollInterval    time.Duration
	PollLimit       int
	MinProfitBps    uint64
	MaxGasPrice     uint64
	OutputBufferBps uint64 // 5% buffer over min_output_amount, expressed in bps (500)
	EnableEvents    bool
}

func DefaultConfig() Config {
	return Config{
		PollInterval:    10 * time.Second,
		PollLimit:       100,
		MinProfitBps:    50,
		OutputBufferBps: 500,
		EnableEvents:    true,
	}
}
