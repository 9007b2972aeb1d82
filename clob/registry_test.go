package clob

import "github.com/intentclob/solver/protocol"

func samplePool(id string) protocol.Pool {
	return protocol.Pool{
		PoolId:      protocol.PoolId{0: id[0]},
		BaseType:    "SUI",
		QuoteType:   "USDC",
		BaseScalar:  1_000_000_000,
		QuoteScalar: 1_000_000,
		TickSize:    1,
		LotSize:     1,
	}
}
