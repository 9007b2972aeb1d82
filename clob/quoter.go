package clob

import (
	"context"

	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
)

// Level2 exposes the raw snapshot for a resolved asset pair, used by the
// façade's /orderbook and /price endpoints.
func (q *Quoter) Level2(ctx context.Context, client *rpc.Client, deepbookPackage protocol.Hex32, base, quote protocol.AssetType, ticksFromMid uint64, sender protocol.Hex32) (protocol.Pool, protocol.Level2Snapshot, error) {
	pool, err := q.Registry.Find(base, quote)
	if err != nil {
		return protocol.Pool{}, protocol.Level2Snapshot{}, err
	}
	snap, err := FetchLevel2(ctx, client, deepbookPackage, pool, ticksFromMid, sender)
	if err != nil {
		return pool, protocol.Level2Snapshot{}, err
	}
	return pool, snap, nil
}

// Quote resolves the pool for (inputType, outputType), fetches its live
// depth, and simulates the trade. Fails with NoPool, NoLiquidity, or the
// underlying RPC failure; never falls back to any other pricing source.
func (q *Quoter) Quote(ctx context.Context, client *rpc.Client, deepbookPackage protocol.Hex32, inputType, outputType protocol.AssetType, inputRaw uint64, ticksFromMid uint64, sender protocol.Hex32) (protocol.SwapQuote, error) {
	pool, err := q.Registry.Find(inputType, outputType)
	if err != nil {
		return protocol.SwapQuote{}, err
	}
	snap, err := FetchLevel2(ctx, client, deepbookPackage, pool, ticksFromMid, sender)
	if err != nil {
		return protocol.SwapQuote{}, err
	}
	return Quote(pool, snap, inputType, outputType, inputRaw)
}
