package clob

import (
	"context"

	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
)

const deepbookModule = "pool"

// FetchLevel2 simulates get_level2_ticks_from_mid against pool and decodes
// the four returned u64 vectors (bid_prices, bid_quantities, ask_prices,
// ask_quantities) into a human-unit snapshot.
func FetchLevel2(ctx context.Context, client *rpc.Client, deepbookPackage protocol.Hex32, pool protocol.Pool, ticksFromMid uint64, sender protocol.Hex32) (protocol.Level2Snapshot, error) {
	plan := rpc.TxPlan{
		Calls: []rpc.MoveCall{
			{
				Package:       deepbookPackage.Hex(),
				Module:        deepbookModule,
				Function:      "get_level2_ticks_from_mid",
				TypeArguments: []string{pool.BaseType.String(), pool.QuoteType.String()},
				Arguments: []rpc.Arg{
					rpc.ObjectArg(pool.PoolId),
					rpc.PureArg(ticksFromMid),
					rpc.ObjectArg(protocol.ClockObjectId),
				},
			},
		},
	}

	txBytes, err := client.BuildUnsigned(ctx, plan, sender)
	if err != nil {
		return protocol.Level2Snapshot{}, err
	}

	result, err := client.DevInspect(ctx, txBytes, sender)
	if err != nil {
		return protocol.Level2Snapshot{}, err
	}
	if len(result.Results) != 4 {
		return protocol.Level2Snapshot{}, protocol.NewError(protocol.KindTransient, "dev_inspect returned unexpected result count")
	}

	bidPrices, err := decodeU64VecResult(result.Results[0])
	if err != nil {
		return protocol.Level2Snapshot{}, err
	}
	bidQuantities, err := decodeU64VecResult(result.Results[1])
	if err != nil {
		return protocol.Level2Snapshot{}, err
	}
	askPrices, err := decodeU64VecResult(result.Results[2])
	if err != nil {
		return protocol.Level2Snapshot{}, err
	}
	askQuantities, err := decodeU64VecResult(result.Results[3])
	if err != nil {
		return protocol.Level2Snapshot{}, err
	}

	snap := protocol.Level2Snapshot{
		Bids: levelsFromRaw(bidPrices, bidQuantities, pool.BaseScalar, pool.QuoteScalar),
		Asks: levelsFromRaw(askPrices, askQuantities, pool.BaseScalar, pool.QuoteScalar),
	}
	if len(snap.Bids) == 0 && len(snap.Asks) == 0 {
		return protocol.Level2Snapshot{}, protocol.NewError(protocol.KindNoLiquidity, "empty order book for pool "+pool.PoolId.Hex())
	}
	return snap, nil
}

func decodeU64VecResult(rv rpc.ReturnValue) ([]uint64, error) {
	vals, _, err := protocol.DecodeU64Vec(rv.BCS)
	if err != nil {
		return nil, protocol.WrapError(protocol.KindTransient, "decode level2 u64 vec", err)
	}
	return vals, nil
}

// levelsFromRaw reconstructs human-unit price levels from raw scaled
// prices/quantities, dropping non-positive entries per the quoter's
// filtering rule.
func levelsFromRaw(rawPrices, rawQuantities []uint64, baseScalar, quoteScalar uint64) []protocol.PriceLevel {
	n := len(rawPrices)
	if len(rawQuantities) < n {
		n = len(rawQuantities)
	}
	out := make([]protocol.PriceLevel, 0, n)
	for i := 0; i < n; i++ {
		price := protocol.PriceHuman(rawPrices[i], baseScalar, quoteScalar)
		qty := protocol.QuantityHuman(rawQuantities[i], baseScalar)
		if price <= 0 || qty <= 0 {
			continue
		}
		out = append(out, protocol.PriceLevel{Price: price, Quantity: qty})
	}
	return out
}
