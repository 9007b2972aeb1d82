package clob

import "github.com/intentclob/solver/protocol"

// Quoter produces swap quotes against a single registered pool's live
// order book. No auto-routing, no fallback pricing: a lookup or liquidity
// failure is returned verbatim to the caller.
type Quoter struct {
	Registry *PoolRegistry
}

func NewQuoter(registry *PoolRegistry) *Quoter {
	return &Quoter{Registry: registry}
}

// Quote simulates spending inputRaw of inputType to acquire outputType
// against snap, the pool's current Level-2 depth.
func Quote(pool protocol.Pool, snap protocol.Level2Snapshot, inputType, outputType protocol.AssetType, inputRaw uint64) (protocol.SwapQuote, error) {
	isSellBase := inputType == pool.BaseType
	if !isSellBase && inputType != pool.QuoteType {
		return protocol.SwapQuote{}, protocol.NewError(protocol.KindInvalidArgument, "input type does not belong to pool")
	}
	if isSellBase && outputType != pool.QuoteType {
		return protocol.SwapQuote{}, protocol.NewError(protocol.KindInvalidArgument, "output type does not belong to pool")
	}
	if !isSellBase && outputType != pool.BaseType {
		return protocol.SwapQuote{}, protocol.NewError(protocol.KindInvalidArgument, "output type does not belong to pool")
	}

	bestBid, hasBid := snap.BestBid()
	bestAsk, hasAsk := snap.BestAsk()
	mid := snap.MidPrice()

	if inputRaw == 0 {
		return protocol.SwapQuote{
			InputRaw:       0,
			OutputRaw:      0,
			MidPrice:       mid,
			BestBid:        bidPrice(bestBid, hasBid),
			BestAsk:        askPrice(bestAsk, hasAsk),
			PriceImpactPct: 0,
			Route:          []protocol.PoolId{pool.PoolId},
		}, nil
	}

	var outputHuman, impact float64
	var err error
	if isSellBase {
		inputHuman := protocol.RawToHuman(inputRaw, pool.BaseScalar)
		outputHuman, impact, err = simulateMarketSell(snap.Bids, inputHuman)
	} else {
		inputHuman := protocol.RawToHuman(inputRaw, pool.QuoteScalar)
		outputHuman, impact, err = simulateMarketBuy(snap.Asks, inputHuman)
	}
	if err != nil {
		return protocol.SwapQuote{}, err
	}

	outputScalar := pool.QuoteScalar
	if !isSellBase {
		outputScalar = pool.BaseScalar
	}

	return protocol.SwapQuote{
		InputRaw:       inputRaw,
		OutputRaw:      protocol.FloorToRaw(outputHuman, outputScalar),
		MidPrice:       mid,
		BestBid:        bidPrice(bestBid, hasBid),
		BestAsk:        askPrice(bestAsk, hasAsk),
		PriceImpactPct: impact,
		Route:          []protocol.PoolId{pool.PoolId},
	}, nil
}

func bidPrice(l protocol.PriceLevel, ok bool) float64 {
	if !ok {
		return 0
	}
	return l.Price
}

func askPrice(l protocol.PriceLevel, ok bool) float64 {
	if !ok {
		return 0
	}
	return l.Price
}

// simulateMarketSell walks bids (descending price) consuming base to
// produce quote. Impact is measured from the best bid to the last level
// the walk fills from (the deepest level touched); a fill that stays
// within the top level reports zero impact.
func simulateMarketSell(bids []protocol.PriceLevel, remainingBase float64) (outQuote float64, impactPct float64, err error) {
	if len(bids) == 0 {
		return 0, 0, protocol.NewError(protocol.KindNoLiquidity, "no bids")
	}
	bestBid := bids[0].Price
	lastFilledPrice := bestBid

	for _, lvl := range bids {
		if remainingBase <= 0 {
			break
		}
		consumed := remainingBase
		if lvl.Quantity < consumed {
			consumed = lvl.Quantity
		}
		outQuote += consumed * lvl.Price
		remainingBase -= consumed
		lastFilledPrice = lvl.Price
	}

	if bestBid != 0 {
		impactPct = (bestBid - lastFilledPrice) / bestBid
	}
	return outQuote, impactPct, nil
}

// simulateMarketBuy walks asks (ascending price) spending quote to
// acquire base.
func simulateMarketBuy(asks []protocol.PriceLevel, remainingQuote float64) (outBase float64, impactPct float64, err error) {
	if len(asks) == 0 {
		return 0, 0, protocol.NewError(protocol.KindNoLiquidity, "no asks")
	}
	bestAsk := asks[0].Price
	lastFilledPrice := bestAsk

	for _, lvl := range asks {
		if remainingQuote <= 0 {
			break
		}
		buyable := remainingQuote / lvl.Price
		if lvl.Quantity < buyable {
			buyable = lvl.Quantity
		}
		outBase += buyable
		remainingQuote -= buyable * lvl.Price
		lastFilledPrice = lvl.Price
	}

	if bestAsk != 0 {
		impactPct = (lastFilledPrice - bestAsk) / bestAsk
	}
	return outBase, impactPct, nil
}
