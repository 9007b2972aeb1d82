package protocol

import "math"

// FloatScalar is the fixed-point scale the on-chain CLOB's view functions
// return prices in (raw_price = price * FloatScalar).
const FloatScalar = 1_000_000_000 // 10^9

// RawToHuman converts a raw integer quantity into a human decimal using the
// asset's scalar (10^decimals).
func RawToHuman(raw uint64, scalar uint64) float64 {
	if scalar == 0 {
		scalar = 1
	}
	return float64(raw) / float64(scalar)
}

// HumanToRaw converts a human decimal quantity into a raw integer, rounding
// to the nearest unit. Negative inputs clamp to zero: raw quantities are
// never negative on-chain.
func HumanToRaw(human float64, scalar uint64) uint64 {
	if human <= 0 {
		return 0
	}
	return uint64(math.Round(human * float64(scalar)))
}

// FloorToRaw is like HumanToRaw but truncates instead of rounding, matching
// the quoter's `output_raw = floor(output_human * output_scalar)` rule.
func FloorToRaw(human float64, scalar uint64) uint64 {
	if human <= 0 {
		return 0
	}
	return uint64(math.Floor(human * float64(scalar)))
}

// PriceHuman reconstructs a human price from a raw FloatScalar-fixed-point
// price and the base/quote scalars of the pool it was quoted against:
//
//	price_human = raw_price / FloatScalar * base_scalar / quote_scalar
func PriceHuman(rawPrice uint64, baseScalar, quoteScalar uint64) float64 {
	if quoteScalar == 0 {
		quoteScalar = 1
	}
	return float64(rawPrice) / float64(FloatScalar) * float64(baseScalar) / float64(quoteScalar)
}

// QuantityHuman reconstructs a human order quantity from a raw base-unit
// quantity and the pool's base scalar: quantity_human = raw_quantity / base_scalar.
func QuantityHuman(rawQuantity uint64, baseScalar uint64) float64 {
	return RawToHuman(rawQuantity, baseScalar)
}
