package protocol

import (
	"errors"
	"math/bits"
)

// FeeBps is a fee expressed in basis points (1 bps = 0.01%).
type FeeBps uint16

const FeeBpsDenominator uint64 = 10_000

// MaxProtocolFeeBps is the upper bound the ProtocolConfig object enforces
// on-chain (fee_bps ∈ [0, 500]).
const MaxProtocolFeeBps FeeBps = 500

var errInvalidFeeBps = errors.New("protocol: invalid fee bps")

func (bps FeeBps) IsValid() bool {
	return uint64(bps) <= FeeBpsDenominator
}

// Fee returns floor(amount * bps / 10_000), the amount withheld from the
// *input* side and routed to the fee recipient. The division
// uses a 128-bit intermediate so it never overflows for any uint64 amount.
func Fee(amount uint64, bps FeeBps) (uint64, error) {
	if !bps.IsValid() {
		return 0, errInvalidFeeBps
	}
	if bps == 0 || amount == 0 {
		return 0, nil
	}
	hi, lo := bits.Mul64(amount, uint64(bps))
	fee, _ := bits.Div64(hi, lo, FeeBpsDenominator)
	return fee, nil
}

// SplitInput returns (fee, netToSolver) for an input amount under bps: the
// fee is withheld from the input, never the output, so
// netToSolver = amount - fee exactly and the two always sum back to amount.
func SplitInput(amount uint64, bps FeeBps) (fee uint64, netToSolver uint64, err error) {
	fee, err = Fee(amount, bps)
	if err != nil {
		return 0, 0, err
	}
	return fee, amount - fee, nil
}

// ProfitBps computes profit_bps = profit_raw * 10000 / input_amount exactly
// as the profitability check defines it — numerator in output-asset units,
// denominator in input-asset units. The unit mismatch is intentional and
// preserved verbatim for behavioural parity; do not "fix" it here.
func ProfitBps(profitRaw, inputAmount uint64) uint64 {
	if inputAmount == 0 {
		return 0
	}
	hi, lo := bits.Mul64(profitRaw, FeeBpsDenominator)
	q, _ := bits.Div64(hi, lo, inputAmount)
	return q
}
