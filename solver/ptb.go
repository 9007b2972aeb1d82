package solver

import (
	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
)

const (
	frameworkPackage = "0x2"
	coinModule       = "coin"
	deepbookModule   = "pool"
	moduleIntent     = "intent"
)

// executionPlanInput bundles everything buildExecutionPlan needs to
// construct the atomic fill-and-reverse-swap transaction for one intent.
// All fields are read-only snapshots taken immediately before the call.
type executionPlanInput struct {
	PackageId        protocol.Hex32
	ProtocolConfigId protocol.Hex32
	DeepbookPackage  protocol.Hex32
	DeepFeeCoin      protocol.Hex32
	SolverAddress    protocol.Address

	Intent protocol.Intent
	Pool   protocol.Pool

	// OutputCoins are the solver's own coin objects of the intent's
	// OutputType, used to cover the MinOutputAmount owed to the intent
	// owner. At least one must exist with enough aggregate balance.
	OutputCoins []protocol.Hex32

	// BufferedOutputAmount is MinOutputAmount inflated by the
	// configured buffer (OutputBufferBps), the amount actually split
	// off and handed to execute_intent.
	BufferedOutputAmount uint64

	// IsSellBase is true when the reverse swap sells the intent's
	// InputType (now held as a Balance freed by execute_intent) into
	// the pool's quote side; false when it buys base with quote.
	IsSellBase bool

	GasBudget uint64
}

// buildExecutionPlan assembles the programmable transaction block that
// atomically fills intent and immediately reverse-swaps the freed escrow
// back into the output type, realizing the solver's spread as profit. The
// calls below (five, or six when output coins are merged first) run in one
// transaction: if any aborts, the entire PTB
// reverts and no partial state change is observed on-chain.
func buildExecutionPlan(in executionPlanInput) rpc.TxPlan {
	var calls []rpc.MoveCall

	// a. Merge all of the solver's output-type coins into the first,
	// then split off exactly BufferedOutputAmount to hand to
	// execute_intent. The remainder stays with the solver as change.
	mergeIdx := -1
	if len(in.OutputCoins) > 1 {
		mergeArgs := []rpc.Arg{rpc.ObjectArg(in.OutputCoins[0])}
		for _, extra := range in.OutputCoins[1:] {
			mergeArgs = append(mergeArgs, rpc.ObjectArg(extra))
		}
		calls = append(calls, rpc.MoveCall{
			Package:       frameworkPackage,
			Module:        coinModule,
			Function:      "join_vec",
			TypeArguments: []string{in.Intent.OutputType.String()},
			Arguments:     mergeArgs,
		})
		mergeIdx = len(calls) - 1
	}
	splitIdx := len(calls)
	splitArgs := []rpc.Arg{rpc.ObjectArg(in.OutputCoins[0]), rpc.PureArg(in.BufferedOutputAmount)}
	if mergeIdx >= 0 {
		splitArgs = []rpc.Arg{rpc.ResultArg(mergeIdx), rpc.PureArg(in.BufferedOutputAmount)}
	}
	calls = append(calls, rpc.MoveCall{
		Package:       frameworkPackage,
		Module:        coinModule,
		Function:      "split",
		TypeArguments: []string{in.Intent.OutputType.String()},
		Arguments:     splitArgs,
	})

	// b. Fill the intent. The contract returns the freed escrow as a
	// Balance<InputType>, not a Coin, so a later call must wrap it.
	executeIdx := len(calls)
	calls = append(calls, rpc.MoveCall{
		Package:       in.PackageId.Hex(),
		Module:        moduleIntent,
		Function:      "execute_intent",
		TypeArguments: []string{in.Intent.InputType.String(), in.Intent.OutputType.String()},
		Arguments: []rpc.Arg{
			rpc.ObjectArg(in.Intent.Id),
			rpc.ResultArg(splitIdx),
			rpc.ObjectArg(in.ProtocolConfigId),
			rpc.ObjectArg(protocol.ClockObjectId),
		},
	})

	// c. Wrap the freed Balance<InputType> as a spendable Coin so the
	// DeepBook swap call below can consume it.
	toCoinIdx := len(calls)
	calls = append(calls, rpc.MoveCall{
		Package:       frameworkPackage,
		Module:        coinModule,
		Function:      "from_balance",
		TypeArguments: []string{in.Intent.InputType.String()},
		Arguments:     []rpc.Arg{rpc.ResultArg(executeIdx)},
	})

	// d. Reverse-swap the freed input back into the output type at
	// current book prices, realizing the spread. DEEP fee coin is
	// mandatory; callers must verify one is available before reaching
	// this builder (see engine.go), since a missing fee coin aborts
	// the whole PTB rather than just this step.
	swapFn := "swap_exact_base_for_quote"
	if !in.IsSellBase {
		swapFn = "swap_exact_quote_for_base"
	}
	swapIdx := len(calls)
	calls = append(calls, rpc.MoveCall{
		Package:       in.DeepbookPackage.Hex(),
		Module:        deepbookModule,
		Function:      swapFn,
		TypeArguments: []string{in.Pool.BaseType.String(), in.Pool.QuoteType.String()},
		Arguments: []rpc.Arg{
			rpc.ObjectArg(in.Pool.PoolId),
			rpc.ResultArg(toCoinIdx),
			rpc.ObjectArg(in.DeepFeeCoin),
			rpc.ObjectArg(protocol.ClockObjectId),
		},
	})

	// e. Transfer whatever the swap returns (output coin plus any
	// leftover base/quote/fee dust) to the solver's own address.
	calls = append(calls, rpc.MoveCall{
		Package:  frameworkPackage,
		Module:   "transfer",
		Function: "public_transfer",
		Arguments: []rpc.Arg{
			rpc.ResultArg(swapIdx),
			rpc.PureArg(in.SolverAddress.Hex()),
		},
	})

	return rpc.TxPlan{Calls: calls, GasBudget: in.GasBudget}
}
