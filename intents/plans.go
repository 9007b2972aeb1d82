// Package intents builds pure, side-effect-free transaction plans against
// the on-chain intent registry and parses its objects and events into the
// protocol package's typed records. No plan in this file talks to the
// network; callers hand the result to an rpc.Client to build and submit.
package intents

import (
	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
)

const moduleIntent = "intent"

// PlanCreate escrows inputCoin and shares a new Intent<inputType,outputType>
// object. deadlineDeltaMs is a duration; the contract adds its own clock
// reading to produce the absolute deadline.
func PlanCreate(pkg protocol.Hex32, inputCoin protocol.Hex32, inputType, outputType protocol.AssetType, minOutputRaw uint64, deadlineDeltaMs uint64, gasBudget uint64) rpc.TxPlan {
	return rpc.TxPlan{
		Calls: []rpc.MoveCall{
			{
				Package:       pkg.Hex(),
				Module:        moduleIntent,
				Function:      "create_intent",
				TypeArguments: []string{inputType.String(), outputType.String()},
				Arguments: []rpc.Arg{
					rpc.ObjectArg(inputCoin),
					rpc.PureArg(minOutputRaw),
					rpc.PureArg(deadlineDeltaMs),
					rpc.ObjectArg(protocol.ClockObjectId),
				},
			},
		},
		GasBudget: gasBudget,
	}
}

// PlanExecute fills intentId with outputCoin. The call's sole result is the
// Balance<inputType> handle the contract returns, available to a later call
// in the same plan via rpc.ResultArg(0).
func PlanExecute(pkg protocol.Hex32, intentId, outputCoin, configId protocol.Hex32, inType, outType protocol.AssetType, gasBudget uint64) rpc.TxPlan {
	return rpc.TxPlan{
		Calls: []rpc.MoveCall{
			{
				Package:       pkg.Hex(),
				Module:        moduleIntent,
				Function:      "execute_intent",
				TypeArguments: []string{inType.String(), outType.String()},
				Arguments: []rpc.Arg{
					rpc.ObjectArg(intentId),
					rpc.ObjectArg(outputCoin),
					rpc.ObjectArg(configId),
					rpc.ObjectArg(protocol.ClockObjectId),
				},
			},
		},
		GasBudget: gasBudget,
	}
}

// PlanCancel releases intentId's escrowed input back to its owner. Only
// valid when the caller is the owner; the contract enforces this, not the
// plan builder.
func PlanCancel(pkg protocol.Hex32, intentId protocol.Hex32, inType, outType protocol.AssetType, gasBudget uint64) rpc.TxPlan {
	return rpc.TxPlan{
		Calls: []rpc.MoveCall{
			{
				Package:       pkg.Hex(),
				Module:        moduleIntent,
				Function:      "cancel_intent",
				TypeArguments: []string{inType.String(), outType.String()},
				Arguments:     []rpc.Arg{rpc.ObjectArg(intentId)},
			},
		},
		GasBudget: gasBudget,
	}
}

// PlanCleanupExpired transitions an expired intent to EXPIRED and returns
// its escrow to owner. Callable by anyone once now > deadline.
func PlanCleanupExpired(pkg protocol.Hex32, intentId protocol.Hex32, inType, outType protocol.AssetType, gasBudget uint64) rpc.TxPlan {
	return rpc.TxPlan{
		Calls: []rpc.MoveCall{
			{
				Package:       pkg.Hex(),
				Module:        moduleIntent,
				Function:      "cleanup_expired",
				TypeArguments: []string{inType.String(), outType.String()},
				Arguments:     []rpc.Arg{rpc.ObjectArg(intentId), rpc.ObjectArg(protocol.ClockObjectId)},
			},
		},
		GasBudget: gasBudget,
	}
}

// PlanDestroy deletes a terminal, zero-balance intent object. The contract
// aborts if the intent is still OPEN or still holds escrow.
func PlanDestroy(pkg protocol.Hex32, intentId protocol.Hex32, inType, outType protocol.AssetType, gasBudget uint64) rpc.TxPlan {
	return rpc.TxPlan{
		Calls: []rpc.MoveCall{
			{
				Package:       pkg.Hex(),
				Module:        moduleIntent,
				Function:      "destroy_intent",
				TypeArguments: []string{inType.String(), outType.String()},
				Arguments:     []rpc.Arg{rpc.ObjectArg(intentId)},
			},
		},
		GasBudget: gasBudget,
	}
}
