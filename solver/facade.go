package solver

import (
	"context"

	"github.com/intentclob/solver/clob"
	"github.com/intentclob/solver/intents"
	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
)

// ExecuteIntent runs the same atomic fill-and-reverse-swap pipeline
// tryExecute uses, but on direct request rather than the engine's own
// discovery: it does not gate on min_profit_bps, since a caller hitting
// /intent/execute has already decided to fill this intent, and it does not
// quote the book first. It returns NoPool/InsufficientBalance/NoFeeCoin
// errors where the background pipeline would skip the intent.
func (e *Engine) ExecuteIntent(ctx context.Context, id protocol.IntentId) (rpc.ExecutionResult, error) {
	release, ok := e.dedupe.tryAcquire(id)
	if !ok {
		return rpc.ExecutionResult{}, protocol.NewError(protocol.KindInvalidArgument, "intent already being processed")
	}
	defer release()

	snap, err := e.rpc.GetObject(ctx, id)
	if err != nil {
		return rpc.ExecutionResult{}, err
	}
	intent, err := intents.ParseIntent(snap)
	if err != nil {
		return rpc.ExecutionResult{}, err
	}
	if intents.IsTerminal(intent) {
		return rpc.ExecutionResult{}, protocol.NewError(protocol.KindInvalidArgument, "intent is already terminal")
	}

	pool, err := e.registry.Find(intent.InputType, intent.OutputType)
	if err != nil {
		return rpc.ExecutionResult{}, err
	}

	bufferedOutput := intent.MinOutputAmount * (protocol.FeeBpsDenominator + e.cfg.OutputBufferBps) / protocol.FeeBpsDenominator
	coins, err := e.rpc.GetCoins(ctx, e.signer.Address(), intent.OutputType.String())
	if err != nil {
		return rpc.ExecutionResult{}, err
	}
	outputCoins, total := selectCoins(coins, bufferedOutput)
	if total < bufferedOutput {
		return rpc.ExecutionResult{}, protocol.NewError(protocol.KindInsufficientBalance, "solver lacks output-type balance to cover intent")
	}
	if e.cfg.DeepFeeCoin.IsZero() {
		return rpc.ExecutionResult{}, protocol.NewError(protocol.KindNoFeeCoin, "no deep fee coin configured")
	}

	plan := buildExecutionPlan(executionPlanInput{
		PackageId:            e.cfg.PackageId,
		ProtocolConfigId:     e.cfg.ProtocolConfigId,
		DeepbookPackage:      e.cfg.DeepbookPackageId,
		DeepFeeCoin:          e.cfg.DeepFeeCoin,
		SolverAddress:        e.signer.Address(),
		Intent:               intent,
		Pool:                 pool,
		OutputCoins:          outputCoins,
		BufferedOutputAmount: bufferedOutput,
		IsSellBase:           pool.BaseType == intent.InputType,
		GasBudget:            e.cfg.MaxGasPrice,
	})

	result, err := e.submit(ctx, plan)
	if err != nil {
		return rpc.ExecutionResult{}, err
	}
	e.metrics.IncExecuted(result.GasUsed, 0)
	return result, nil
}

// CleanupIntent issues a cleanup_expired transaction for id, failing if
// the intent isn't actually expired — the contract itself enforces this,
// but checking here avoids an unnecessary round trip.
func (e *Engine) CleanupIntent(ctx context.Context, id protocol.IntentId, nowMs int64) (rpc.ExecutionResult, error) {
	snap, err := e.rpc.GetObject(ctx, id)
	if err != nil {
		return rpc.ExecutionResult{}, err
	}
	intent, err := intents.ParseIntent(snap)
	if err != nil {
		return rpc.ExecutionResult{}, err
	}
	if !intents.IsExpired(intent, nowMs) {
		return rpc.ExecutionResult{}, protocol.NewError(protocol.KindInvalidArgument, "intent is not yet expired")
	}
	plan := intents.PlanCleanupExpired(e.cfg.PackageId, id, intent.InputType, intent.OutputType, e.cfg.MaxGasPrice)
	return e.submit(ctx, plan)
}

// RPC exposes the engine's rpc client to callers (the façade) that need
// to issue reads without duplicating engine state.
func (e *Engine) RPC() *rpc.Client { return e.rpc }

// PoolRegistry exposes the engine's pool registry.
func (e *Engine) PoolRegistry() *clob.PoolRegistry { return e.registry }

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }
