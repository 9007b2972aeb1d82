package solver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/intentclob/solver/clob"
	"github.com/intentclob/solver/intents"
	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
)

// coldStartProbe is the pair every deployment is expected to have a pool
// for; ColdStart uses it to fail fast if the RPC endpoint or pool registry is
// misconfigured rather than discovering that on the first real intent.
var coldStartProbe = struct {
	Base, Quote protocol.AssetType
}{Base: "0x2::sui::SUI", Quote: "usdc::USDC"}

// Engine is the event-driven solver: it discovers open intents via polling
// and (optionally) push subscription, evaluates each for profitability
// against the on-chain CLOB, and atomically fills the profitable ones.
type Engine struct {
	cfg      Config
	registry *clob.PoolRegistry
	rpc      *rpc.Client
	quoter   *clob.Quoter
	signer   Signer
	metrics  *Metrics
	dedupe   *dedupeSet
	log      *zap.Logger
}

func NewEngine(cfg Config, client *rpc.Client, registry *clob.PoolRegistry, signer Signer, log *zap.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		registry: registry,
		rpc:      client,
		quoter:   clob.NewQuoter(registry),
		signer:   signer,
		metrics:  NewMetrics(),
		dedupe:   newDedupeSet(),
		log:      log,
	}
}

func (e *Engine) Metrics() *Metrics { return e.metrics }

func (e *Engine) intentCreatedEventType() string {
	return fmt.Sprintf("%s::%s::IntentCreated", e.cfg.PackageId.Hex(), moduleIntent)
}

// ColdStart verifies the engine can actually quote against the chain
// before Run commits to its discovery loops, and validates the configured
// gas budget against the network's current reference price. A failure
// here means the RPC endpoint, pool registry, or gas budget is
// misconfigured; starting anyway would just fail silently on the first
// real intent.
func (e *Engine) ColdStart(ctx context.Context) error {
	pool, err := e.registry.Find(coldStartProbe.Base, coldStartProbe.Quote)
	if err != nil {
		return err
	}
	probeSender := e.signer.Address()
	_, _, err = e.quoter.Level2(ctx, e.rpc, e.cfg.DeepbookPackageId, pool.BaseType, pool.QuoteType, 20, probeSender)
	if err != nil {
		return fmt.Errorf("solver: cold start probe failed: %w", err)
	}
	e.log.Info("cold start probe ok", zap.String("pool", pool.PoolId.Hex()))

	refPrice, err := e.rpc.ReferenceGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("solver: reference gas price probe failed: %w", err)
	}
	if e.cfg.MaxGasPrice == 0 {
		e.cfg.MaxGasPrice = refPrice
	} else if e.cfg.MaxGasPrice < refPrice {
		return fmt.Errorf("solver: configured max_gas_price %d is below the network reference gas price %d", e.cfg.MaxGasPrice, refPrice)
	}
	e.log.Info("gas budget ok", zap.Uint64("max_gas_price", e.cfg.MaxGasPrice), zap.Uint64("reference_gas_price", refPrice))
	return nil
}

// Run blocks, driving the poller and (if enabled) the push subscriber
// until ctx is cancelled. Both discovery paths feed the same process
// pipeline; the dedupe set is what makes running them concurrently safe.
func (e *Engine) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() { errCh <- e.runPoller(ctx) }()

	if e.cfg.EnableEvents {
		go func() { errCh <- e.runSubscriber(ctx) }()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// runPoller periodically re-lists recently created intents. It is the
// discovery path of record: correct even if the push subscription never
// connects, just on a poll_interval-bounded delay.
func (e *Engine) runPoller(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			events, err := e.rpc.QueryEvents(ctx, e.intentCreatedEventType(), e.cfg.PollLimit, true)
			if err != nil {
				e.log.Warn("poll query failed", zap.Error(err))
				continue
			}
			for _, env := range events {
				parsed, err := intents.ParseEvent(env)
				if err != nil {
					e.log.Warn("poll event parse failed", zap.Error(err))
					continue
				}
				created, ok := parsed.(protocol.IntentCreated)
				if !ok {
					continue
				}
				go e.process(ctx, created.IntentId)
			}
		}
	}
}

// runSubscriber maintains a push subscription on IntentCreated and feeds
// every notification into the same pipeline the poller uses. Reconnects
// are handled by the rpc layer; duplicate deliveries across a reconnect
// are absorbed by the dedupe set, not here.
func (e *Engine) runSubscriber(ctx context.Context) error {
	events, unsubscribe, err := e.rpc.SubscribeEvents(ctx, e.intentCreatedEventType())
	if err != nil {
		return fmt.Errorf("solver: subscribe failed: %w", err)
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-events:
			if !ok {
				return nil
			}
			parsed, err := intents.ParseEvent(env)
			if err != nil {
				e.log.Warn("subscription event parse failed", zap.Error(err))
				continue
			}
			created, ok := parsed.(protocol.IntentCreated)
			if !ok {
				continue
			}
			go e.process(ctx, created.IntentId)
		}
	}
}

// process runs one intent through the full pipeline: dedupe, expiry
// check, profitability evaluation, and (if worthwhile) execution. Every
// exit path releases the dedupe entry exactly once.
func (e *Engine) process(ctx context.Context, id protocol.IntentId) {
	release, ok := e.dedupe.tryAcquire(id)
	if !ok {
		return
	}
	defer release()

	e.metrics.IncProcessed()
	log := e.log.With(zap.String("intent_id", id.Hex()))

	snap, err := e.rpc.GetObject(ctx, id)
	if err != nil {
		log.Warn("get intent object failed", zap.Error(err))
		return
	}
	intent, err := intents.ParseIntent(snap)
	if err != nil {
		log.Warn("parse intent failed", zap.Error(err))
		return
	}
	if intents.IsTerminal(intent) {
		return
	}

	nowMs := time.Now().UnixMilli()
	if intents.IsExpired(intent, nowMs) {
		e.cleanup(ctx, intent, log)
		return
	}

	e.tryExecute(ctx, intent, log)
}

func (e *Engine) cleanup(ctx context.Context, intent protocol.Intent, log *zap.Logger) {
	plan := intents.PlanCleanupExpired(e.cfg.PackageId, intent.Id, intent.InputType, intent.OutputType, e.cfg.MaxGasPrice)
	if _, err := e.submit(ctx, plan); err != nil {
		log.Warn("cleanup failed", zap.Error(err))
		return
	}
	log.Info("cleaned up expired intent")
}

// tryExecute quotes the reverse swap the solver would need to perform to
// fill intent, decides whether the resulting spread clears the configured
// profitability bar, and if so builds and submits the atomic execution
// PTB. Every rejection path is a metrics.IncSkipped, never an error: an
// unprofitable or under-collateralized intent is a normal outcome, not a
// fault.
func (e *Engine) tryExecute(ctx context.Context, intent protocol.Intent, log *zap.Logger) {
	pool, err := e.registry.Find(intent.InputType, intent.OutputType)
	if err != nil {
		log.Debug("no pool for intent pair", zap.Error(err))
		e.metrics.IncSkipped()
		return
	}

	quote, err := e.quoter.Quote(ctx, e.rpc, e.cfg.DeepbookPackageId, intent.InputType, intent.OutputType, intent.InputBalance, 20, e.signer.Address())
	if err != nil {
		log.Debug("quote failed", zap.Error(err))
		e.metrics.IncSkipped()
		return
	}

	if quote.OutputRaw <= intent.MinOutputAmount {
		e.metrics.IncSkipped()
		return
	}
	profitRaw := quote.OutputRaw - intent.MinOutputAmount
	profitBps := protocol.ProfitBps(profitRaw, intent.InputBalance)
	if profitBps < e.cfg.MinProfitBps {
		e.metrics.IncSkipped()
		return
	}

	bufferedOutput := intent.MinOutputAmount * (protocol.FeeBpsDenominator + e.cfg.OutputBufferBps) / protocol.FeeBpsDenominator

	coins, err := e.rpc.GetCoins(ctx, e.signer.Address(), intent.OutputType.String())
	if err != nil {
		log.Warn("get output coins failed", zap.Error(err))
		e.metrics.IncSkipped()
		return
	}
	outputCoins, total := selectCoins(coins, bufferedOutput)
	if total < bufferedOutput {
		log.Debug("insufficient solver balance to cover intent", zap.Uint64("needed", bufferedOutput), zap.Uint64("have", total))
		e.metrics.IncSkipped()
		return
	}
	if e.cfg.DeepFeeCoin.IsZero() {
		log.Warn("no deep fee coin configured")
		e.metrics.IncSkipped()
		return
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
		switch protocol.KindOf(err) {
		case protocol.KindReverted:
			log.Warn("execution reverted", zap.Error(err))
		case protocol.KindTransient:
			log.Info("execution transient failure, will retry on next discovery", zap.Error(err))
		default:
			log.Error("execution failed", zap.Error(err))
		}
		return
	}
	e.metrics.IncExecuted(result.GasUsed, profitRaw)
	log.Info("filled intent", zap.Uint64("profit_raw", profitRaw), zap.Uint64("gas_used", result.GasUsed))
}

func (e *Engine) submit(ctx context.Context, plan rpc.TxPlan) (rpc.ExecutionResult, error) {
	txBytes, err := e.rpc.BuildUnsigned(ctx, plan, e.signer.Address())
	if err != nil {
		return rpc.ExecutionResult{}, err
	}
	sig, err := e.signer.Sign(ctx, txBytes)
	if err != nil {
		return rpc.ExecutionResult{}, protocol.WrapError(protocol.KindFatal, "sign failed", err)
	}
	return e.rpc.ExecuteSigned(ctx, txBytes, sig)
}

// selectCoins greedily accumulates coins until their balances sum to at
// least target, returning the ids used and the actual total (which may
// exceed target; the split call in the PTB carves off the exact amount).
func selectCoins(coins []rpc.CoinInfo, target uint64) ([]protocol.Hex32, uint64) {
	var ids []protocol.Hex32
	var total uint64
	for _, c := range coins {
		ids = append(ids, c.CoinId)
		total += c.Balance
		if total >= target {
			break
		}
	}
	return ids, total
}
