// Command solverd runs the intent discovery/execution engine and its HTTP
// façade in a single process. It takes no flags; every setting comes from
// the environment (see internal/config).
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/intentclob/solver/api"
	"github.com/intentclob/solver/clob"
	"github.com/intentclob/solver/internal/config"
	"github.com/intentclob/solver/rpc"
	"github.com/intentclob/solver/solver"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		return 1
	}

	log, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "build logger:", err)
		return 1
	}
	defer log.Sync()

	if cfg.RPCURL == "" {
		log.Error("RPC_URL is required")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := rpc.New(cfg.RPCURL, nil)
	if cfg.RPCWSURL != "" {
		client.WithWebsocketURL(cfg.RPCWSURL)
	}

	registry := clob.NewPoolRegistry()
	if err := loadPools(ctx, client, registry, cfg); err != nil {
		log.Error("load pools", zap.Error(err))
		return 1
	}

	var solverSigner solver.Signer
	if cfg.SolverPrivateKey != "" {
		solverSigner, err = api.NewLocalSigner(cfg.SolverPrivateKey)
		if err != nil {
			log.Error("load solver key", zap.Error(err))
			return 1
		}
	}
	var userSigner solver.Signer
	if cfg.UserPrivateKey != "" {
		userSigner, err = api.NewLocalSigner(cfg.UserPrivateKey)
		if err != nil {
			log.Error("load user key", zap.Error(err))
			return 1
		}
	}

	var engine *solver.Engine
	if solverSigner != nil {
		engineCfg := solver.DefaultConfig()
		engineCfg.PackageId = cfg.PackageId
		engineCfg.ProtocolConfigId = cfg.ProtocolConfigId
		engineCfg.DeepbookPackageId = cfg.DeepbookPackageId
		engineCfg.DeepFeeCoin = cfg.DeepFeeCoin
		engineCfg.SolverAddress = solverSigner.Address()
		engineCfg.PollInterval = cfg.PollingInterval
		engineCfg.MinProfitBps = cfg.MinProfitBps
		engineCfg.MaxGasPrice = cfg.MaxGasPrice
		engineCfg.EnableEvents = cfg.EnableEvents

		engine = solver.NewEngine(engineCfg, client, registry, solverSigner, log)
		if err := engine.ColdStart(ctx); err != nil {
			log.Error("cold start check failed", zap.Error(err))
			return 1
		}
	} else {
		log.Warn("SOLVER_PRIVATE_KEY not set: running façade only, no execution engine")
	}

	srv := api.New(api.Deps{
		Config:       cfg,
		RPC:          client,
		Registry:     registry,
		Engine:       engine,
		UserSigner:   userSigner,
		SolverSigner: solverSigner,
		Log:          log,
		DevMode:      strings.EqualFold(os.Getenv("DEV_MODE"), "true"),
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if engine == nil {
			return
		}
		errCh <- engine.Run(ctx)
	}()
	go func() {
		log.Info("http listen", zap.String("port", cfg.APIPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error("fatal error", zap.Error(err))
			shutdown(httpServer, log)
			return 2
		}
	}

	shutdown(httpServer, log)
	return 0
}

func shutdown(httpServer *http.Server, log *zap.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
}

// loadPools fetches pool descriptors for every POOL_ID_<A>_<B> override
// configured in the environment. A deployment with no overrides starts
// with an empty registry, and its quote/orderbook requests fail with
// NoPool (HTTP 400), rather than failing startup.
func loadPools(ctx context.Context, client *rpc.Client, registry *clob.PoolRegistry, cfg config.Config) error {
	for pairAlias, poolId := range cfg.PoolIdOverrides {
		pool, err := clob.FetchPool(ctx, client, poolId)
		if err != nil {
			return fmt.Errorf("fetch pool %s (%s): %w", pairAlias, poolId.Hex(), err)
		}
		if err := registry.Register(pool); err != nil {
			return fmt.Errorf("register pool %s: %w", pairAlias, err)
		}
	}
	return nil
}

func newLogger() (*zap.Logger, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
