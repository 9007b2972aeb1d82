// Package api is the single-process HTTP façade: it accepts JSON, calls
// into the rpc/intents/clob/solver packages, and returns JSON. It trusts
// its caller; no authentication is specified.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/intentclob/solver/clob"
	"github.com/intentclob/solver/internal/config"
	"github.com/intentclob/solver/rpc"
	"github.com/intentclob/solver/solver"
)

// Server holds every dependency a handler might need. The pool registry
// is read-only after startup; engine and rpc client are safe for
// concurrent use by many request handlers.
type Server struct {
	cfg      config.Config
	rpc      *rpc.Client
	registry *clob.PoolRegistry
	quoter   *clob.Quoter
	engine   *solver.Engine

	userSigner   solver.Signer // server-held key for the /intent/create test path
	solverSigner solver.Signer

	log     *zap.Logger
	devMode bool

	router http.Handler
}

type Deps struct {
	Config       config.Config
	RPC          *rpc.Client
	Registry     *clob.PoolRegistry
	Engine       *solver.Engine
	UserSigner   solver.Signer
	SolverSigner solver.Signer
	Log          *zap.Logger
	DevMode      bool
}

func New(d Deps) *Server {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	s := &Server{
		cfg:          d.Config,
		rpc:          d.RPC,
		registry:     d.Registry,
		quoter:       clob.NewQuoter(d.Registry),
		engine:       d.Engine,
		userSigner:   d.UserSigner,
		solverSigner: d.SolverSigner,
		log:          d.Log,
		devMode:      d.DevMode,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", s.handleHealth)
	r.Get("/pools", s.handlePools)
	r.Post("/quote", s.handleQuote)
	r.Post("/orderbook", s.handleOrderbook)
	r.Post("/price", s.handlePrice)

	r.Post("/intent", s.handleIntent)
	r.Post("/intent/create", s.handleIntentCreate)
	r.Post("/intent/execute", s.handleIntentExecute)
	r.Post("/intent/cancel", s.handleIntentCancel)
	r.Post("/intents/open", s.handleIntentsOpen)
	r.Post("/intents/history", s.handleIntentsHistory)
	r.Post("/intent/build/create", s.handleIntentBuildCreate)
	r.Post("/intent/build/execute", s.handleIntentBuildExecute)
	r.Post("/intent/build/cancel", s.handleIntentBuildCancel)

	r.Post("/tx/execute", s.handleTxExecute)
	r.Post("/wallet/balance", s.handleWalletBalance)
	r.Post("/config", s.handleConfig)
	r.Get("/solver/metrics", s.handleSolverMetrics)

	return r
}

// requestID stamps every request with a uuid, mirroring chi's own
// RequestID middleware but using google/uuid so the id is also usable as
// an idempotency/trace key elsewhere.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", w.Header().Get("X-Request-Id")),
		)
	})
}
