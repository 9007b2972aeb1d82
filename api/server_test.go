package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/intentclob/solver/clob"
	"github.com/intentclob/solver/internal/config"
	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
	"github.com/intentclob/solver/solver"
)

func testServer(t *testing.T, rpcURL string) *Server {
	t.Helper()
	registry := clob.NewPoolRegistry()
	require.NoError(t, registry.Register(protocol.Pool{
		PoolId:      protocol.PoolId{0x01},
		BaseType:    "0x2::sui::SUI",
		QuoteType:   "test::usdc::USDC",
		BaseScalar:  1_000_000_000,
		QuoteScalar: 1_000_000,
		TickSize:    1,
		LotSize:     1,
	}))
	cfg := config.Config{
		APIPort:          "8080",
		PackageId:        protocol.Hex32{0xaa},
		ProtocolConfigId: protocol.Hex32{0xbb},
		AssetTypeAliases: map[string]protocol.AssetType{
			"SUI":  "0x2::sui::SUI",
			"USDC": "test::usdc::USDC",
		},
		PoolIdOverrides: map[string]protocol.PoolId{},
	}
	return New(Deps{
		Config:   cfg,
		RPC:      rpc.New(rpcURL, nil),
		Registry: registry,
		Log:      zap.NewNop(),
	})
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t, "http://unused.invalid")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}

func TestHandleMetrics_ExposesPrometheusFormat(t *testing.T) {
	solver.NewMetrics() // forces the package-level prometheus counters to register
	s := testServer(t, "http://unused.invalid")
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "intentclob_solver_intents_processed_total")
}

func TestHandlePools(t *testing.T) {
	s := testServer(t, "http://unused.invalid")
	req := httptest.NewRequest(http.MethodGet, "/pools", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Pools []poolView `json:"pools"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Pools, 1)
}

func TestHandleQuote_NoPoolReturns400(t *testing.T) {
	s := testServer(t, "http://unused.invalid")
	payload, err := json.Marshal(quoteRequest{From: "SUI", To: "DEEP", Amount: 1})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/quote", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestHandleIntentExecute_NoEngineConfigured(t *testing.T) {
	s := testServer(t, "http://unused.invalid")
	payload, err := json.Marshal(intentExecuteRequest{IntentId: protocol.Hex32{0x01}.Hex()})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/intent/execute", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
}
