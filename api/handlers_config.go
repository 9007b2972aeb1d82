package api

import (
	"net/http"

	"github.com/intentclob/solver/intents"
	"github.com/intentclob/solver/protocol"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"packageId":     s.cfg.PackageId.Hex(),
		"pools":         len(s.registry.List()),
		"eventsEnabled": s.engine != nil && s.cfg.EnableEvents,
	})
}

type poolView struct {
	PoolId      string `json:"poolId"`
	BaseType    string `json:"baseType"`
	QuoteType   string `json:"quoteType"`
	BaseScalar  uint64 `json:"baseScalar"`
	QuoteScalar uint64 `json:"quoteScalar"`
	TickSize    uint64 `json:"tickSize"`
}

func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	pools := s.registry.List()
	views := make([]poolView, 0, len(pools))
	for _, p := range pools {
		views = append(views, poolView{
			PoolId:      p.PoolId.Hex(),
			BaseType:    p.BaseType.String(),
			QuoteType:   p.QuoteType.String(),
			BaseScalar:  p.BaseScalar,
			QuoteScalar: p.QuoteScalar,
			TickSize:    p.TickSize,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"pools": views, "aliases": s.cfg.AssetTypeAliases})
}

type configRequest struct {
	ConfigId string `json:"configId,omitempty"`
}

type configResponse struct {
	FeeBps       uint16 `json:"feeBps"`
	FeeRecipient string `json:"feeRecipient"`
	Paused       bool   `json:"paused"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	configId := s.cfg.ProtocolConfigId
	if req.ConfigId != "" {
		id, err := protocol.ParseHex32(req.ConfigId)
		if err != nil {
			s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid configId", err))
			return
		}
		configId = id
	}
	snap, err := s.rpc.GetObject(r.Context(), configId)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cfg, err := intents.ParseProtocolConfig(snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, configResponse{FeeBps: cfg.FeeBps, FeeRecipient: cfg.FeeRecipient.Hex(), Paused: cfg.Paused})
}
