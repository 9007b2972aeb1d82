package api

import (
	"encoding/base64"
	"net/http"

	"github.com/intentclob/solver/protocol"
)

type txExecuteRequest struct {
	TxBytes   string `json:"txBytes"`
	Signature string `json:"signature"`
}

func (s *Server) handleTxExecute(w http.ResponseWriter, r *http.Request) {
	var req txExecuteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	txBytes, err := base64.StdEncoding.DecodeString(req.TxBytes)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid txBytes", err))
		return
	}
	signature, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid signature", err))
		return
	}
	result, err := s.rpc.ExecuteSigned(r.Context(), txBytes, signature)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Digest: result.Digest, GasUsed: result.GasUsed})
}

type walletBalanceRequest struct {
	Address string `json:"address"`
}

type walletBalanceEntry struct {
	Alias string  `json:"alias"`
	Raw   uint64  `json:"raw"`
	Human float64 `json:"human"`
}

func (s *Server) handleWalletBalance(w http.ResponseWriter, r *http.Request) {
	var req walletBalanceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	owner, err := protocol.ParseHex32(req.Address)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid address", err))
		return
	}

	balances := make([]walletBalanceEntry, 0, len(s.cfg.AssetTypeAliases))
	for alias, assetType := range s.cfg.AssetTypeAliases {
		coins, err := s.rpc.GetCoins(r.Context(), owner, assetType.String())
		if err != nil {
			s.writeError(w, err)
			return
		}
		var total uint64
		for _, c := range coins {
			total += c.Balance
		}
		balances = append(balances, walletBalanceEntry{Alias: alias, Raw: total, Human: s.rawToHuman(total, assetType)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"address": owner.Hex(), "balances": balances})
}
