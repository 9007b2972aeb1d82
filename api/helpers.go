package api

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
	"github.com/intentclob/solver/solver"
)

// signAndSubmit builds plan for sender's own address, signs with signer,
// and submits it, returning the chain's execution result.
func (s *Server) signAndSubmit(ctx context.Context, signer solver.Signer, plan rpc.TxPlan) (rpc.ExecutionResult, error) {
	txBytes, err := s.rpc.BuildUnsigned(ctx, plan, signer.Address())
	if err != nil {
		return rpc.ExecutionResult{}, err
	}
	sig, err := signer.Sign(ctx, txBytes)
	if err != nil {
		return rpc.ExecutionResult{}, protocol.WrapError(protocol.KindFatal, "sign failed", err)
	}
	return s.rpc.ExecuteSigned(ctx, txBytes, sig)
}

// buildOnly returns the base64 unsigned transaction bytes for plan
// without signing or submitting it, for wallet-driven callers.
func (s *Server) buildOnly(w http.ResponseWriter, r *http.Request, sender protocol.Hex32, plan rpc.TxPlan) {
	txBytes, err := s.rpc.BuildUnsigned(r.Context(), plan, sender)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildResponse{TxBytesBase64: base64.StdEncoding.EncodeToString(txBytes)})
}

// selectCoinsForBuild returns the first coin whose own balance covers
// target, or (nil, total) if none alone does — build-only endpoints
// don't construct the merge step a caller's wallet would need.
func selectCoinsForBuild(coins []rpc.CoinInfo, target uint64) ([]protocol.Hex32, uint64) {
	var total uint64
	for _, c := range coins {
		total += c.Balance
		if c.Balance >= target {
			return []protocol.Hex32{c.CoinId}, c.Balance
		}
	}
	return nil, total
}
