package api

import (
	"encoding/json"
	"net/http"

	"github.com/intentclob/solver/protocol"
)

// errorResponse is the façade's one error shape: {success:false, error,
// stack?}, stack populated only in dev mode.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Stack   string `json:"stack,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusForKind(protocol.KindOf(err))
	resp := errorResponse{Success: false, Error: err.Error()}
	if s.devMode {
		resp.Stack = err.Error()
	}
	writeJSON(w, status, resp)
}

func statusForKind(kind protocol.Kind) int {
	switch kind {
	case protocol.KindInvalidArgument:
		return http.StatusBadRequest
	case protocol.KindNotFound:
		return http.StatusNotFound
	case protocol.KindNoPool, protocol.KindNoLiquidity, protocol.KindInsufficientBalance, protocol.KindNoFeeCoin:
		return http.StatusBadRequest
	case protocol.KindReverted:
		return http.StatusConflict
	case protocol.KindTransient:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return protocol.WrapError(protocol.KindInvalidArgument, "invalid json body", err)
	}
	return nil
}
