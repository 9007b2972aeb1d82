package api

import (
	"net/http"

	"github.com/intentclob/solver/protocol"
)

func (s *Server) handleSolverMetrics(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		s.writeError(w, protocol.NewError(protocol.KindInvalidArgument, "solver engine is not running in this process"))
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Metrics().Snapshot())
}
