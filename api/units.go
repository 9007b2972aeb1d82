package api

import (
	"math"
	"strings"

	"github.com/intentclob/solver/protocol"
)

// decimalsFor returns the configured exponent for t, defaulting to
// protocol.DefaultExponent when no registered pool names it.
func (s *Server) decimalsFor(t protocol.AssetType) int {
	for _, p := range s.registry.List() {
		switch t {
		case p.BaseType:
			return scalarExponent(p.BaseScalar)
		case p.QuoteType:
			return scalarExponent(p.QuoteScalar)
		}
	}
	return protocol.DefaultExponent
}

func scalarExponent(scalar uint64) int {
	n := 0
	for scalar > 1 {
		scalar /= 10
		n++
	}
	return n
}

// humanToRaw computes round(x * 10^decimals(t)).
func (s *Server) humanToRaw(x float64, t protocol.AssetType) uint64 {
	scale := math.Pow10(s.decimalsFor(t))
	return uint64(math.Round(x * scale))
}

// rawToHuman computes raw / 10^decimals(t).
func (s *Server) rawToHuman(raw uint64, t protocol.AssetType) float64 {
	scale := math.Pow10(s.decimalsFor(t))
	return float64(raw) / scale
}

// resolveAlias resolves alias through the configured alias table,
// defaulting to treating it as a raw Move type tag.
func (s *Server) resolveAlias(alias string) protocol.AssetType {
	return s.cfg.ResolveAlias(alias)
}

func splitPairAlias(pair string) (string, string, bool) {
	parts := strings.SplitN(pair, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
