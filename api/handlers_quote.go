package api

import (
	"net/http"

	"github.com/intentclob/solver/protocol"
)

type quoteRequest struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type quoteResponse struct {
	InputRaw       uint64  `json:"inputRaw"`
	OutputRaw      uint64  `json:"outputRaw"`
	Amount         float64 `json:"amount"`
	Output         float64 `json:"output"`
	MidPrice       float64 `json:"midPrice"`
	BestBid        float64 `json:"bestBid"`
	BestAsk        float64 `json:"bestAsk"`
	PriceImpactPct float64 `json:"priceImpactPct"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	inType := s.resolveAlias(req.From)
	outType := s.resolveAlias(req.To)
	inputRaw := s.humanToRaw(req.Amount, inType)

	q, err := s.quoter.Quote(r.Context(), s.rpc, s.cfg.DeepbookPackageId, inType, outType, inputRaw, 20, s.signerAddressOrZero())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{
		InputRaw:       q.InputRaw,
		OutputRaw:      q.OutputRaw,
		Amount:         req.Amount,
		Output:         s.rawToHuman(q.OutputRaw, outType),
		MidPrice:       q.MidPrice,
		BestBid:        q.BestBid,
		BestAsk:        q.BestAsk,
		PriceImpactPct: q.PriceImpactPct,
	})
}

type orderbookRequest struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

type orderbookResponse struct {
	Bids     []protocol.PriceLevel `json:"bids"`
	Asks     []protocol.PriceLevel `json:"asks"`
	MidPrice float64               `json:"midPrice"`
	BestBid  float64               `json:"bestBid"`
	BestAsk  float64               `json:"bestAsk"`
}

func (s *Server) handleOrderbook(w http.ResponseWriter, r *http.Request) {
	var req orderbookRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	base := s.resolveAlias(req.Base)
	quote := s.resolveAlias(req.Quote)

	_, snap, err := s.quoter.Level2(r.Context(), s.rpc, s.cfg.DeepbookPackageId, base, quote, 20, s.signerAddressOrZero())
	if err != nil {
		s.writeError(w, err)
		return
	}
	bestBid, _ := snap.BestBid()
	bestAsk, _ := snap.BestAsk()
	writeJSON(w, http.StatusOK, orderbookResponse{
		Bids:     snap.Bids,
		Asks:     snap.Asks,
		MidPrice: snap.MidPrice(),
		BestBid:  bestBid.Price,
		BestAsk:  bestAsk.Price,
	})
}

type priceRequest struct {
	Pair string `json:"pair"`
}

type priceResponse struct {
	MidPrice float64 `json:"midPrice"`
	BestBid  float64 `json:"bestBid"`
	BestAsk  float64 `json:"bestAsk"`
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	baseAlias, quoteAlias, ok := splitPairAlias(req.Pair)
	if !ok {
		s.writeError(w, protocol.NewError(protocol.KindInvalidArgument, "pair must be \"A_B\""))
		return
	}
	base := s.resolveAlias(baseAlias)
	quote := s.resolveAlias(quoteAlias)

	_, snap, err := s.quoter.Level2(r.Context(), s.rpc, s.cfg.DeepbookPackageId, base, quote, 20, s.signerAddressOrZero())
	if err != nil {
		s.writeError(w, err)
		return
	}
	bestBid, _ := snap.BestBid()
	bestAsk, _ := snap.BestAsk()
	writeJSON(w, http.StatusOK, priceResponse{MidPrice: snap.MidPrice(), BestBid: bestBid.Price, BestAsk: bestAsk.Price})
}

func (s *Server) signerAddressOrZero() protocol.Address {
	if s.solverSigner == nil {
		return protocol.Address{}
	}
	return s.solverSigner.Address()
}
