package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/intentclob/solver/intents"
	"github.com/intentclob/solver/protocol"
)

type intentView struct {
	Id              string  `json:"id"`
	Owner           string  `json:"owner"`
	InputType       string  `json:"inputType"`
	OutputType      string  `json:"outputType"`
	InputAmount     float64 `json:"inputAmount"`
	InputRaw        uint64  `json:"inputRaw"`
	MinOutputAmount float64 `json:"minOutputAmount"`
	MinOutputRaw    uint64  `json:"minOutputRaw"`
	Deadline        int64   `json:"deadline"`
	Status          string  `json:"status"`
	Expired         bool    `json:"expired"`
	Solver          string  `json:"solver,omitempty"`
}

func (s *Server) intentToView(intent protocol.Intent) intentView {
	v := intentView{
		Id:              intent.Id.Hex(),
		Owner:           intent.Owner.Hex(),
		InputType:       intent.InputType.String(),
		OutputType:      intent.OutputType.String(),
		InputAmount:     s.rawToHuman(intent.InputBalance, intent.InputType),
		InputRaw:        intent.InputBalance,
		MinOutputAmount: s.rawToHuman(intent.MinOutputAmount, intent.OutputType),
		MinOutputRaw:    intent.MinOutputAmount,
		Deadline:        intent.Deadline,
		Status:          intent.Status.String(),
		Expired:         intents.IsExpired(intent, time.Now().UnixMilli()),
	}
	if intent.Solver != nil {
		v.Solver = intent.Solver.Hex()
	}
	return v
}

type intentRequest struct {
	Id string `json:"id"`
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := protocol.ParseHex32(req.Id)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid id", err))
		return
	}
	snap, err := s.rpc.GetObject(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	intent, err := intents.ParseIntent(snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.intentToView(intent))
}

type intentCreateRequest struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	Amount          float64 `json:"amount"`
	MinOutput       float64 `json:"minOutput"`
	DeadlineSeconds int64   `json:"deadlineSeconds"`
	InputCoin       string  `json:"inputCoin"`
}

type submitResponse struct {
	Digest  string `json:"digest"`
	GasUsed uint64 `json:"gasUsed"`
}

// handleIntentCreate is the test path: the façade signs with its own
// server-held user key rather than the caller's, so no wallet
// interaction is required to exercise create_intent end to end.
func (s *Server) handleIntentCreate(w http.ResponseWriter, r *http.Request) {
	var req intentCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if s.userSigner == nil {
		s.writeError(w, protocol.NewError(protocol.KindInvalidArgument, "server has no user signing key configured"))
		return
	}
	inputCoin, err := protocol.ParseHex32(req.InputCoin)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid inputCoin", err))
		return
	}
	inType := s.resolveAlias(req.From)
	outType := s.resolveAlias(req.To)
	minOutputRaw := s.humanToRaw(req.MinOutput, outType)
	deadlineDeltaMs := uint64(req.DeadlineSeconds) * 1000

	plan := intents.PlanCreate(s.cfg.PackageId, inputCoin, inType, outType, minOutputRaw, deadlineDeltaMs, s.cfg.MaxGasPrice)
	result, err := s.signAndSubmit(r.Context(), s.userSigner, plan)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Digest: result.Digest, GasUsed: result.GasUsed})
}

type intentExecuteRequest struct {
	IntentId string `json:"intentId"`
}

func (s *Server) handleIntentExecute(w http.ResponseWriter, r *http.Request) {
	var req intentExecuteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := protocol.ParseHex32(req.IntentId)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid intentId", err))
		return
	}
	if s.engine == nil {
		s.writeError(w, protocol.NewError(protocol.KindFatal, "solver engine not configured"))
		return
	}
	result, err := s.engine.ExecuteIntent(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Digest: result.Digest, GasUsed: result.GasUsed})
}

type intentCancelRequest struct {
	IntentId string `json:"intentId"`
}

func (s *Server) handleIntentCancel(w http.ResponseWriter, r *http.Request) {
	var req intentCancelRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if s.userSigner == nil {
		s.writeError(w, protocol.NewError(protocol.KindInvalidArgument, "server has no user signing key configured"))
		return
	}
	id, err := protocol.ParseHex32(req.IntentId)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid intentId", err))
		return
	}
	snap, err := s.rpc.GetObject(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	intent, err := intents.ParseIntent(snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	plan := intents.PlanCancel(s.cfg.PackageId, id, intent.InputType, intent.OutputType, s.cfg.MaxGasPrice)
	result, err := s.signAndSubmit(r.Context(), s.userSigner, plan)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Digest: result.Digest, GasUsed: result.GasUsed})
}

type intentsOpenRequest struct {
	Limit         int  `json:"limit"`
	IncludeExpired bool `json:"includeExpired"`
}

func (s *Server) intentCreatedEventType() string {
	return fmt.Sprintf("%s::intent::IntentCreated", s.cfg.PackageId.Hex())
}

func (s *Server) handleIntentsOpen(w http.ResponseWriter, r *http.Request) {
	var req intentsOpenRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	events, err := s.rpc.QueryEvents(r.Context(), s.intentCreatedEventType(), limit, true)
	if err != nil {
		s.writeError(w, err)
		return
	}

	nowMs := time.Now().UnixMilli()
	views := make([]intentView, 0, len(events))
	for _, env := range events {
		parsed, err := intents.ParseEvent(env)
		if err != nil {
			continue
		}
		created, ok := parsed.(protocol.IntentCreated)
		if !ok {
			continue
		}
		snap, err := s.rpc.GetObject(r.Context(), created.IntentId)
		if err != nil {
			continue
		}
		intent, err := intents.ParseIntent(snap)
		if err != nil {
			continue
		}
		if intents.IsTerminal(intent) {
			continue
		}
		if !req.IncludeExpired && intent.IsExpired(nowMs) {
			continue
		}
		views = append(views, s.intentToView(intent))
	}
	writeJSON(w, http.StatusOK, map[string]any{"intents": views})
}

type intentsHistoryRequest struct {
	Limit int `json:"limit"`
}

type historyEntry struct {
	Kind  string `json:"kind"`
	Event any    `json:"event"`
}

func (s *Server) handleIntentsHistory(w http.ResponseWriter, r *http.Request) {
	var req intentsHistoryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	createdType := s.intentCreatedEventType()
	executedType := fmt.Sprintf("%s::intent::IntentExecuted", s.cfg.PackageId.Hex())

	created, err := s.rpc.QueryEvents(r.Context(), createdType, limit, true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	executed, err := s.rpc.QueryEvents(r.Context(), executedType, limit, true)
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries := make([]historyEntry, 0, len(created)+len(executed))
	for _, env := range created {
		if parsed, err := intents.ParseEvent(env); err == nil {
			entries = append(entries, historyEntry{Kind: "created", Event: parsed})
		}
	}
	for _, env := range executed {
		if parsed, err := intents.ParseEvent(env); err == nil {
			entries = append(entries, historyEntry{Kind: "executed", Event: parsed})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

type buildCreateRequest struct {
	Sender          string  `json:"sender"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	Amount          float64 `json:"amount"`
	MinOutput       float64 `json:"minOutput"`
	DeadlineSeconds int64   `json:"deadlineSeconds"`
	InputCoin       string  `json:"inputCoin"`
}

type buildResponse struct {
	TxBytesBase64 string `json:"txBytes"`
}

func (s *Server) handleIntentBuildCreate(w http.ResponseWriter, r *http.Request) {
	var req buildCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sender, err := protocol.ParseHex32(req.Sender)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid sender", err))
		return
	}
	inputCoin, err := protocol.ParseHex32(req.InputCoin)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid inputCoin", err))
		return
	}
	inType := s.resolveAlias(req.From)
	outType := s.resolveAlias(req.To)
	plan := intents.PlanCreate(s.cfg.PackageId, inputCoin, inType, outType,
		s.humanToRaw(req.MinOutput, outType), uint64(req.DeadlineSeconds)*1000, s.cfg.MaxGasPrice)

	s.buildOnly(w, r, sender, plan)
}

type buildByIntentRequest struct {
	Sender   string `json:"sender"`
	IntentId string `json:"intentId"`
}

func (s *Server) handleIntentBuildExecute(w http.ResponseWriter, r *http.Request) {
	var req buildByIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sender, err := protocol.ParseHex32(req.Sender)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid sender", err))
		return
	}
	id, err := protocol.ParseHex32(req.IntentId)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid intentId", err))
		return
	}
	snap, err := s.rpc.GetObject(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	intent, err := intents.ParseIntent(snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	coins, err := s.rpc.GetCoins(r.Context(), sender, intent.OutputType.String())
	if err != nil {
		s.writeError(w, err)
		return
	}
	outputCoins, total := selectCoinsForBuild(coins, intent.MinOutputAmount)
	if total < intent.MinOutputAmount || len(outputCoins) == 0 {
		s.writeError(w, protocol.NewError(protocol.KindInsufficientBalance, "sender lacks output-type balance to cover intent"))
		return
	}
	plan := intents.PlanExecute(s.cfg.PackageId, id, outputCoins[0], s.cfg.ProtocolConfigId, intent.InputType, intent.OutputType, s.cfg.MaxGasPrice)
	s.buildOnly(w, r, sender, plan)
}

func (s *Server) handleIntentBuildCancel(w http.ResponseWriter, r *http.Request) {
	var req buildByIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sender, err := protocol.ParseHex32(req.Sender)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid sender", err))
		return
	}
	id, err := protocol.ParseHex32(req.IntentId)
	if err != nil {
		s.writeError(w, protocol.WrapError(protocol.KindInvalidArgument, "invalid intentId", err))
		return
	}
	snap, err := s.rpc.GetObject(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	intent, err := intents.ParseIntent(snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	plan := intents.PlanCancel(s.cfg.PackageId, id, intent.InputType, intent.OutputType, s.cfg.MaxGasPrice)
	s.buildOnly(w, r, sender, plan)
}
