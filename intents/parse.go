package intents

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
)

// ParseIntent extracts an Intent from an object read, including the two
// TypeNames parameterising the on-chain object's declared type. Returns
// protocol.KindNotFound if snap carries no fields (the object doesn't
// exist, or was read with the wrong projection).
func ParseIntent(snap rpc.ObjectSnapshot) (protocol.Intent, error) {
	if len(snap.Fields) == 0 {
		return protocol.Intent{}, protocol.NewError(protocol.KindNotFound, "intent object has no fields")
	}
	inType, outType, err := typeArgsOf(snap.Type)
	if err != nil {
		return protocol.Intent{}, err
	}

	var fields struct {
		Owner           string          `json:"owner"`
		InputBalance    json.RawMessage `json:"input_balance"`
		MinOutputAmount string          `json:"min_output_amount"`
		Deadline        string          `json:"deadline"`
		Status          any             `json:"status"`
		Solver          *string         `json:"solver"`
	}
	if err := json.Unmarshal(snap.Fields, &fields); err != nil {
		return protocol.Intent{}, protocol.WrapError(protocol.KindTransient, "decode intent fields", err)
	}

	owner, err := protocol.ParseHex32(fields.Owner)
	if err != nil {
		return protocol.Intent{}, protocol.WrapError(protocol.KindTransient, "parse owner", err)
	}

	inputBalance, err := parseBalanceField(fields.InputBalance)
	if err != nil {
		return protocol.Intent{}, err
	}

	minOutput, err := strconv.ParseUint(fields.MinOutputAmount, 10, 64)
	if err != nil {
		return protocol.Intent{}, protocol.WrapError(protocol.KindTransient, "parse min_output_amount", err)
	}
	deadline, err := strconv.ParseInt(fields.Deadline, 10, 64)
	if err != nil {
		return protocol.Intent{}, protocol.WrapError(protocol.KindTransient, "parse deadline", err)
	}

	status, err := parseStatus(fields.Status)
	if err != nil {
		return protocol.Intent{}, err
	}

	var solver *protocol.Address
	if fields.Solver != nil && strings.TrimSpace(*fields.Solver) != "" {
		s, err := protocol.ParseHex32(*fields.Solver)
		if err != nil {
			return protocol.Intent{}, protocol.WrapError(protocol.KindTransient, "parse solver", err)
		}
		solver = &s
	}

	return protocol.Intent{
		Id:              snap.ObjectId,
		Owner:           owner,
		InputType:       inType,
		OutputType:      outType,
		InputBalance:    inputBalance,
		MinOutputAmount: minOutput,
		Deadline:        deadline,
		Status:          status,
		Solver:          solver,
	}, nil
}

// parseBalanceField tolerates both JSON shapes an intent's input_balance
// can arrive in depending on RPC node version: a flat numeric string, or a
// nested Balance<T> move-struct shape {fields:{value:"..."}}.
func parseBalanceField(raw json.RawMessage) (uint64, error) {
	var flat string
	if err := json.Unmarshal(raw, &flat); err == nil {
		v, err := strconv.ParseUint(flat, 10, 64)
		if err != nil {
			return 0, protocol.WrapError(protocol.KindTransient, "parse input_balance (flat)", err)
		}
		return v, nil
	}

	var nested struct {
		Fields struct {
			Value string `json:"value"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(raw, &nested); err != nil {
		return 0, protocol.WrapError(protocol.KindTransient, "parse input_balance (nested)", err)
	}
	v, err := strconv.ParseUint(nested.Fields.Value, 10, 64)
	if err != nil {
		return 0, protocol.WrapError(protocol.KindTransient, "parse input_balance.fields.value", err)
	}
	return v, nil
}

func parseStatus(raw any) (protocol.IntentStatus, error) {
	switch v := raw.(type) {
	case float64:
		return protocol.IntentStatus(v), nil
	case string:
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return 0, protocol.WrapError(protocol.KindTransient, "parse status", err)
		}
		return protocol.IntentStatus(n), nil
	default:
		return 0, protocol.NewError(protocol.KindTransient, "unrecognised status encoding")
	}
}

// typeArgsOf splits "...::intent::Intent<In,Out>" into its two type
// parameters. The object is erased to AssetType strings at this boundary
// per the design note on dynamic dispatch over <In,Out>.
func typeArgsOf(declaredType string) (protocol.AssetType, protocol.AssetType, error) {
	open := strings.IndexByte(declaredType, '<')
	close := strings.LastIndexByte(declaredType, '>')
	if open < 0 || close < 0 || close < open {
		return "", "", protocol.NewError(protocol.KindInvalidArgument, "malformed intent type: "+declaredType)
	}
	inner := declaredType[open+1 : close]
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		return "", "", protocol.NewError(protocol.KindInvalidArgument, "intent type missing two type args: "+declaredType)
	}
	return protocol.AssetType(strings.TrimSpace(parts[0])), protocol.AssetType(strings.TrimSpace(parts[1])), nil
}

// ParseEvent decodes an EventEnvelope into one of the intent registry's
// four event records, selected by the envelope's declared move event type.
func ParseEvent(env rpc.EventEnvelope) (any, error) {
	switch {
	case strings.HasSuffix(env.Type, "::IntentCreated"):
		var p struct {
			IntentId        string `json:"intent_id"`
			Owner           string `json:"owner"`
			InputType       string `json:"input_type"`
			OutputType      string `json:"output_type"`
			InputAmount     string `json:"input_amount"`
			MinOutputAmount string `json:"min_output_amount"`
			Deadline        string `json:"deadline"`
		}
		if err := json.Unmarshal(env.Parsed, &p); err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "decode IntentCreated", err)
		}
		id, err := protocol.ParseHex32(p.IntentId)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse intent_id", err)
		}
		owner, err := protocol.ParseHex32(p.Owner)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse owner", err)
		}
		inputAmount, err := strconv.ParseUint(p.InputAmount, 10, 64)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse input_amount", err)
		}
		minOutput, err := strconv.ParseUint(p.MinOutputAmount, 10, 64)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse min_output_amount", err)
		}
		deadline, err := strconv.ParseInt(p.Deadline, 10, 64)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse deadline", err)
		}
		return protocol.IntentCreated{
			IntentId:        id,
			Owner:           owner,
			InputType:       protocol.AssetType(p.InputType),
			OutputType:      protocol.AssetType(p.OutputType),
			InputAmount:     inputAmount,
			MinOutputAmount: minOutput,
			Deadline:        deadline,
		}, nil

	case strings.HasSuffix(env.Type, "::IntentExecuted"):
		var p struct {
			IntentId      string `json:"intent_id"`
			Solver        string `json:"solver"`
			InputAmount   string `json:"input_amount"`
			OutputAmount  string `json:"output_amount"`
			FeeAmount     string `json:"fee_amount"`
			ExecutionTime string `json:"execution_time"`
		}
		if err := json.Unmarshal(env.Parsed, &p); err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "decode IntentExecuted", err)
		}
		id, err := protocol.ParseHex32(p.IntentId)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse intent_id", err)
		}
		solver, err := protocol.ParseHex32(p.Solver)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse solver", err)
		}
		inputAmount, _ := strconv.ParseUint(p.InputAmount, 10, 64)
		outputAmount, _ := strconv.ParseUint(p.OutputAmount, 10, 64)
		feeAmount, _ := strconv.ParseUint(p.FeeAmount, 10, 64)
		execTime, _ := strconv.ParseInt(p.ExecutionTime, 10, 64)
		return protocol.IntentExecuted{
			IntentId:      id,
			Solver:        solver,
			InputAmount:   inputAmount,
			OutputAmount:  outputAmount,
			FeeAmount:     feeAmount,
			ExecutionTime: execTime,
		}, nil

	case strings.HasSuffix(env.Type, "::IntentCancelled"):
		var p struct {
			IntentId string `json:"intent_id"`
			Owner    string `json:"owner"`
		}
		if err := json.Unmarshal(env.Parsed, &p); err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "decode IntentCancelled", err)
		}
		id, err := protocol.ParseHex32(p.IntentId)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse intent_id", err)
		}
		owner, err := protocol.ParseHex32(p.Owner)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse owner", err)
		}
		return protocol.IntentCancelled{IntentId: id, Owner: owner}, nil

	case strings.HasSuffix(env.Type, "::IntentExpired"):
		var p struct {
			IntentId     string `json:"intent_id"`
			Owner        string `json:"owner"`
			TriggeredBy  string `json:"triggered_by"`
			RefundAmount string `json:"refund_amount"`
		}
		if err := json.Unmarshal(env.Parsed, &p); err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "decode IntentExpired", err)
		}
		id, err := protocol.ParseHex32(p.IntentId)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse intent_id", err)
		}
		owner, err := protocol.ParseHex32(p.Owner)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse owner", err)
		}
		triggeredBy, err := protocol.ParseHex32(p.TriggeredBy)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse triggered_by", err)
		}
		refund, _ := strconv.ParseUint(p.RefundAmount, 10, 64)
		return protocol.IntentExpired{
			IntentId:     id,
			Owner:        owner,
			TriggeredBy:  triggeredBy,
			RefundAmount: refund,
		}, nil

	default:
		return nil, protocol.NewError(protocol.KindInvalidArgument, "unrecognised event type: "+env.Type)
	}
}
