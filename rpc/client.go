package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/intentclob/solver/protocol"
)

var ErrMissingRPCURL = errors.New("rpc: missing rpc url")

type Client struct {
	url  string
	wsURL string
	http *http.Client
}

func New(url string, httpClient *http.Client) *Client {
	url = strings.TrimSpace(url)
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{url: url, http: httpClient}
}

// WithWebsocketURL sets the URL used for SubscribeEvents; if unset the
// client derives it from the HTTP URL by swapping scheme http(s)->ws(s).
func (c *Client) WithWebsocketURL(wsURL string) *Client {
	c.wsURL = strings.TrimSpace(wsURL)
	return c
}

func ClientFromEnv() (*Client, error) {
	url := strings.TrimSpace(os.Getenv("RPC_URL"))
	if url == "" {
		return nil, ErrMissingRPCURL
	}
	c := New(url, nil)
	if ws := strings.TrimSpace(os.Getenv("RPC_WS_URL")); ws != "" {
		c.WithWebsocketURL(ws)
	}
	return c, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// call performs exactly one JSON-RPC round trip. No retry: retries
// requires retry policy to live entirely in the solver engine (C4), so a
// transient failure here is surfaced immediately as a protocol.Error with
// Kind=Transient.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	if c == nil {
		return protocol.NewError(protocol.KindInvalidArgument, "nil rpc client")
	}
	if strings.TrimSpace(c.url) == "" {
		return protocol.WrapError(protocol.KindFatal, "missing rpc url", ErrMissingRPCURL)
	}

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: "1", Method: method, Params: params})
	if err != nil {
		return protocol.WrapError(protocol.KindInvalidArgument, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return protocol.WrapError(protocol.KindInvalidArgument, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return protocol.WrapError(protocol.KindTransient, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return protocol.WrapError(protocol.KindTransient, "read response", err)
	}

	if resp.StatusCode >= 500 {
		return protocol.NewError(protocol.KindTransient, fmt.Sprintf("http status=%d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return protocol.NewError(protocol.KindInvalidArgument, fmt.Sprintf("http status=%d: %s", resp.StatusCode, string(raw)))
	}

	var rr rpcResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return protocol.WrapError(protocol.KindTransient, "decode rpc envelope", err)
	}
	if rr.Error != nil {
		return classifyRPCError(*rr.Error)
	}
	if out == nil {
		return nil
	}
	if len(rr.Result) == 0 {
		return protocol.NewError(protocol.KindNotFound, "empty result")
	}
	if err := json.Unmarshal(rr.Result, out); err != nil {
		return protocol.WrapError(protocol.KindTransient, "decode result", err)
	}
	return nil
}

func classifyRPCError(e rpcError) error {
	msg := strings.ToLower(e.Message)
	switch {
	case strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist"):
		return protocol.NewError(protocol.KindNotFound, e.Message)
	case strings.Contains(msg, "invalid") || e.Code == -32602 || e.Code == -32600:
		return protocol.NewError(protocol.KindInvalidArgument, e.Message)
	case strings.Contains(msg, "abort"):
		return protocol.NewReverted(parseAbortCode(e.Message), e.Message)
	default:
		return protocol.NewError(protocol.KindTransient, fmt.Sprintf("rpc error %d: %s", e.Code, e.Message))
	}
}

func parseAbortCode(msg string) int {
	// Best-effort extraction of "abort_code: N" / "code N" style substrings;
	// falls back to 0 (InvalidStatus) when the message carries no code.
	idx := strings.LastIndex(msg, " ")
	if idx < 0 {
		return 0
	}
	var code int
	if _, err := fmt.Sscanf(msg[idx+1:], "%d", &code); err != nil {
		return 0
	}
	return code
}

// GetObject reads a single object by id. The node wraps a Move object's
// fields inside content.fields alongside dataType/hasPublicTransfer
// metadata this package has no use for; GetObject unwraps to content.fields
// so every caller that unmarshals ObjectSnapshot.Fields sees the object's
// own fields directly, with no wrapper to know about.
func (c *Client) GetObject(ctx context.Context, id protocol.Hex32) (ObjectSnapshot, error) {
	var resp struct {
		Data struct {
			ObjectId string `json:"objectId"`
			Version  string `json:"version"`
			Type     string `json:"type"`
			Content  struct {
				Fields json.RawMessage `json:"fields"`
			} `json:"content"`
		} `json:"data"`
	}
	if err := c.call(ctx, "sui_getObject", []any{id.Hex(), map[string]any{"showContent": true, "showType": true}}, &resp); err != nil {
		return ObjectSnapshot{}, err
	}
	if resp.Data.ObjectId == "" {
		return ObjectSnapshot{}, protocol.NewError(protocol.KindNotFound, "object not found: "+id.Hex())
	}
	objID, err := protocol.ParseHex32(resp.Data.ObjectId)
	if err != nil {
		return ObjectSnapshot{}, protocol.WrapError(protocol.KindTransient, "parse object id", err)
	}
	var version uint64
	_, _ = fmt.Sscanf(resp.Data.Version, "%d", &version)
	return ObjectSnapshot{
		ObjectId: objID,
		Type:     resp.Data.Type,
		Version:  version,
		Fields:   resp.Data.Content.Fields,
	}, nil
}

// GetCoins returns an owner's coin objects for coinType, in RPC-native
// order (unspecified).
func (c *Client) GetCoins(ctx context.Context, owner protocol.Hex32, coinType string) ([]CoinInfo, error) {
	var resp struct {
		Data []struct {
			CoinObjectId string `json:"coinObjectId"`
			Balance      string `json:"balance"`
		} `json:"data"`
	}
	if err := c.call(ctx, "suix_getCoins", []any{owner.Hex(), coinType}, &resp); err != nil {
		return nil, err
	}
	out := make([]CoinInfo, 0, len(resp.Data))
	for _, d := range resp.Data {
		id, err := protocol.ParseHex32(d.CoinObjectId)
		if err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse coin id", err)
		}
		var bal uint64
		if _, err := fmt.Sscanf(d.Balance, "%d", &bal); err != nil {
			return nil, protocol.WrapError(protocol.KindTransient, "parse coin balance", err)
		}
		out = append(out, CoinInfo{CoinId: id, Balance: bal})
	}
	return out, nil
}

// QueryEvents returns up to limit events of moveEventType, newest-first iff
// descending.
func (c *Client) QueryEvents(ctx context.Context, moveEventType string, limit int, descending bool) ([]EventEnvelope, error) {
	var resp struct {
		Data []struct {
			Type            string          `json:"type"`
			ParsedJson      json.RawMessage `json:"parsedJson"`
			TimestampMs     string          `json:"timestampMs"`
		} `json:"data"`
	}
	params := []any{
		map[string]any{"MoveEventType": moveEventType},
		nil,
		limit,
		descending,
	}
	if err := c.call(ctx, "suix_queryEvents", params, &resp); err != nil {
		return nil, err
	}
	out := make([]EventEnvelope, 0, len(resp.Data))
	for _, d := range resp.Data {
		var ts int64
		_, _ = fmt.Sscanf(d.TimestampMs, "%d", &ts)
		out = append(out, EventEnvelope{Type: d.Type, Parsed: d.ParsedJson, TimestampMs: ts})
	}
	return out, nil
}

// DevInspect simulates txBytes as sender and returns its return values.
func (c *Client) DevInspect(ctx context.Context, txBytes []byte, sender protocol.Hex32) (DevInspectResult, error) {
	var resp struct {
		Results []struct {
			ReturnValues [][]any `json:"returnValues"` // [bcs_bytes_b64_or_array, type_tag]
		} `json:"results"`
	}
	b64 := encodeBase64(txBytes)
	if err := c.call(ctx, "sui_devInspectTransactionBlock", []any{sender.Hex(), b64}, &resp); err != nil {
		return DevInspectResult{}, err
	}
	var out DevInspectResult
	for _, r := range resp.Results {
		for _, rv := range r.ReturnValues {
			if len(rv) != 2 {
				continue
			}
			var raw []byte
			switch v := rv[0].(type) {
			case string:
				raw = decodeBase64(v)
			case []any:
				raw = make([]byte, len(v))
				for i, n := range v {
					if f, ok := n.(float64); ok {
						raw[i] = byte(f)
					}
				}
			}
			typeTag, _ := rv[1].(string)
			out.Results = append(out.Results, ReturnValue{BCS: raw, TypeTag: typeTag})
		}
	}
	return out, nil
}

// BuildUnsigned asks the node to build and return the unsigned transaction
// bytes for plan, to be executed by sender.
func (c *Client) BuildUnsigned(ctx context.Context, plan TxPlan, sender protocol.Hex32) ([]byte, error) {
	var resp struct {
		TxBytes string `json:"txBytes"`
	}
	if err := c.call(ctx, "unsafe_buildTransactionBlock", []any{sender.Hex(), plan}, &resp); err != nil {
		return nil, err
	}
	return decodeBase64(resp.TxBytes), nil
}

// ExecuteSigned submits signed tx bytes for execution.
func (c *Client) ExecuteSigned(ctx context.Context, txBytes []byte, signature []byte) (ExecutionResult, error) {
	var resp struct {
		Digest string `json:"digest"`
		Effects struct {
			Status struct {
				Status string `json:"status"`
				Error  string `json:"error,omitempty"`
			} `json:"status"`
			GasUsed struct {
				ComputationCost string `json:"computationCost"`
				StorageCost     string `json:"storageCost"`
				StorageRebate   string `json:"storageRebate"`
			} `json:"gasUsed"`
		} `json:"effects"`
		Events []struct {
			Type        string          `json:"type"`
			ParsedJson  json.RawMessage `json:"parsedJson"`
			TimestampMs string          `json:"timestampMs"`
		} `json:"events"`
	}
	params := []any{encodeBase64(txBytes), []string{encodeBase64(signature)}, map[string]any{"showEffects": true, "showEvents": true}}
	if err := c.call(ctx, "sui_executeTransactionBlock", params, &resp); err != nil {
		return ExecutionResult{}, err
	}
	if resp.Effects.Status.Status != "success" {
		return ExecutionResult{}, protocol.NewReverted(parseAbortCode(resp.Effects.Status.Error), resp.Effects.Status.Error)
	}
	var comp, stor, rebate uint64
	_, _ = fmt.Sscanf(resp.Effects.GasUsed.ComputationCost, "%d", &comp)
	_, _ = fmt.Sscanf(resp.Effects.GasUsed.StorageCost, "%d", &stor)
	_, _ = fmt.Sscanf(resp.Effects.GasUsed.StorageRebate, "%d", &rebate)
	gasUsed := comp + stor
	if rebate < gasUsed {
		gasUsed -= rebate
	} else {
		gasUsed = 0
	}

	events := make([]EventEnvelope, 0, len(resp.Events))
	for _, e := range resp.Events {
		var ts int64
		_, _ = fmt.Sscanf(e.TimestampMs, "%d", &ts)
		events = append(events, EventEnvelope{Type: e.Type, Parsed: e.ParsedJson, TimestampMs: ts})
	}

	return ExecutionResult{
		Digest:        resp.Digest,
		EffectsStatus: resp.Effects.Status.Status,
		GasUsed:       gasUsed,
		Events:        events,
	}, nil
}

// ReferenceGasPrice returns the network's current reference gas price, used
// to size the execution PTB's gas budget.
func (c *Client) ReferenceGasPrice(ctx context.Context) (uint64, error) {
	var resp string
	if err := c.call(ctx, "suix_getReferenceGasPrice", []any{}, &resp); err != nil {
		return 0, err
	}
	var price uint64
	if _, err := fmt.Sscanf(resp, "%d", &price); err != nil {
		return 0, protocol.WrapError(protocol.KindTransient, "parse gas price", err)
	}
	return price, nil
}
