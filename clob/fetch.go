package clob

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
)

// FetchPool reads a DeepBook pool object and returns its registry
// descriptor. The pool's {Base,Quote} type parameters come off the
// object's declared type, the same way an intent's <In,Out> do; the
// scalar and tick/lot sizes come off its fields.
func FetchPool(ctx context.Context, client *rpc.Client, poolId protocol.PoolId) (protocol.Pool, error) {
	snap, err := client.GetObject(ctx, poolId)
	if err != nil {
		return protocol.Pool{}, err
	}
	baseType, quoteType, err := poolTypeArgsOf(snap.Type)
	if err != nil {
		return protocol.Pool{}, err
	}
	if len(snap.Fields) == 0 {
		return protocol.Pool{}, protocol.NewError(protocol.KindNotFound, "pool object has no fields")
	}

	var fields struct {
		BaseScalar  string `json:"base_asset_decimals"`
		QuoteScalar string `json:"quote_asset_decimals"`
		TickSize    string `json:"tick_size"`
		LotSize     string `json:"lot_size"`
	}
	if err := json.Unmarshal(snap.Fields, &fields); err != nil {
		return protocol.Pool{}, protocol.WrapError(protocol.KindTransient, "decode pool fields", err)
	}

	baseScalar, err := pow10Field(fields.BaseScalar)
	if err != nil {
		return protocol.Pool{}, protocol.WrapError(protocol.KindTransient, "parse base_asset_decimals", err)
	}
	quoteScalar, err := pow10Field(fields.QuoteScalar)
	if err != nil {
		return protocol.Pool{}, protocol.WrapError(protocol.KindTransient, "parse quote_asset_decimals", err)
	}
	tickSize, err := strconv.ParseUint(fields.TickSize, 10, 64)
	if err != nil {
		return protocol.Pool{}, protocol.WrapError(protocol.KindTransient, "parse tick_size", err)
	}
	lotSize, err := strconv.ParseUint(fields.LotSize, 10, 64)
	if err != nil {
		return protocol.Pool{}, protocol.WrapError(protocol.KindTransient, "parse lot_size", err)
	}

	return protocol.Pool{
		PoolId:      poolId,
		BaseType:    baseType,
		QuoteType:   quoteType,
		BaseScalar:  baseScalar,
		QuoteScalar: quoteScalar,
		TickSize:    tickSize,
		LotSize:     lotSize,
	}, nil
}

// pow10Field parses a decimals-count field and returns the expanded
// 10^decimals scalar the rest of the package works in.
func pow10Field(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	scalar := uint64(1)
	for i := uint64(0); i < n; i++ {
		scalar *= 10
	}
	return scalar, nil
}

func poolTypeArgsOf(declaredType string) (protocol.AssetType, protocol.AssetType, error) {
	open := strings.IndexByte(declaredType, '<')
	close := strings.LastIndexByte(declaredType, '>')
	if open < 0 || close < 0 || close < open {
		return "", "", protocol.NewError(protocol.KindInvalidArgument, "malformed pool type: "+declaredType)
	}
	inner := declaredType[open+1 : close]
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		return "", "", protocol.NewError(protocol.KindInvalidArgument, "pool type missing two type args: "+declaredType)
	}
	return protocol.AssetType(strings.TrimSpace(parts[0])), protocol.AssetType(strings.TrimSpace(parts[1])), nil
}
