// Package rpc is a thin, typed wrapper over the ledger's JSON-RPC surface:
// object reads, event queries/subscriptions, dev-inspect simulation, and
// signed-transaction submission. It applies no retries — retry policy
// belongs to the solver engine, not here.
package rpc

import (
	"encoding/json"

	"github.com/intentclob/solver/protocol"
)

// ObjectSnapshot is a raw object read: declared type plus the object's JSON
// fields, exactly as the RPC returns them (so callers can tolerate the
// RPC-version-dependent shapes some nodes return).
type ObjectSnapshot struct {
	ObjectId protocol.Hex32
	Type     string
	Version  uint64
	Fields   json.RawMessage
}

// CoinInfo is one entry of an owner's coin objects for a given coin type.
type CoinInfo struct {
	CoinId  protocol.Hex32
	Balance uint64
}

// EventEnvelope is one event as returned by a query or delivered by a
// subscription.
type EventEnvelope struct {
	Type        string
	Parsed      json.RawMessage
	TimestampMs int64
}

// ReturnValue is one dev-inspect return slot: raw BCS bytes plus its Move
// type tag.
type ReturnValue struct {
	BCS     []byte
	TypeTag string
}

// DevInspectResult is the result of a read-only simulated call.
type DevInspectResult struct {
	Results []ReturnValue
}

// ExecutionResult is the outcome of a submitted signed transaction.
type ExecutionResult struct {
	Digest        string
	EffectsStatus string
	GasUsed       uint64
	Events        []EventEnvelope
}

// ArgKind tags the kind of value a MoveCall argument refers to.
type ArgKind string

const (
	ArgObject ArgKind = "object" // a shared/owned object id
	ArgPure   ArgKind = "pure"   // a BCS-serializable scalar/vector
	ArgGas    ArgKind = "gas"    // the transaction's gas coin
	ArgResult ArgKind = "result" // the Nth return value of a prior call in the same plan
)

// Arg is one argument to a MoveCall. Exactly one of ObjectId/Pure/ResultOf
// is meaningful, selected by Kind.
type Arg struct {
	Kind     ArgKind
	ObjectId protocol.Hex32
	Pure     any // marshaled as JSON; the RPC node handles BCS encoding
	ResultOf int // index into TxPlan.Calls whose Nth result this refers to
}

func ObjectArg(id protocol.Hex32) Arg { return Arg{Kind: ArgObject, ObjectId: id} }
func PureArg(v any) Arg               { return Arg{Kind: ArgPure, Pure: v} }
func GasArg() Arg                     { return Arg{Kind: ArgGas} }
func ResultArg(callIndex int) Arg     { return Arg{Kind: ArgResult, ResultOf: callIndex} }

// MoveCall names a single Move entry point invocation within a
// programmable transaction block.
type MoveCall struct {
	Package       string
	Module        string
	Function      string
	TypeArguments []string
	Arguments     []Arg
}

// TxPlan is an ordered, un-serialized description of a programmable
// transaction block: one or more MoveCalls sharing results, built by the
// intents/solver packages and handed to BuildUnsigned. The actual wire/BCS
// framing is the RPC node's concern; this package treats it as opaque.
type TxPlan struct {
	Calls     []MoveCall
	GasBudget uint64
}
