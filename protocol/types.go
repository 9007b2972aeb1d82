// Package protocol defines the chain-agnostic data model shared by every
// other package in this module: intents, pools, protocol config, and the
// event records emitted by the on-chain intent registry and CLOB.
package protocol

import (
	"encoding/hex"
	"errors"
	"strings"
)

var errInvalidHex32 = errors.New("protocol: invalid 32-byte hex value")

// ClockObjectId is the well-known shared Clock object every Move call that
// needs wall-clock time takes by reference.
var ClockObjectId = Hex32{31: 0x06}

// Hex32 is a fixed-size 32-byte identifier rendered as 0x-prefixed hex, the
// convention used throughout the Sui object model for addresses, object ids
// and digests.
type Hex32 [32]byte

func (h Hex32) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hex32) String() string { return h.Hex() }

func (h Hex32) IsZero() bool { return h == Hex32{} }

func ParseHex32(s string) (Hex32, error) {
	var out Hex32
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s) != 64 {
		return out, errInvalidHex32
	}
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return out, errInvalidHex32
	}
	copy(out[:], b)
	return out, nil
}

// Address is an on-chain account/object owner.
type Address = Hex32

// IntentId identifies a shared Intent object.
type IntentId = Hex32

// PoolId identifies a CLOB pool object.
type PoolId = Hex32

// AssetType is an opaque identifier for a fungible on-chain asset (a Move
// struct tag such as "0x2::sui::SUI"). Two asset types are equal iff their
// identifiers are byte-equal, so plain string equality is the invariant.
type AssetType string

func (a AssetType) String() string { return string(a) }

func (a AssetType) Equal(b AssetType) bool { return a == b }

// DefaultExponent is used for any asset type with no entry in a decimals
// table.
const DefaultExponent = 9

// IntentStatus mirrors the on-chain Intent.status field.
type IntentStatus uint8

const (
	StatusOpen      IntentStatus = 0
	StatusCompleted IntentStatus = 1
	StatusCancelled IntentStatus = 2
	StatusExpired   IntentStatus = 3
)

func (s IntentStatus) String() string {
	switch s {
	case StatusOpen:
		return "OPEN"
	case StatusCompleted:
		return "COMPLETED"
	case StatusCancelled:
		return "CANCELLED"
	case StatusExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

func (s IntentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

// Intent is the shared on-chain object a user posts when they want to pay
// InputType and receive at least MinOutputAmount of OutputType before
// Deadline.
type Intent struct {
	Id              IntentId
	Owner           Address
	InputType       AssetType
	OutputType      AssetType
	InputBalance    uint64
	MinOutputAmount uint64
	Deadline        int64 // absolute wall-clock milliseconds
	Status          IntentStatus
	Solver          *Address // populated on transition to COMPLETED
}

// IsExpired reports whether nowMs has passed the intent's deadline.
func (i Intent) IsExpired(nowMs int64) bool { return nowMs > i.Deadline }

// ProtocolConfig is the shared fee/pause configuration object.
type ProtocolConfig struct {
	Id           Hex32
	FeeBps       uint16
	FeeRecipient Address
	Paused       bool
}

// Pool is a CLOB pool descriptor maintained in the solver's registry.
type Pool struct {
	PoolId      PoolId
	BaseType    AssetType
	QuoteType   AssetType
	BaseScalar  uint64 // 10^base_decimals
	QuoteScalar uint64 // 10^quote_decimals
	TickSize    uint64
	LotSize     uint64
}

// HasPair reports whether the unordered pair {a,b} matches this pool's
// {BaseType,QuoteType}.
func (p Pool) HasPair(a, b AssetType) bool {
	return (p.BaseType == a && p.QuoteType == b) || (p.BaseType == b && p.QuoteType == a)
}

// PriceLevel is one (price, quantity) entry of a Level-2 snapshot, in human
// decimal units.
type PriceLevel struct {
	Price    float64
	Quantity float64
}

// Level2Snapshot holds the book depth for a pool: Bids descending by price,
// Asks ascending by price.
type Level2Snapshot struct {
	Bids []PriceLevel
	Asks []PriceLevel
}

func (l Level2Snapshot) BestBid() (PriceLevel, bool) {
	if len(l.Bids) == 0 {
		return PriceLevel{}, false
	}
	return l.Bids[0], true
}

func (l Level2Snapshot) BestAsk() (PriceLevel, bool) {
	if len(l.Asks) == 0 {
		return PriceLevel{}, false
	}
	return l.Asks[0], true
}

func (l Level2Snapshot) MidPrice() float64 {
	bid, okBid := l.BestBid()
	ask, okAsk := l.BestAsk()
	switch {
	case okBid && okAsk:
		return (bid.Price + ask.Price) / 2
	case okBid:
		return bid.Price
	case okAsk:
		return ask.Price
	default:
		return 0
	}
}

// SwapQuote is the result of simulating a swap against a single pool's book.
type SwapQuote struct {
	InputRaw       uint64
	OutputRaw      uint64
	MidPrice       float64
	BestBid        float64
	BestAsk        float64
	PriceImpactPct float64
	Route          []PoolId
}

// IntentCreated is emitted when a user posts a new intent.
type IntentCreated struct {
	IntentId        IntentId
	Owner           Address
	InputType       AssetType
	OutputType      AssetType
	InputAmount     uint64
	MinOutputAmount uint64
	Deadline        int64
}

// IntentExecuted is emitted when a solver successfully fills an intent.
type IntentExecuted struct {
	IntentId      IntentId
	Solver        Address
	InputAmount   uint64
	OutputAmount  uint64
	FeeAmount     uint64
	ExecutionTime int64
}

// IntentCancelled is emitted when the owner cancels their own intent.
type IntentCancelled struct {
	IntentId IntentId
	Owner    Address
}

// IntentExpired is emitted when anyone cleans up an expired intent.
type IntentExpired struct {
	IntentId     IntentId
	Owner        Address
	TriggeredBy  Address
	RefundAmount uint64
}

// EventKind tags the concrete type carried by an EventEnvelope's Parsed
// field once decoded by the intents package.
type EventKind string

const (
	EventIntentCreated   EventKind = "IntentCreated"
	EventIntentExecuted  EventKind = "IntentExecuted"
	EventIntentCancelled EventKind = "IntentCancelled"
	EventIntentExpired   EventKind = "IntentExpired"
)
