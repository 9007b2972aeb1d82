package intents

import (
	"encoding/json"

	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
)

// ParseProtocolConfig extracts the shared fee/pause configuration object
// from an object read.
func ParseProtocolConfig(snap rpc.ObjectSnapshot) (protocol.ProtocolConfig, error) {
	var fields struct {
		FeeBps       uint16 `json:"fee_bps"`
		FeeRecipient string `json:"fee_recipient"`
		Paused       bool   `json:"paused"`
	}
	if len(snap.Fields) == 0 {
		return protocol.ProtocolConfig{}, protocol.NewError(protocol.KindNotFound, "protocol config has no fields")
	}
	if err := json.Unmarshal(snap.Fields, &fields); err != nil {
		return protocol.ProtocolConfig{}, protocol.WrapError(protocol.KindTransient, "decode protocol config fields", err)
	}
	recipient, err := protocol.ParseHex32(fields.FeeRecipient)
	if err != nil {
		return protocol.ProtocolConfig{}, protocol.WrapError(protocol.KindTransient, "parse fee recipient", err)
	}
	return protocol.ProtocolConfig{
		Id:           snap.ObjectId,
		FeeBps:       fields.FeeBps,
		FeeRecipient: recipient,
		Paused:       fields.Paused,
	}, nil
}
