package intents

import (
	"encoding/json"
	"testing"

	"github.com/intentclob/solver/rpc"
)

func TestParseProtocolConfig(t *testing.T) {
	recipient := mustHex(t, "09")
	fields, _ := json.Marshal(map[string]any{
		"fee_bps":       25,
		"fee_recipient": recipient.Hex(),
		"paused":        false,
	})
	snap := rpc.ObjectSnapshot{ObjectId: mustHex(t, "01"), Fields: fields}

	cfg, err := ParseProtocolConfig(snap)
	if err != nil {
		t.Fatalf("ParseProtocolConfig: %v", err)
	}
	if cfg.FeeBps != 25 || cfg.FeeRecipient != recipient || cfg.Paused {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestParseProtocolConfig_MissingFields(t *testing.T) {
	_, err := ParseProtocolConfig(rpc.ObjectSnapshot{ObjectId: mustHex(t, "01")})
	if err == nil {
		t.Fatalf("expected error for empty fields")
	}
}
