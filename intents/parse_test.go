package intents

import (
	"encoding/json"
	"testing"

	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
)

func TestParseIntent_FlatInputBalance(t *testing.T) {
	id := mustHex(t, "0x10")
	owner := mustHex(t, "0x11")

	fields := `{
		"owner":"` + owner.Hex() + `",
		"input_balance":"1000000000",
		"min_output_amount":"1800000",
		"deadline":"3600000",
		"status":0,
		"solver":null
	}`

	snap := rpc.ObjectSnapshot{
		ObjectId: id,
		Type:     "0x01::intent::Intent<0x2::sui::SUI,0x2::usdc::USDC>",
		Fields:   json.RawMessage(fields),
	}

	intent, err := ParseIntent(snap)
	if err != nil {
		t.Fatalf("ParseIntent: %v", err)
	}
	if intent.InputBalance != 1_000_000_000 {
		t.Fatalf("input_balance=%d", intent.InputBalance)
	}
	if intent.InputType != "0x2::sui::SUI" || intent.OutputType != "0x2::usdc::USDC" {
		t.Fatalf("types=%s/%s", intent.InputType, intent.OutputType)
	}
	if intent.Status != protocol.StatusOpen {
		t.Fatalf("status=%v", intent.Status)
	}
	if intent.Solver != nil {
		t.Fatalf("expected nil solver, got %v", *intent.Solver)
	}
}

func TestParseIntent_NestedInputBalance(t *testing.T) {
	id := mustHex(t, "0x10")
	owner := mustHex(t, "0x11")

	fields := `{
		"owner":"` + owner.Hex() + `",
		"input_balance":{"fields":{"value":"500000"}},
		"min_output_amount":"900",
		"deadline":"1000",
		"status":1
	}`

	snap := rpc.ObjectSnapshot{
		ObjectId: id,
		Type:     "0x01::intent::Intent<0x2::sui::SUI,0x2::usdc::USDC>",
		Fields:   json.RawMessage(fields),
	}

	intent, err := ParseIntent(snap)
	if err != nil {
		t.Fatalf("ParseIntent: %v", err)
	}
	if intent.InputBalance != 500_000 {
		t.Fatalf("input_balance=%d", intent.InputBalance)
	}
	if intent.Status != protocol.StatusCompleted {
		t.Fatalf("status=%v", intent.Status)
	}
}

func TestParseIntent_MissingFields(t *testing.T) {
	snap := rpc.ObjectSnapshot{ObjectId: mustHex(t, "0x10"), Type: "0x01::intent::Intent<A,B>"}
	_, err := ParseIntent(snap)
	if protocol.KindOf(err) != protocol.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestParseEvent_IntentCreated(t *testing.T) {
	id := mustHex(t, "0x20")
	owner := mustHex(t, "0x21")
	env := rpc.EventEnvelope{
		Type: "0x01::intent::IntentCreated",
		Parsed: json.RawMessage(`{
			"intent_id":"` + id.Hex() + `",
			"owner":"` + owner.Hex() + `",
			"input_type":"0x2::sui::SUI",
			"output_type":"0x2::usdc::USDC",
			"input_amount":"1000000000",
			"min_output_amount":"1800000",
			"deadline":"3600000"
		}`),
	}

	evt, err := ParseEvent(env)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	created, ok := evt.(protocol.IntentCreated)
	if !ok {
		t.Fatalf("got %T", evt)
	}
	if created.InputAmount != 1_000_000_000 || created.MinOutputAmount != 1_800_000 {
		t.Fatalf("created=%+v", created)
	}
}

func TestParseEvent_UnknownType(t *testing.T) {
	_, err := ParseEvent(rpc.EventEnvelope{Type: "0x01::intent::SomethingElse"})
	if protocol.KindOf(err) != protocol.KindInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}
