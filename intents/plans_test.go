package intents

import "testing"

func TestPlanCreate_ShapesSingleCall(t *testing.T) {
	pkg := mustHex(t, "0x01")
	coin := mustHex(t, "0x02")

	plan := PlanCreate(pkg, coin, "0x2::sui::SUI", "0x2::usdc::USDC", 1_800_000, 3_600_000, 100_000_000)
	if len(plan.Calls) != 1 {
		t.Fatalf("expected exactly one call, got %d", len(plan.Calls))
	}
	call := plan.Calls[0]
	if call.Function != "create_intent" {
		t.Fatalf("function=%q", call.Function)
	}
	if len(call.TypeArguments) != 2 || call.TypeArguments[0] != "0x2::sui::SUI" || call.TypeArguments[1] != "0x2::usdc::USDC" {
		t.Fatalf("type args=%v", call.TypeArguments)
	}
	if len(call.Arguments) != 4 {
		t.Fatalf("args=%d want 4", len(call.Arguments))
	}
	if plan.GasBudget != 100_000_000 {
		t.Fatalf("gas budget=%d", plan.GasBudget)
	}
}

func TestPlanExecute_ReferencesClockAndConfig(t *testing.T) {
	pkg := mustHex(t, "0x01")
	intentID := mustHex(t, "0x03")
	outputCoin := mustHex(t, "0x04")
	configID := mustHex(t, "0x05")

	plan := PlanExecute(pkg, intentID, outputCoin, configID, "SUI", "USDC", 50_000_000)
	if len(plan.Calls) != 1 || plan.Calls[0].Function != "execute_intent" {
		t.Fatalf("calls=%+v", plan.Calls)
	}
	if len(plan.Calls[0].Arguments) != 4 {
		t.Fatalf("args=%d want 4", len(plan.Calls[0].Arguments))
	}
}

func TestPlanCancel_SingleArgument(t *testing.T) {
	pkg := mustHex(t, "0x01")
	intentID := mustHex(t, "0x03")

	plan := PlanCancel(pkg, intentID, "SUI", "USDC", 10_000_000)
	if plan.Calls[0].Function != "cancel_intent" {
		t.Fatalf("function=%q", plan.Calls[0].Function)
	}
	if len(plan.Calls[0].Arguments) != 1 {
		t.Fatalf("args=%d want 1", len(plan.Calls[0].Arguments))
	}
}

func TestPlanCleanupExpired_AndDestroy(t *testing.T) {
	pkg := mustHex(t, "0x01")
	intentID := mustHex(t, "0x03")

	cleanup := PlanCleanupExpired(pkg, intentID, "SUI", "USDC", 10_000_000)
	if cleanup.Calls[0].Function != "cleanup_expired" {
		t.Fatalf("function=%q", cleanup.Calls[0].Function)
	}

	destroy := PlanDestroy(pkg, intentID, "SUI", "USDC", 5_000_000)
	if destroy.Calls[0].Function != "destroy_intent" {
		t.Fatalf("function=%q", destroy.Calls[0].Function)
	}
	if len(destroy.Calls[0].Arguments) != 1 {
		t.Fatalf("args=%d want 1", len(destroy.Calls[0].Arguments))
	}
}
