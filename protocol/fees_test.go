package protocol

import "testing"

func TestFee(t *testing.T) {
	type testCase struct {
		name    string
		amount  uint64
		bps     FeeBps
		wantFee uint64
		wantErr bool
	}

	cases := []testCase{
		{name: "zero", amount: 0, bps: 0, wantFee: 0},
		{name: "zero_bps", amount: 123, bps: 0, wantFee: 0},
		{name: "one_bps_small", amount: 100, bps: 1, wantFee: 0},
		{name: "one_bps_rounding", amount: 10_000, bps: 1, wantFee: 1},
		{name: "one_percent", amount: 1_000_000, bps: 100, wantFee: 10_000},
		{name: "ten_percent", amount: 1_000_000, bps: 1000, wantFee: 100_000},
		{name: "full_fee", amount: 777, bps: 10_000, wantFee: 777},
		{name: "max_uint64_safe", amount: ^uint64(0), bps: 1, wantFee: 1844674407370955},
		{name: "invalid_bps", amount: 1, bps: 10_001, wantErr: true},
		// S2 fixture: 1_000_000_000 raw SUI at 1% (100bps) -> 10_000_000 fee.
		{name: "s2_fixture", amount: 1_000_000_000, bps: 100, wantFee: 10_000_000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Fee(tc.amount, tc.bps)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.wantFee {
				t.Fatalf("fee: got %d want %d", got, tc.wantFee)
			}
		})
	}
}

func TestSplitInput(t *testing.T) {
	// S2 scenario: fee_bps=100 (1%), input 1_000_000_000 SUI.
	fee, net, err := SplitInput(1_000_000_000, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee != 10_000_000 {
		t.Fatalf("fee: got %d want %d", fee, 10_000_000)
	}
	if net != 990_000_000 {
		t.Fatalf("net: got %d want %d", net, 990_000_000)
	}
	if fee+net != 1_000_000_000 {
		t.Fatalf("fee+net must equal amount: got %d", fee+net)
	}
}

func TestSplitInput_ZeroFee(t *testing.T) {
	// S1 scenario: fee_bps=0.
	fee, net, err := SplitInput(1_000_000_000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee != 0 || net != 1_000_000_000 {
		t.Fatalf("got fee=%d net=%d", fee, net)
	}
}

func TestProfitBps(t *testing.T) {
	// S5 scenario: profit_raw=400, input_amount=1_000_000_000 -> profit_bps=0.
	if got := ProfitBps(400, 1_000_000_000); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
	// A profit large enough relative to input amount should clear a 50bps
	// threshold.
	if got := ProfitBps(10_000_000, 1_000_000_000); got != 100 {
		t.Fatalf("got %d want 100", got)
	}
}

func TestProfitBps_ZeroInput(t *testing.T) {
	if got := ProfitBps(1000, 0); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}
