package protocol

import "testing"

func TestEncodeULEB128_Golden(t *testing.T) {
	tests := []struct {
		n    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{129, []byte{0x81, 0x01}},
		{16383, []byte{0xff, 0x7f}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}

	for _, tt := range tests {
		got := EncodeULEB128(tt.n)
		if string(got) != string(tt.want) {
			t.Fatalf("EncodeULEB128(%d) = %x, want %x", tt.n, got, tt.want)
		}
	}
}

func TestDecodeULEB128_RoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 127, 128, 300, 16383, 16384, 1 << 40} {
		enc := EncodeULEB128(n)
		got, consumed, err := DecodeULEB128(enc)
		if err != nil {
			t.Fatalf("decode(%d): %v", n, err)
		}
		if got != n {
			t.Fatalf("decode(%d) = %d", n, got)
		}
		if consumed != len(enc) {
			t.Fatalf("decode(%d) consumed %d want %d", n, consumed, len(enc))
		}
	}
}

func TestDecodeULEB128_Truncated(t *testing.T) {
	if _, _, err := DecodeULEB128([]byte{0x80}); err == nil {
		t.Fatalf("expected truncation error")
	}
	if _, _, err := DecodeULEB128(nil); err == nil {
		t.Fatalf("expected truncation error for empty input")
	}
}

// TestDecodeU64Vec_RoundTrip covers Q5: encoding n u64s ULEB128+LE and
// decoding returns the same sequence.
func TestDecodeU64Vec_RoundTrip(t *testing.T) {
	vals := []uint64{0, 1, 42, 1_000_000_000, ^uint64(0)}
	enc := EncodeU64Vec(vals)
	got, consumed, err := DecodeU64Vec(enc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != len(enc) {
		t.Fatalf("consumed %d want %d", consumed, len(enc))
	}
	if len(got) != len(vals) {
		t.Fatalf("len got %d want %d", len(got), len(vals))
	}
	for i := range vals {
		if got[i] != vals[i] {
			t.Fatalf("index %d: got %d want %d", i, got[i], vals[i])
		}
	}
}

func TestDecodeU64Vec_Empty(t *testing.T) {
	got, consumed, err := DecodeU64Vec([]byte{0x00})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty vec, got %v", got)
	}
	if consumed != 1 {
		t.Fatalf("consumed %d want 1", consumed)
	}
}

func TestDecodeU64Vec_Truncated(t *testing.T) {
	// length says 2 values but only one u64 worth of bytes follows.
	b := append(EncodeULEB128(2), make([]byte, 8)...)
	if _, _, err := DecodeU64Vec(b); err == nil {
		t.Fatalf("expected truncation error")
	}
}
