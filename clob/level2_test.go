package clob

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/intentclob/solver/protocol"
	"github.com/intentclob/solver/rpc"
)

func TestFetchLevel2_DecodesFourVectors(t *testing.T) {
	bidPrices := protocol.EncodeU64Vec([]uint64{2_000_000_000, 1_950_000_000}) // 2000, 1950 per base once scaled by FloatScalar and the 9/6 decimals
	bidQuantities := protocol.EncodeU64Vec([]uint64{100_000_000_000, 200_000_000_000})
	askPrices := protocol.EncodeU64Vec([]uint64{2_050_000_000, 2_100_000_000})
	askQuantities := protocol.EncodeU64Vec([]uint64{100_000_000_000, 200_000_000_000})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch req.Method {
		case "unsafe_buildTransactionBlock":
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":{"txBytes":"` + base64.StdEncoding.EncodeToString([]byte("tx")) + `"}}`))
		case "sui_devInspectTransactionBlock":
			resp := map[string]any{
				"jsonrpc": "2.0",
				"id":      "1",
				"result": map[string]any{
					"results": []any{
						map[string]any{
							"returnValues": []any{
								[]any{base64.StdEncoding.EncodeToString(bidPrices), "vector<u64>"},
								[]any{base64.StdEncoding.EncodeToString(bidQuantities), "vector<u64>"},
								[]any{base64.StdEncoding.EncodeToString(askPrices), "vector<u64>"},
								[]any{base64.StdEncoding.EncodeToString(askQuantities), "vector<u64>"},
							},
						},
					},
				},
			}
			b, _ := json.Marshal(resp)
			_, _ = w.Write(b)
		default:
			t.Fatalf("unexpected method %q", req.Method)
		}
	}))
	defer srv.Close()

	client := rpc.New(srv.URL, nil)
	pool := samplePool("a")
	sender := protocol.Hex32{0x01}

	snap, err := FetchLevel2(context.Background(), client, protocol.Hex32{0x02}, pool, 20, sender)
	if err != nil {
		t.Fatalf("FetchLevel2: %v", err)
	}
	if len(snap.Bids) != 2 || len(snap.Asks) != 2 {
		t.Fatalf("snap=%+v", snap)
	}
	if snap.Bids[0].Price < snap.Bids[1].Price {
		t.Fatalf("bids not descending: %+v", snap.Bids)
	}
	if snap.Asks[0].Price > snap.Asks[1].Price {
		t.Fatalf("asks not ascending: %+v", snap.Asks)
	}
}
