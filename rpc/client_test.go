package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/intentclob/solver/protocol"
)

func TestClient_GetObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Method != "sui_getObject" {
			t.Fatalf("method=%q", req.Method)
		}
		id, _ := req.Params[0].(string)
		if id == "" {
			t.Fatalf("missing object id param")
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":{"data":{"objectId":"` + id + `","version":"7","type":"0x2::pool::Pool","content":{"fields":{}}}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	id := protocol.Hex32{0x01}
	got, err := c.GetObject(context.Background(), id)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if got.Version != 7 {
		t.Fatalf("version=%d want 7", got.Version)
	}
	if got.Type != "0x2::pool::Pool" {
		t.Fatalf("type=%q", got.Type)
	}
}

func TestClient_GetObject_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":{"data":{}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetObject(context.Background(), protocol.Hex32{0x02})
	if protocol.KindOf(err) != protocol.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestClient_GetCoins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Method != "suix_getCoins" {
			t.Fatalf("method=%q", req.Method)
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":{"data":[
			{"coinObjectId":"` + protocol.Hex32{0x03}.Hex() + `","balance":"1000000000"}
		]}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	out, err := c.GetCoins(context.Background(), protocol.Hex32{0x04}, "0x2::sui::SUI")
	if err != nil {
		t.Fatalf("GetCoins: %v", err)
	}
	if len(out) != 1 || out[0].Balance != 1_000_000_000 {
		t.Fatalf("out=%+v", out)
	}
}

func TestClient_ReferenceGasPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":"1000"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	price, err := c.ReferenceGasPrice(context.Background())
	if err != nil {
		t.Fatalf("ReferenceGasPrice: %v", err)
	}
	if price != 1000 {
		t.Fatalf("price=%d want 1000", price)
	}
}

func TestClient_ExecuteSigned_Reverted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":{
			"digest":"abc",
			"effects":{"status":{"status":"failure","error":"MoveAbort code 2"},"gasUsed":{"computationCost":"0","storageCost":"0","storageRebate":"0"}},
			"events":[]
		}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.ExecuteSigned(context.Background(), []byte("tx"), []byte("sig"))
	if protocol.KindOf(err) != protocol.KindReverted {
		t.Fatalf("expected Reverted, got %v", err)
	}
}

func TestClient_Call_NoRetryOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.ReferenceGasPrice(context.Background())
	if protocol.KindOf(err) != protocol.KindTransient {
		t.Fatalf("expected Transient, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one call (no client-side retry), got %d", calls)
	}
}

func TestClientFromEnv_MissingURL(t *testing.T) {
	t.Setenv("RPC_URL", "")
	if _, err := ClientFromEnv(); err != ErrMissingRPCURL {
		t.Fatalf("err=%v want ErrMissingRPCURL", err)
	}
}
