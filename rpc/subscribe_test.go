package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func TestSubscribeEvents_DeliversNotification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade: %v", err)
		}
		defer conn.Close()

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req struct {
			ID     uint64 `json:"id"`
			Method string `json:"method"`
		}
		if err := json.Unmarshal(msg, &req); err != nil {
			t.Errorf("unmarshal subscribe request: %v", err)
			return
		}
		if req.Method != "suix_subscribeEvent" {
			t.Errorf("method=%q", req.Method)
			return
		}

		_ = conn.WriteJSON(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": 9})
		_ = conn.WriteJSON(map[string]any{
			"jsonrpc": "2.0",
			"method":  "suix_subscribeEvent",
			"params": map[string]any{
				"subscription": 9,
				"result":       map[string]any{"intent_id": "0xabc"},
			},
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	c := New(server.URL, nil).WithWebsocketURL(wsURL)

	ch, unsub, err := c.SubscribeEvents(context.Background(), "0x2::intent::IntentCreated")
	if err != nil {
		t.Fatalf("SubscribeEvents: %v", err)
	}
	defer unsub()

	select {
	case evt := <-ch:
		if string(evt.Parsed) != `{"intent_id":"0xabc"}` {
			t.Fatalf("parsed=%s", string(evt.Parsed))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscribeEvents_UnsubscribeClosesChannel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade: %v", err)
		}
		defer conn.Close()

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req struct {
			ID uint64 `json:"id"`
		}
		_ = json.Unmarshal(msg, &req)
		_ = conn.WriteJSON(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": 1})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	c := New(server.URL, nil).WithWebsocketURL(wsURL)

	ch, unsub, err := c.SubscribeEvents(context.Background(), "0x2::clob::OrderFilled")
	if err != nil {
		t.Fatalf("SubscribeEvents: %v", err)
	}
	unsub()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected channel closed after unsubscribe")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
