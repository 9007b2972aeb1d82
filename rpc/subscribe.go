package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// SubscriptionConfig tunes the event-subscription socket's reconnect and
// keepalive behavior.
type SubscriptionConfig struct {
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	PingInterval      time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
}

func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Unsubscribe releases a subscription's resources. Safe to call more than
// once.
type Unsubscribe func()

type wsEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Params  *wsParams       `json:"params,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type wsParams struct {
	Subscription int64           `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

// subscriber owns one persistent websocket connection and fans out
// notifications to any number of live event subscriptions, reconnecting
// and resubscribing on connection loss. A resubscription covers only events
// emitted after it; events emitted while the connection was down are not
// replayed.
type subscriber struct {
	url    string
	config SubscriptionConfig

	connMu sync.Mutex
	conn   *websocket.Conn

	closed    atomic.Bool
	requestID atomic.Uint64

	subsMu  sync.RWMutex
	subs    map[int64]chan EventEnvelope
	filters map[int64]string // subscription id -> move event type

	pendingMu sync.Mutex
	pending   map[uint64]chan int64

	reconnecting atomic.Bool
	done         chan struct{}
	wg           sync.WaitGroup
}

func wsURLFor(httpURL, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	switch {
	case strings.HasPrefix(httpURL, "https://"):
		return "wss://" + strings.TrimPrefix(httpURL, "https://")
	case strings.HasPrefix(httpURL, "http://"):
		return "ws://" + strings.TrimPrefix(httpURL, "http://")
	default:
		return httpURL
	}
}

func newSubscriber(url string, cfg SubscriptionConfig) *subscriber {
	return &subscriber{
		url:     url,
		config:  cfg,
		subs:    make(map[int64]chan EventEnvelope),
		filters: make(map[int64]string),
		pending: make(map[uint64]chan int64),
		done:    make(chan struct{}),
	}
}

func (s *subscriber) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	s.conn = conn
	return nil
}

func (s *subscriber) start(ctx context.Context) error {
	if err := s.connect(ctx); err != nil {
		return err
	}
	s.wg.Add(2)
	go s.readLoop()
	go s.pingLoop()
	return nil
}

func (s *subscriber) subscribe(ctx context.Context, moveEventType string) (int64, error) {
	if s.closed.Load() {
		return 0, fmt.Errorf("subscriber closed")
	}

	reqID := s.requestID.Add(1)
	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      reqID,
		"method":  "suix_subscribeEvent",
		"params":  []any{map[string]any{"MoveEventType": moveEventType}},
	}

	confirm := make(chan int64, 1)
	s.pendingMu.Lock()
	s.pending[reqID] = confirm
	s.pendingMu.Unlock()

	s.connMu.Lock()
	if s.conn == nil {
		s.connMu.Unlock()
		s.dropPending(reqID)
		return 0, fmt.Errorf("not connected")
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	err := s.conn.WriteJSON(req)
	s.connMu.Unlock()
	if err != nil {
		s.dropPending(reqID)
		return 0, fmt.Errorf("write subscribe: %w", err)
	}

	select {
	case id := <-confirm:
		return id, nil
	case <-time.After(30 * time.Second):
		s.dropPending(reqID)
		return 0, fmt.Errorf("subscription timeout after 30s")
	case <-s.done:
		return 0, fmt.Errorf("subscriber closed")
	case <-ctx.Done():
		s.dropPending(reqID)
		return 0, ctx.Err()
	}
}

func (s *subscriber) dropPending(reqID uint64) {
	s.pendingMu.Lock()
	delete(s.pending, reqID)
	s.pendingMu.Unlock()
}

// SubscribeEvents dials a subscription socket of its own and delivers
// every future event of moveEventType on the returned channel until
// Unsubscribe is called or ctx is done.
func (c *Client) SubscribeEvents(ctx context.Context, moveEventType string) (<-chan EventEnvelope, Unsubscribe, error) {
	s := newSubscriber(wsURLFor(c.url, c.wsURL), DefaultSubscriptionConfig())
	if err := s.start(ctx); err != nil {
		return nil, nil, err
	}

	subID, err := s.subscribe(ctx, moveEventType)
	if err != nil {
		s.close()
		return nil, nil, err
	}

	ch := make(chan EventEnvelope, 4096)
	s.subsMu.Lock()
	s.subs[subID] = ch
	s.filters[subID] = moveEventType
	s.subsMu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			s.close()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			unsub()
		case <-s.done:
		}
	}()
	return ch, Unsubscribe(unsub), nil
}

func (s *subscriber) close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.subsMu.Lock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.subsMu.Unlock()

	s.wg.Wait()
}

func (s *subscriber) readLoop() {
	defer s.wg.Done()

	delay := s.config.ReconnectDelay
	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}
			if !s.reconnecting.Swap(true) {
				go s.reconnect(delay)
			}
			delay *= 2
			if delay > s.config.MaxReconnectDelay {
				delay = s.config.MaxReconnectDelay
			}
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		delay = s.config.ReconnectDelay
		s.handleMessage(msg)
	}
}

func (s *subscriber) reconnect(delay time.Duration) {
	defer s.reconnecting.Store(false)
	if s.closed.Load() {
		return
	}
	select {
	case <-s.done:
		return
	case <-time.After(delay):
	}

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.connect(ctx); err != nil {
		return
	}
	s.resubscribeAll()
}

func (s *subscriber) resubscribeAll() {
	s.subsMu.RLock()
	filters := make(map[int64]string, len(s.filters))
	for id, f := range s.filters {
		filters[id] = f
	}
	channels := make(map[int64]chan EventEnvelope, len(s.subs))
	for id, ch := range s.subs {
		channels[id] = ch
	}
	s.subsMu.RUnlock()

	for oldID, filter := range filters {
		ch, ok := channels[oldID]
		if !ok {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		newID, err := s.subscribe(ctx, filter)
		cancel()
		if err != nil {
			continue
		}
		s.subsMu.Lock()
		delete(s.subs, oldID)
		delete(s.filters, oldID)
		s.subs[newID] = ch
		s.filters[newID] = filter
		s.subsMu.Unlock()
	}
}

func (s *subscriber) handleMessage(msg []byte) {
	var env wsEnvelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return
	}

	if env.Method == "" && len(env.Result) > 0 {
		var subID int64
		if err := json.Unmarshal(env.Result, &subID); err == nil {
			s.pendingMu.Lock()
			ch, ok := s.pending[env.ID]
			if ok {
				delete(s.pending, env.ID)
			}
			s.pendingMu.Unlock()
			if ok {
				select {
				case ch <- subID:
				default:
				}
			}
		}
		return
	}

	if env.Params == nil {
		return
	}

	s.subsMu.RLock()
	ch, ok := s.subs[env.Params.Subscription]
	s.subsMu.RUnlock()
	if !ok {
		return
	}

	evt := EventEnvelope{
		Type:        s.filterFor(env.Params.Subscription),
		Parsed:      env.Params.Result,
		TimestampMs: 0,
	}

	select {
	case ch <- evt:
	case <-s.done:
	}
}

func (s *subscriber) filterFor(subID int64) string {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	return s.filters[subID]
}

func (s *subscriber) pingLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				_ = s.conn.WriteMessage(websocket.PingMessage, nil)
			}
			s.connMu.Unlock()
		}
	}
}
