package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/avvvet/bonushunt-services/internal/comm"
	"github.com/avvvet/bonushunt-services/internal/socketsvc/broker"
	"github.com/avvvet/bonushunt-services/internal/socketsvc/ws"
	"github.com/go-chi/chi"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type busRecorder struct {
	mu        sync.Mutex
	msgs      map[string][]comm.WSMessage
	onPublish func(subj string, m comm.WSMessage)
}

func (b *busRecorder) Publish(subj string, data []byte) error {
	var m comm.WSMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	b.mu.Lock()
	if b.msgs == nil {
		b.msgs = map[string][]comm.WSMessage{}
	}
	b.msgs[subj] = append(b.msgs[subj], m)
	hook := b.onPublish
	b.mu.Unlock()

	if hook != nil {
		hook(subj, m)
	}
	return nil
}

func (b *busRecorder) Subscribe(string, nats.MsgHandler) (*nats.Subscription, error) {
	return &nats.Subscription{}, nil
}

func (b *busRecorder) on(subj string) []comm.WSMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]comm.WSMessage(nil), b.msgs[subj]...)
}

func readMessage(t *testing.T, conn *websocket.Conn) comm.WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m comm.WSMessage
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func TestSubscribeAndReceiveUpdates(t *testing.T) {
	InitAuth("test-secret")
	bus := &busRecorder{}
	s := ws.NewWs()
	b := broker.NewBroker(bus, s.GetSender, s.GetRoomSockets)
	s.Broker = b

	r := chi.NewRouter()
	SetRoutes(r, s, "8081")
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(comm.WSMessage{Type: comm.TypeSubscribe, Data: json.RawMessage(`{"hunt_id":"h1"}`)}))

	ack := readMessage(t, conn)
	assert.Equal(t, comm.TypeSubscribed, ack.Type)
	assert.JSONEq(t, `{"hunt_id":"h1"}`, string(ack.Data))

	require.Eventually(t, func() bool {
		return len(bus.on(comm.SocketServiceTopic)) == 1
	}, 2*time.Second, 10*time.Millisecond)
	forwarded := bus.on(comm.SocketServiceTopic)
	assert.Equal(t, comm.TypeSubscribe, forwarded[0].Type)
	assert.NotEmpty(t, forwarded[0].SocketId)

	b.Dispatch(&comm.WSMessage{Type: comm.TypeHuntSnapshot, Data: json.RawMessage(`{"hunt":{"id":"h1"}}`), SocketId: forwarded[0].SocketId})
	assert.Equal(t, comm.TypeHuntSnapshot, readMessage(t, conn).Type)

	update, err := json.Marshal(comm.HuntUpdate{HuntID: "h1", Reason: "payout"})
	require.NoError(t, err)
	b.Dispatch(&comm.WSMessage{Type: comm.TypeHuntUpdated, Data: update})

	got := readMessage(t, conn)
	assert.Equal(t, comm.TypeHuntUpdated, got.Type)
	var u comm.HuntUpdate
	require.NoError(t, json.Unmarshal(got.Data, &u))
	assert.Equal(t, "payout", u.Reason)
}

func TestSubscribedArrivesBeforeSnapshot(t *testing.T) {
	InitAuth("test-secret")
	bus := &busRecorder{}
	s := ws.NewWs()
	b := broker.NewBroker(bus, s.GetSender, s.GetRoomSockets)
	s.Broker = b

	// answer the snapshot request as soon as it is published
	bus.onPublish = func(subj string, m comm.WSMessage) {
		if subj != comm.SocketServiceTopic {
			return
		}
		b.Dispatch(&comm.WSMessage{Type: comm.TypeHuntSnapshot, Data: json.RawMessage(`{"hunt":{"id":"h1"}}`), SocketId: m.SocketId})
	}

	r := chi.NewRouter()
	SetRoutes(r, s, "8081")
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(comm.WSMessage{Type: comm.TypeSubscribe, Data: json.RawMessage(`{"hunt_id":"h1"}`)}))

	assert.Equal(t, comm.TypeSubscribed, readMessage(t, conn).Type)
	assert.Equal(t, comm.TypeHuntSnapshot, readMessage(t, conn).Type)
}

func TestMalformedSocketMessage(t *testing.T) {
	InitAuth("test-secret")
	s := ws.NewWs()
	s.Broker = broker.NewBroker(&busRecorder{}, s.GetSender, s.GetRoomSockets)

	r := chi.NewRouter()
	SetRoutes(r, s, "8081")
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, comm.TypeError, readMessage(t, conn).Type)
}

func TestHealthNeedsToken(t *testing.T) {
	InitAuth("test-secret")
	r := chi.NewRouter()
	SetRoutes(r, ws.NewWs(), "8081")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, token, err := tokenAuth.Encode(map[string]interface{}{"service_id": "test", "exp": time.Now().Add(time.Minute).Unix()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
