package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/avvvet/bonushunt-services/internal/comm"
	"github.com/avvvet/bonushunt-services/internal/socketsvc/broker"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

// Client serializes writes to one websocket; gorilla allows a single writer.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *Client) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Ping sends a websocket ping control frame.
func (c *Client) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

type Ws struct {
	connMap sync.Map // socketId -> *Client
	roomMap sync.Map // socketId -> huntId
	Broker  *broker.Broker
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case comm.TypeSubscribe:
		s.handleSubscribe(socketId, message)
	case comm.TypeUnsubscribe:
		s.roomMap.Delete(socketId)
	default:
		log.Warnf("unknown event received: %s", message.Type)
		s.reply(socketId, comm.TypeError, map[string]string{"error": "unknown message type"})
	}
}

func (s *Ws) handleSubscribe(socketId string, msg *comm.WSMessage) {
	var payload comm.HuntSubscription
	if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.HuntID == "" {
		log.Warnf("invalid subscribe payload from socket %s", socketId)
		s.reply(socketId, comm.TypeError, map[string]string{"error": "hunt_id is required"})
		return
	}

	s.StoreRoom(socketId, payload.HuntID)
	s.reply(socketId, comm.TypeSubscribed, payload)

	// ask the hunt service for the current overlay
	if s.Broker != nil {
		msg.SocketId = socketId
		bytes, err := json.Marshal(msg)
		if err != nil {
			log.Errorf("Failed to marshal WSMessage for NATS: %v", err)
			return
		}

		topic := comm.SocketServiceTopic
		if err := s.Broker.Publish(topic, bytes); err != nil {
			log.Errorf("Failed to publish to NATS topic %s: %v", topic, err)
		}
	}

	log.Infof("socket %s subscribed to hunt %s", socketId, payload.HuntID)
}

func (s *Ws) reply(socketId, msgType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}
	client, ok := s.GetConnection(socketId)
	if !ok {
		return
	}
	if err := client.WriteJSON(&comm.WSMessage{Type: msgType, Data: data}); err != nil {
		log.Warnf("write to socket %s failed: %v", socketId, err)
	}
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, &Client{conn: conn})
}

func (s *Ws) GetConnection(socketId string) (*Client, bool) {
	client, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return client.(*Client), true
}

// GetSender adapts GetConnection for the broker.
func (s *Ws) GetSender(socketId string) (broker.Sender, bool) {
	client, ok := s.GetConnection(socketId)
	if !ok {
		return nil, false
	}
	return client, true
}

func (s *Ws) StoreRoom(socketId string, roomId string) {
	s.roomMap.Store(socketId, roomId)
}

func (s *Ws) GetRoom(socketId string) (string, bool) {
	room, ok := s.roomMap.Load(socketId)
	if !ok {
		return "", false
	}
	return room.(string), true
}

func (s *Ws) GetRoomSockets(roomId string) ([]string, bool) {
	var sockets []string
	found := false

	s.roomMap.Range(func(key, value interface{}) bool {
		if value.(string) == roomId {
			sockets = append(sockets, key.(string))
			found = true
		}
		return true // continue iterating
	})

	return sockets, found
}

// HandleDisconnect forgets a socket and its subscription.
func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.roomMap.Delete(socketId)
}
