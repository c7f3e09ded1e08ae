package broker

import (
	"encoding/json"

	"github.com/avvvet/bonushunt-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Conn is the part of *nats.Conn the broker uses.
type Conn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Sender writes one message to a connected web client.
type Sender interface {
	WriteJSON(v interface{}) error
}

type Broker struct {
	Conn           Conn
	GetConnection  func(string) (Sender, bool)
	GetRoomSockets func(string) ([]string, bool)
}

func NewBroker(conn Conn, fncGetConnection func(string) (Sender, bool), fncGetRoomSockets func(string) ([]string, bool)) *Broker {
	return &Broker{
		Conn:           conn,
		GetConnection:  fncGetConnection,
		GetRoomSockets: fncGetRoomSockets,
	}
}

// consume message from hunt service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// publish message to hunt service
func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// handleMessages receive message from hunt service
func (b *Broker) handleMessages(msgNats *nats.Msg) {
	message := &comm.WSMessage{}
	if err := json.Unmarshal(msgNats.Data, &message); err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Dispatch(message)
}

// Dispatch routes a hunt service message to the sockets it concerns.
func (b *Broker) Dispatch(message *comm.WSMessage) {
	switch message.Type {
	case comm.TypeHuntUpdated:
		var update comm.HuntUpdate
		if err := json.Unmarshal(message.Data, &update); err != nil {
			log.Errorf("Error decoding hunt update: %s", err)
			return
		}
		b.broadcast(update.HuntID, message)
	case comm.TypeHuntSnapshot, comm.TypeError:
		b.sendMessage(message.SocketId, message)
	default:
		log.Warnf("unknown message from hunt service: %s", message.Type)
	}
}

func (b *Broker) broadcast(huntID string, m *comm.WSMessage) {
	sockets, ok := b.GetRoomSockets(huntID)
	if !ok {
		return
	}
	for _, socketId := range sockets {
		b.sendMessage(socketId, m)
	}
	log.Debugf("hunt %s update pushed to %d sockets", huntID, len(sockets))
}

// send socket message to the web client
func (b *Broker) sendMessage(socketId string, m *comm.WSMessage) {
	if socketId == "" {
		return
	}
	if conn, ok := b.GetConnection(socketId); ok {
		if err := conn.WriteJSON(m); err != nil {
			log.Warnf("write to socket %s failed: %s", socketId, err)
		}
	}
}
