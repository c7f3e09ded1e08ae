package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avvvet/bonushunt-services/internal/comm"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Conn is the part of *nats.Conn the broker uses.
type Conn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Overlays loads the overlay a freshly subscribed socket starts from.
type Overlays interface {
	Overlay(ctx context.Context, huntID string) (*models.HuntOverlay, error)
}

type Broker struct {
	Conn  Conn
	Hunts Overlays
}

func NewBroker(conn Conn) *Broker {
	return &Broker{
		Conn: conn,
	}
}

// PublishHuntUpdated broadcasts a hunt change to every socket service.
func (b *Broker) PublishHuntUpdated(u comm.HuntUpdate) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}

	msg := &comm.WSMessage{
		Type: comm.TypeHuntUpdated,
		Data: data,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return b.Publish(comm.HuntServiceTopic, payload)
}

// handles message coming from socket
func (b *Broker) handleMessage(msgNat *nats.Msg) {
	msg := &comm.WSMessage{}
	if err := json.Unmarshal(msgNat.Data, &msg); err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	switch msg.Type {
	case comm.TypeSubscribe:
		var request comm.HuntSubscription
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			log.Errorf("Error decoding subscribe request: %s", err)
			return
		}
		if b.Hunts == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		overlay, err := b.Hunts.Overlay(ctx, request.HuntID)
		if err != nil {
			log.Warnf("no snapshot for hunt %s: %s", request.HuntID, err)
			b.PublishError("hunt not found", msg.SocketId)
			return
		}

		b.PublishSnapshot(overlay, msg.SocketId)
	default:
		log.Warnf("unknown message type from socket service: %s", msg.Type)
	}
}

// PublishSnapshot sends the full overlay to one socket.
func (b *Broker) PublishSnapshot(overlay *models.HuntOverlay, socketId string) {
	data, err := json.Marshal(overlay)
	if err != nil {
		log.Errorf("[PublishSnapshot] unable to marshal overlay for %s: %s", socketId, err)
		return
	}

	b.publishTo(comm.TypeHuntSnapshot, data, socketId)
}

func (b *Broker) PublishError(reason, socketId string) {
	data, err := json.Marshal(map[string]string{"error": reason})
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.publishTo(comm.TypeError, data, socketId)
}

func (b *Broker) publishTo(msgType string, data json.RawMessage, socketId string) {
	msg := &comm.WSMessage{
		Type:     msgType,
		Data:     data,
		SocketId: socketId,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(comm.HuntServiceTopic, payload)
}

// consume message from socket service
func (b *Broker) SubscribeSocketService(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
