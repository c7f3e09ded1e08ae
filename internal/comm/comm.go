package comm

import (
	"encoding/json"
	"time"
)

// Subjects on the NATS bus.
const (
	HuntServiceTopic   = "hunt.service"   // huntsvc -> socketsvc
	SocketServiceTopic = "socket.service" // socketsvc -> huntsvc
)

// Message types carried in WSMessage.Type.
const (
	TypeHuntUpdated  = "hunt-updated"
	TypeHuntSnapshot = "hunt-snapshot"
	TypeSubscribe    = "subscribe"
	TypeUnsubscribe  = "unsubscribe"
	TypeSubscribed   = "subscribed"
	TypeError        = "error"
)

type WSMessage struct {
	Type     string          `json:"type"` // e.g. "subscribe", "hunt-updated"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid,omitempty"`
}

// HuntSubscription is the payload of subscribe/unsubscribe socket messages.
type HuntSubscription struct {
	HuntID string `json:"hunt_id"`
}

// HuntUpdate tells overlay clients that a hunt changed and should be refetched.
type HuntUpdate struct {
	HuntID   string    `json:"hunt_id"`
	Reason   string    `json:"reason"` // created, updated, deleted, started, bonus-added, payout ...
	Status   string    `json:"status,omitempty"`
	TotalWon string    `json:"total_won,omitempty"`
	At       time.Time `json:"at"`
}
