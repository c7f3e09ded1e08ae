package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/avvvet/bonushunt-services/internal/comm"
	"github.com/avvvet/bonushunt-services/internal/socketsvc/ws"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	maxMessageSize = 4096
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
)

type Handler struct {
	upgrader websocket.Upgrader
	ws       *ws.Ws
	port     string
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func NewHandler(s *ws.Ws, port string) *Handler {
	h := &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// OBS browser sources connect from file:// and arbitrary hosts
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		ws:   s,
		port: port,
	}
	return h
}

// HandleWebSocket upgrades an overlay client and reads its subscription messages.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	socketId := uuid.New().String()
	h.ws.StoreConnection(socketId, conn)

	log.Infof("New WebSocket connection established: %s", socketId)

	go h.handleConnection(conn, socketId)
}

func (h *Handler) handleConnection(conn *websocket.Conn, socketId string) {
	done := make(chan struct{})

	// Ensure cleanup happens when connection closes
	defer func() {
		log.Infof("Closing WebSocket connection: %s", socketId)
		close(done)
		h.ws.HandleDisconnect(socketId)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.keepAlive(socketId, done)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Errorf("WebSocket unexpected close error for socket %s: %v", socketId, err)
			}
			break
		}

		message := &comm.WSMessage{}
		if err := json.Unmarshal(raw, &message); err != nil {
			log.Errorf("Failed to unmarshal message from socket %s: %v", socketId, err)
			h.sendErrorToClient(socketId, "Invalid message format")
			continue
		}

		log.Debugf("Received message from socket %s: type=%s", socketId, message.Type)

		h.ws.SocketMessage(socketId, message)
	}
}

// keepAlive pings idle overlay sockets so proxies keep them open.
func (h *Handler) keepAlive(socketId string, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			client, ok := h.ws.GetConnection(socketId)
			if !ok {
				return
			}
			if err := client.Ping(); err != nil {
				log.Warnf("ping to socket %s failed: %v", socketId, err)
				return
			}
		}
	}
}

func (h *Handler) sendErrorToClient(socketId, errorMsg string) {
	client, ok := h.ws.GetConnection(socketId)
	if !ok {
		return
	}
	data, _ := json.Marshal(map[string]string{"error": errorMsg})
	if err := client.WriteJSON(&comm.WSMessage{Type: comm.TypeError, Data: data}); err != nil {
		log.Errorf("Failed to send error message to client: %v", err)
	}
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "socket service is running at port " + h.port,
		Code:    http.StatusOK,
	})
}
