package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/bonushunt-services/configs"
	"github.com/avvvet/bonushunt-services/internal/comm"
	"github.com/avvvet/bonushunt-services/internal/nats"

	"github.com/avvvet/bonushunt-services/internal/socketsvc/broker"
	"github.com/avvvet/bonushunt-services/internal/socketsvc/routes"
	"github.com/avvvet/bonushunt-services/internal/socketsvc/ws"
)

const SERVICE_NAME = "socket"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := config.Load()

	// Connect to NATS
	n, err := nats.Connect("socketsvc-"+instanceId, cfg.NatsURL, cfg.NatsToken)
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(1)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(cfg.CORSOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Initialize websocket handler
	s := ws.NewWs()

	// Initialize routes
	routes.InitAuth(cfg.JWTSecret)
	routes.SetRoutes(r, s, cfg.SocketPort)

	// Initialize broker subscribe to hunt service
	b := broker.NewBroker(n.Conn, s.GetSender, s.GetRoomSockets) // s.GetSender dependency injection to broker
	s.Broker = b                                                 // set broker reference for websocket handler logic

	// subscribe to hunt service
	subHunts, err := b.Subscribe(comm.HuntServiceTopic)
	if err != nil {
		log.Errorf("Error: unable to subscribe to hunt service %v", err)
		os.Exit(1)
	}

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.SocketPort,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	subHunts.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
