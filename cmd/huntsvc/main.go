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

	config "github.com/avvvet/bonushunt-services/configs"
	"github.com/avvvet/bonushunt-services/internal/comm"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/broker"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/db"
	handlers "github.com/avvvet/bonushunt-services/internal/huntsvc/handlers"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/notify"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/service"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/store"
	nats "github.com/avvvet/bonushunt-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "hunt"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	// pg connection
	dbpool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	huntStore := store.NewHuntStore(dbpool)
	bonusStore := store.NewBonusStore(dbpool)
	slotStore := store.NewSlotStore(dbpool)
	sessionStore := store.NewSessionStore(dbpool)
	metaStore := store.NewMetaStore(dbpool)

	// Connect to NATS, push is optional and polling keeps working without it
	var publisher service.Publisher = service.NopPublisher{}
	var peerBroker *broker.Broker
	var sub interface{ Unsubscribe() error }
	n, err := nats.Connect("huntsvc-"+instanceId, cfg.NatsURL, cfg.NatsToken)
	if err != nil {
		log.Warnf("unable to connect to NATS server, live push disabled: %v", err)
	} else {
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)
		peerBroker = broker.NewBroker(n.Conn)
		publisher = peerBroker
	}

	var notifier service.Notifier = service.NopNotifier{}
	telegram := notify.FromConfig(cfg.TelegramBotToken, cfg.TelegramChatIDs)
	if telegram != nil {
		notifier = telegram
	}

	huntService := service.NewHuntService(huntStore, bonusStore, publisher, notifier)
	services := handlers.Services{
		Sessions: service.NewSessionService(sessionStore, metaStore, cfg.AdminKey, cfg.SessionTTL),
		Hunts:    huntService,
		Bonuses:  service.NewBonusService(bonusStore, huntService),
		Slots:    service.NewSlotService(slotStore, metaStore),
		Meta:     service.NewMetaService(metaStore),
	}

	if peerBroker != nil {
		peerBroker.Hunts = huntService

		// subscribe to socket service
		s, err := peerBroker.SubscribeSocketService(comm.SocketServiceTopic)
		if err != nil {
			log.Errorf("Error: unable to subscribe to socket service %v", err)
		} else {
			sub = s
		}
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(cfg.CORSOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(services, cfg.PublicBaseURL, cfg.HuntPort)
	h.InitAuth(cfg.JWTSecret)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.HuntPort,
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

	if sub != nil {
		sub.Unsubscribe()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	telegram.Wait()
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
