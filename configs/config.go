package config

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/gofrs/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/joho/godotenv"
)

var InstanceId string

// Config holds the env driven settings shared by the hunt and socket services.
type Config struct {
	HuntPort         string
	SocketPort       string
	DatabaseURL      string
	AdminKey         string
	SessionTTL       time.Duration
	RateLimit        int
	NatsURL          string
	NatsToken        string
	JWTSecret        string
	CORSOrigins      []string
	TelegramBotToken string
	TelegramChatIDs  []int64
	PublicBaseURL    string
}

func LoadEnv(service string) {
	log.Infof("%s service configuration and env variables loading started ...", service)
	err := godotenv.Load("./.env")
	if err != nil {
		log.Warnf(".env file not found, using environment variables: %v", err)
		return
	}

	log.Info(".env file loaded.")
}

func Load() Config {
	return Config{
		HuntPort:         getEnv("HUNT_SERVICE_PORT", "8080"),
		SocketPort:       getEnv("SOCKET_SERVICE_PORT", "8081"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		AdminKey:         getEnv("ADMIN_KEY", ""),
		SessionTTL:       getDurationEnv("SESSION_TTL", 24*time.Hour),
		RateLimit:        getIntEnv("RATE_LIMIT", 300),
		NatsURL:          getEnv("NATS_URL", ""),
		NatsToken:        getEnv("NATS_TOKEN", ""),
		JWTSecret:        getEnv("JWT_SECRET_KEY", ""),
		CORSOrigins:      getListEnv("CORS_ORIGINS", []string{"http://localhost:5173"}),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatIDs:  getInt64ListEnv("TELEGRAM_CHAT_IDS"),
		PublicBaseURL:    strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
	}
}

// Validate checks the settings huntsvc cannot start without.
func (c Config) Validate() error {
	if c.AdminKey == "" {
		return errConfig("admin key required")
	}
	if c.DatabaseURL == "" {
		return errConfig("database url required")
	}
	if c.SessionTTL <= 0 {
		return errConfig("session ttl must be positive")
	}
	if c.RateLimit <= 0 {
		return errConfig("rate limit must be positive")
	}
	return nil
}

type errConfig string

func (e errConfig) Error() string { return string(e) }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
		log.Warnf("invalid %s value %q, using %d", key, v, def)
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
		log.Warnf("invalid %s value %q, using %s", key, v, def)
	}
	return def
}

func getListEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getInt64ListEnv(key string) []int64 {
	var out []int64
	for _, part := range getListEnv(key, nil) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Errorf("invalid %s entry %q: %v", key, part, err)
			continue
		}
		out = append(out, id)
	}
	return out
}

func CreateUniqueInstance(service string) string {
	id, err := uuid.NewV4() // instance identifier
	if err != nil {
		log.Errorf("error generating instanceId: %s", err)
		os.Exit(0)
	}
	InstanceId = id.String()
	log.Infof(service+" service with Instance ID: %s is ready", id)
	return id.String()
}

func CORS(origins []string) *cors.Cors {
	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return corsOptions
}

func Logging(service string) {
	if os.Getenv("LOG_TO_STDOUT") == "true" {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		log.SetLevel(log.InfoLevel)
		return
	}

	logFolder := getEnv("LOG_DIR", ".l_g")

	_, err := os.Stat(logFolder)
	if os.IsNotExist(err) {
		err = os.MkdirAll(logFolder, 0755)
		if err != nil {
			log.Warnf("unable to create folder for log %s", err)
			return
		}
	}

	logFilePath := filepath.Join(logFolder, service+".log")

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal("Failed to open log file:", err)
	}

	log.SetOutput(file)

	log.SetFormatter(&log.TextFormatter{})
	log.SetLevel(log.InfoLevel)

	log.Infof("log to file started for service: %s", service)
}

func CustomLoggerMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.WithField("request_id", middleware.GetReqID(r.Context())).Printf("%s %s %s %d %s %s",
					r.Method,
					r.RequestURI,
					r.RemoteAddr,
					ww.Status(),
					http.StatusText(ww.Status()),
					time.Since(start),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
