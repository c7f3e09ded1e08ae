package routes

import (
	"time"

	"github.com/avvvet/bonushunt-services/internal/socketsvc/handlers"
	"github.com/avvvet/bonushunt-services/internal/socketsvc/ws"
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

var tokenAuth *jwtauth.JWTAuth

func SetRoutes(r chi.Router, ws *ws.Ws, port string) {
	h := handlers.NewHandler(ws, port)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/ws", h.HandleWebSocket)
		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Get("/health", h.HealthHandler)
		})
	})
}

func InitAuth(secret string) {
	tokenAuth = jwtauth.New("HS256", []byte(secret), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, err := tokenAuth.Encode(map[string]interface{}{
		"service_id": "socketsvc",
		"exp":        expirationTime,
	})
	if err != nil {
		log.Errorf("failed to issue debug service token: %s", err)
		return
	}

	log.Debugf("service JWT for testing: %s", tokenString)
}
