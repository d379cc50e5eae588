package handlers

import (
	"log"
	"net/http"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS géré en amont
	},
}

// CartWebSocket pousse le panier au client à chaque mutation. Le handler
// s'abonne au canal pub/sub du panier et renvoie la vue complète à chaque
// notification, plus un ping périodique pour garder la connexion vivante.
func CartWebSocket(c *gin.Context) {
	identityKey := middleware.CartIdentityKey(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Upgrade websocket échoué: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := database.Redis.Subscribe(ctx, "cart:"+identityKey)
	defer pubsub.Close()

	// État initial à la connexion
	if cart, err := cartService.Resolve(ctx, identityKey); err == nil {
		conn.WriteJSON(cartResponse(cart))
	}

	// Draine les messages de contrôle du client (close, pong)
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			cart, err := cartService.Resolve(ctx, identityKey)
			if err != nil {
				log.Printf("⚠️ Lecture panier pour websocket %s: %v", identityKey, err)
				continue
			}
			if err := conn.WriteJSON(cartResponse(cart)); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
