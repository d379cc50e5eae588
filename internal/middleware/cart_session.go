package middleware

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	cartSessionName  = "atelier_cart"
	cartSessionToken = "token"
)

var cartSessionStore = newCartSessionStore()

func newCartSessionStore() *sessions.CookieStore {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Println("⚠️ SESSION_SECRET manquant — cookie panier non signé de façon stable")
		secret = "dev-only-secret"
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 30)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CartSession garantit qu'un visiteur anonyme possède un token de session
// panier (cookie signé, 30 jours) et le pose dans le context Gin.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := cartSessionStore.Get(c.Request, cartSessionName)
		if err != nil {
			// Cookie corrompu : on repart sur une session neuve
			session, _ = cartSessionStore.New(c.Request, cartSessionName)
		}

		token, ok := session.Values[cartSessionToken].(string)
		if !ok || token == "" {
			token = uuid.NewString()
			session.Values[cartSessionToken] = token
			if err := session.Save(c.Request, c.Writer); err != nil {
				log.Printf("⚠️ Erreur sauvegarde session panier: %v", err)
			}
		}

		c.Set("cart_session", token)
		c.Next()
	}
}

// CartIdentityKey retourne la clé canonique du panier du demandeur :
// "user:<id>" si authentifié, sinon "session:<token>". Une seule fonction
// de résolution, pas deux chemins parallèles.
func CartIdentityKey(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}
	return "session:" + c.GetString("cart_session")
}
