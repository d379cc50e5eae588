package middleware

import (
	"fmt"
	"net/http"
	"time"

	"atelier_back_end/internal/cache"

	"github.com/gin-gonic/gin"
)

const (
	// APIMaxRequests : requêtes par minute et par IP sur les endpoints publics
	APIMaxRequests = 100
	APICooldown    = 1 * time.Minute
)

// APIRateLimit limite le trafic par IP via un compteur Redis fenêtré.
func APIRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "api_rate:" + c.ClientIP()

		count, err := cache.IncrementRateLimit(c.Request.Context(), key, APICooldown)
		if err != nil {
			// Redis indisponible : on laisse passer plutôt que de bloquer tout le site
			c.Next()
			return
		}

		if count > APIMaxRequests {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de requêtes. Réessayez dans %d secondes", int(APICooldown.Seconds())),
				"retry_after": int(APICooldown.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
