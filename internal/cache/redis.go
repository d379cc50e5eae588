package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// CartViewTTL : durée de vie de la vue panier en cache (30 jours)
	CartViewTTL = 30 * 24 * time.Hour

	// cartLockTTL : durée max de détention du verrou de mutation panier
	cartLockTTL = 5 * time.Second
)

// --- Vue panier ---

func cartViewKey(identityKey string) string {
	return "cartview:" + identityKey
}

// GetCartView récupère la vue panier en cache (ultra-rapide, seulement Redis)
func GetCartView(ctx context.Context, identityKey string) (*models.Cart, bool) {
	data, err := database.Redis.Get(ctx, cartViewKey(identityKey)).Result()
	if err != nil || data == "" {
		return nil, false
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, false
	}
	return &cart, true
}

// SetCartView met la vue panier en cache
func SetCartView(ctx context.Context, identityKey string, cart *models.Cart) {
	data, err := json.Marshal(cart)
	if err != nil {
		return
	}
	database.Redis.Set(ctx, cartViewKey(identityKey), data, CartViewTTL)
}

// InvalidateCartView supprime la vue en cache et notifie les abonnés
// (websocket) via pub/sub.
func InvalidateCartView(ctx context.Context, identityKey string) {
	pipe := database.Redis.Pipeline()
	pipe.Del(ctx, cartViewKey(identityKey))
	pipe.Publish(ctx, "cart:"+identityKey, "updated")
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("⚠️ Erreur invalidation cache panier %s: %v", identityKey, err)
	}
}

// --- Verrou de mutation panier ---

// LockCart pose un verrou d'exclusion mutuelle par panier (SETNX + TTL).
// La fusion ajout-ou-incrément doit s'exécuter sous ce verrou pour éviter
// les lignes dupliquées entre requêtes concurrentes.
func LockCart(ctx context.Context, identityKey string) (func(), error) {
	key := "cartlock:" + identityKey
	token := fmt.Sprintf("%d", time.Now().UnixNano())

	for attempt := 0; attempt < 50; attempt++ {
		ok, err := database.Redis.SetNX(ctx, key, token, cartLockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			release := func() {
				// Ne libère que si on détient encore le verrou
				val, err := database.Redis.Get(context.Background(), key).Result()
				if err == nil && val == token {
					database.Redis.Del(context.Background(), key)
				}
			}
			return release, nil
		}
		time.Sleep(20 * time.Millisecond)
	}

	return nil, fmt.Errorf("verrou panier indisponible pour %s", identityKey)
}

// --- Cache catalogue générique ---

// SetCache stocke une valeur dans le cache
func SetCache(ctx context.Context, key string, value interface{}, duration time.Duration) error {
	return database.Redis.Set(ctx, key, value, duration).Err()
}

// GetCache récupère une valeur du cache
func GetCache(ctx context.Context, key string) (string, error) {
	return database.Redis.Get(ctx, key).Result()
}

// DeleteCache supprime une clé du cache
func DeleteCache(ctx context.Context, key string) error {
	return database.Redis.Del(ctx, key).Err()
}

// --- Rate Limiting Global ---

// IncrementRateLimit incrémente le compteur de rate limit
func IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := database.Redis.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// GetRateLimit récupère le compteur de rate limit
func GetRateLimit(ctx context.Context, key string) (int64, error) {
	val, err := database.Redis.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
