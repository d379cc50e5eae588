// Package handlers expose l'API HTTP. Les handlers restent minces : binding,
// résolution d'identité, appel du service, traduction des erreurs du domaine
// en codes HTTP.
package handlers

import (
	"errors"
	"net/http"

	"atelier_back_end/internal/cache"
	"atelier_back_end/internal/cart"
	"atelier_back_end/internal/catalog"
	"atelier_back_end/internal/checkout"
	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/orders"

	"github.com/gin-gonic/gin"
)

var (
	catalogStore    *catalog.Store
	cartService     *cart.Service
	checkoutService *checkout.Service
	orderStore      *orders.ScyllaStore
)

// Init câble les services sur les stores Scylla et le verrou/notification
// Redis. Appelé une fois au démarrage, après ConnectDatabases.
func Init() {
	catalogStore = catalog.NewStore()
	orderStore = orders.NewScyllaStore()

	cartService = &cart.Service{
		Store:    cart.NewScyllaStore(),
		Products: catalogStore,
		Lock:     cache.LockCart,
		Notify:   cache.InvalidateCartView,
	}

	checkoutService = &checkout.Service{
		Carts:    cartService,
		Products: catalogStore,
		Orders:   orderStore,
	}
}

// respondError traduit une erreur du domaine en réponse HTTP :
// validation → 400, introuvable → 404, propriété → 403, panier vide → 409
// avec redirection, tout le reste → 500 générique.
func respondError(c *gin.Context, err error) {
	if ve, ok := domain.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "données invalides", "fields": ve.Fields})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ressource introuvable"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "accès refusé"})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": "votre panier est vide", "redirect": "/cart"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
	}
}
