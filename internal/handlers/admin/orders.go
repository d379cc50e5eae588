// Package admin regroupe les endpoints du back-office : suivi des commandes
// et gestion du stock. Toutes les routes passent par RequireAdmin.
package admin

import (
	"log"
	"net/http"
	"time"

	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/orders"
	"atelier_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

var orderStore = orders.NewScyllaStore()

func respondError(c *gin.Context, err error) {
	if ve, ok := domain.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "données invalides", "fields": ve.Fields})
		return
	}
	if err == domain.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "ressource introuvable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
}

// ListOrders retourne toutes les commandes, filtrables par statut.
func ListOrders(c *gin.Context) {
	list, err := orderStore.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
}

// GetOrder retourne le détail d'une commande, lignes comprises.
func GetOrder(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant de commande invalide"})
		return
	}

	order, err := orderStore.GetByID(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus applique une transition de statut sur une commande.
// Transition refuse les sorties d'état terminal et les retours en arrière ;
// reposer le même statut est idempotent. Le client est prévenu par e-mail
// quand le statut change réellement.
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant de commande invalide"})
		return
	}

	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	order, err := orderStore.GetByID(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	previousStatus := order.Status
	if err := orders.Transition(order, req.Status, req.Notes, time.Now()); err != nil {
		respondError(c, err)
		return
	}

	if err := orderStore.UpdateStatus(c.Request.Context(), order); err != nil {
		respondError(c, err)
		return
	}

	if order.Status != previousStatus {
		log.Printf("✅ Commande %s: %s -> %s", order.OrderNumber, previousStatus, order.Status)
		if email := order.BillingAddress.Email; email != "" {
			o := *order
			go utils.SendStatusUpdate(o, email)
		}
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
