package handlers

import (
	"net/http"

	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ListMyOrders retourne l'historique de commandes du client connecté, le plus
// récent d'abord.
func ListMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	summaries, err := orderStore.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": summaries, "count": len(summaries)})
}

// GetMyOrder retourne le détail d'une commande appartenant au client connecté.
func GetMyOrder(c *gin.Context) {
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
	if order.UserID != c.GetString("user_id") {
		respondError(c, domain.ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// DownloadInvoice génère et renvoie la facture PDF d'une commande du client.
func DownloadInvoice(c *gin.Context) {
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
	if order.UserID != c.GetString("user_id") {
		respondError(c, domain.ErrForbidden)
		return
	}

	pdf, err := utils.GenerateInvoicePDF(*order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "génération de la facture échouée"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=facture_"+order.OrderNumber+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
