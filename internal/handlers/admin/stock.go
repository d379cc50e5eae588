package admin

import (
	"net/http"

	"atelier_back_end/internal/catalog"
	"atelier_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

var catalogStore = catalog.NewStore()

// AdjustStock applique un réassort (delta) ou un ajustement absolu sur le
// stock d'un produit, tracé dans stock_movements avec l'admin à l'origine.
func AdjustStock(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant de produit invalide"})
		return
	}

	var req struct {
		Type     string `json:"type"` // "restock" ou "adjustment"
		Quantity int    `json:"quantity"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	prev, next, err := catalogStore.AdjustStock(c.Request.Context(), productID,
		req.Type, req.Quantity, req.Reason, c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	// Réaligne l'index de recherche sur le nouveau stock
	if product, err := catalogStore.GetByID(c.Request.Context(), productID); err == nil {
		go services.IndexProduct(*product)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Stock mis à jour",
		"prev_stock": prev,
		"new_stock":  next,
	})
}

// StockMovements retourne l'historique des mouvements de stock, filtrable par
// produit (?product_id=...).
func StockMovements(c *gin.Context) {
	var productID *gocql.UUID
	if raw := c.Query("product_id"); raw != "" {
		id, err := gocql.ParseUUID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id invalide"})
			return
		}
		productID = &id
	}

	movements, err := catalogStore.StockMovements(c.Request.Context(), productID, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": movements, "count": len(movements)})
}
