package handlers

import (
	"net/http"

	"atelier_back_end/internal/checkout"
	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetCheckout vérifie la précondition du checkout : panier non vide. Retourne
// le panier et la prévisualisation des montants (taxe, livraison, total).
func GetCheckout(c *gin.Context) {
	userID := c.GetString("user_id")

	cart, err := cartService.Resolve(c.Request.Context(), "user:"+userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(cart.Items) == 0 {
		respondError(c, domain.ErrEmptyCart)
		return
	}

	totals := checkout.ComputeTotals(cart.Items)
	c.JSON(http.StatusOK, gin.H{
		"cart":   cart,
		"totals": totals,
	})
}

// PlaceOrder convertit le panier en commande. La confirmation (e-mail +
// facture PDF) part en goroutine, la réponse n'attend pas le SMTP.
func PlaceOrder(c *gin.Context) {
	userID := c.GetString("user_id")

	var in checkout.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	order, err := checkoutService.Checkout(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	if email := c.GetString("email"); email != "" {
		go utils.SendOrderConfirmation(*order, email)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Commande créée avec succès",
		"order":   order,
	})
}
