package handlers

import (
	"net/http"

	"atelier_back_end/internal/cache"
	cartpkg "atelier_back_end/internal/cart"
	"atelier_back_end/internal/middleware"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

func cartResponse(cart *models.Cart) gin.H {
	return gin.H{
		"cart":        cart,
		"total_items": cart.TotalItems(),
		"total":       cart.TotalAmount(),
	}
}

// GetCart retourne le panier du demandeur (cache Redis d'abord, Scylla sinon).
func GetCart(c *gin.Context) {
	identityKey := middleware.CartIdentityKey(c)

	if cached, ok := cache.GetCartView(c.Request.Context(), identityKey); ok {
		c.JSON(http.StatusOK, cartResponse(cached))
		return
	}

	cart, err := cartService.Resolve(c.Request.Context(), identityKey)
	if err != nil {
		respondError(c, err)
		return
	}

	cache.SetCartView(c.Request.Context(), identityKey, cart)
	c.JSON(http.StatusOK, cartResponse(cart))
}

// AddToCart ajoute un produit au panier (fusion sur produit+taille+couleur).
func AddToCart(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
		Color     string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	productID, err := gocql.ParseUUID(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id invalide"})
		return
	}

	identityKey := middleware.CartIdentityKey(c)
	updated, err := cartService.AddItem(c.Request.Context(), identityKey, cartpkg.AddItemInput{
		ProductID: productID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cartResponse(updated))
}

// UpdateCartItem modifie la quantité d'une ligne du panier du demandeur.
func UpdateCartItem(c *gin.Context) {
	itemID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant de ligne invalide"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	identityKey := middleware.CartIdentityKey(c)
	cart, err := cartService.UpdateItemQuantity(c.Request.Context(), identityKey, itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveCartItem supprime une ligne du panier du demandeur.
func RemoveCartItem(c *gin.Context) {
	itemID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant de ligne invalide"})
		return
	}

	identityKey := middleware.CartIdentityKey(c)
	cart, err := cartService.RemoveItem(c.Request.Context(), identityKey, itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart vide le panier du demandeur.
func ClearCart(c *gin.Context) {
	identityKey := middleware.CartIdentityKey(c)

	if err := cartService.Clear(c.Request.Context(), identityKey); err != nil {
		respondError(c, err)
		return
	}

	cart, err := cartService.Resolve(c.Request.Context(), identityKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}
