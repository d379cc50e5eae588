package handlers

import (
	"net/http"
	"strconv"

	"atelier_back_end/internal/catalog"
	"atelier_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ListProducts retourne les produits actifs, filtrables par catégorie,
// recherche texte et fourchette de prix. Les URLs d'images sont signées MinIO.
func ListProducts(c *gin.Context) {
	filter := catalog.Filter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filter.MinPrice = v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filter.MaxPrice = v
	}

	products, err := catalogStore.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	for i := range products {
		products[i].ImageURLs = services.SignImageURLs(c.Request.Context(), products[i].ImageURLs)
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProductByID retourne le détail d'un produit par identifiant.
func GetProductByID(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant de produit invalide"})
		return
	}

	product, err := catalogStore.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	product.ImageURLs = services.SignImageURLs(c.Request.Context(), product.ImageURLs)
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetProductBySlug retourne le détail d'un produit par slug.
func GetProductBySlug(c *gin.Context) {
	product, err := catalogStore.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	product.ImageURLs = services.SignImageURLs(c.Request.Context(), product.ImageURLs)
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// SearchProducts interroge l'index Elasticsearch (nom, description, SKU).
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre q requis"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}
