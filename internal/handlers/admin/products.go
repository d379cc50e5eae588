package admin

import (
	"net/http"
	"strings"
	"time"

	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"
	"atelier_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CreateProduct ajoute un produit au catalogue puis l'indexe dans
// Elasticsearch en arrière-plan.
func CreateProduct(c *gin.Context) {
	var req struct {
		Name           string   `json:"name"`
		Slug           string   `json:"slug"`
		Description    string   `json:"description"`
		SKU            string   `json:"sku"`
		Price          float64  `json:"price"`
		ComparePrice   float64  `json:"compare_price"`
		StockQuantity  int      `json:"stock_quantity"`
		TrackInventory bool     `json:"track_inventory"`
		Sizes          []string `json:"sizes"`
		Colors         []string `json:"colors"`
		ImageURLs      []string `json:"image_urls"`
		CategoryID     string   `json:"category_id"`
		IsActive       bool     `json:"is_active"`
		IsFeatured     bool     `json:"is_featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	ve := &domain.ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		ve.Add("name", "champ requis")
	}
	if strings.TrimSpace(req.Slug) == "" {
		ve.Add("slug", "champ requis")
	}
	if strings.TrimSpace(req.SKU) == "" {
		ve.Add("sku", "champ requis")
	}
	if req.Price <= 0 {
		ve.Add("price", "le prix doit être positif")
	}
	if req.StockQuantity < 0 {
		ve.Add("stock_quantity", "le stock ne peut pas être négatif")
	}
	if !ve.Empty() {
		respondError(c, ve)
		return
	}

	var categoryID gocql.UUID
	if req.CategoryID != "" {
		id, err := gocql.ParseUUID(req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category_id invalide"})
			return
		}
		categoryID = id
	}

	now := time.Now()
	product := models.Product{
		ID:             gocql.TimeUUID(),
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		SKU:            req.SKU,
		Price:          req.Price,
		ComparePrice:   req.ComparePrice,
		StockQuantity:  req.StockQuantity,
		TrackInventory: req.TrackInventory,
		Sizes:          req.Sizes,
		Colors:         req.Colors,
		ImageURLs:      req.ImageURLs,
		CategoryID:     categoryID,
		IsActive:       req.IsActive,
		IsFeatured:     req.IsFeatured,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := catalogStore.Create(c.Request.Context(), &product); err != nil {
		respondError(c, err)
		return
	}

	go services.IndexProduct(product)

	c.JSON(http.StatusCreated, gin.H{"product": product})
}
