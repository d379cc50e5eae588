package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"atelier_back_end/internal/cache"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

const categoriesCacheKey = "catalog:categories"

// ListCategories retourne les catégories actives du catalogue, avec un cache
// Redis court (le référentiel bouge rarement).
func ListCategories(c *gin.Context) {
	if data, err := cache.GetCache(c.Request.Context(), categoriesCacheKey); err == nil && data != "" {
		var categories []models.Category
		if json.Unmarshal([]byte(data), &categories) == nil {
			c.JSON(http.StatusOK, gin.H{"categories": categories})
			return
		}
	}

	categories, err := catalogStore.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if data, err := json.Marshal(categories); err == nil {
		cache.SetCache(c.Request.Context(), categoriesCacheKey, data, 5*time.Minute)
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
