package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"vendorpanel/internal/cache"
	"vendorpanel/internal/models"
)

// Categories serves the organization selector. The category tree is owned
// elsewhere; this is a cached read-through.
func (h *ProductHandler) Categories(c *gin.Context) {
	const route = "GET /panel/categories"
	defer handlePanic(c, h.logger, route)

	vendorID := vendorFrom(c)
	ctx := c.Request.Context()

	if h.redisClient != nil {
		if cached, err := cache.GetCategories(ctx, h.redisClient, vendorID); err == nil {
			var categories []models.Category
			if err := json.Unmarshal(cached, &categories); err == nil {
				c.JSON(http.StatusOK, gin.H{"data": categories})
				return
			}
		}
	}

	categories, err := h.client.ListCategories(ctx, vendorID)
	if err != nil {
		respondCatalogError(c, h.logger, route, err)
		return
	}

	if h.redisClient != nil {
		_ = cache.SetCategories(ctx, h.redisClient, vendorID, categories, h.cacheTTL)
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}
