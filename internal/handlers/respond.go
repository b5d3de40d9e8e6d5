package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vendorpanel/internal/catalog"
	"vendorpanel/internal/middleware"
)

func handlePanic(c *gin.Context, logger *zap.Logger, route string) {
	if r := recover(); r != nil {
		logger.Error("panic recovered", zap.String("route", route), zap.Any("panic", r))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondCatalogError maps the catalog error taxonomy onto panel HTTP
// responses. Auth failures are surfaced distinguishably so the dashboard can
// hand off to the session layer; transport failures become a retryable 502.
func respondCatalogError(c *gin.Context, logger *zap.Logger, route string, err error) {
	var serverErr *catalog.ServerValidationError
	var transportErr *catalog.TransportError

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondWithError(c, http.StatusNotFound, "product not found")
	case errors.Is(err, catalog.ErrUnauthorized):
		respondWithError(c, http.StatusUnauthorized, "catalog session expired")
	case errors.As(err, &serverErr):
		logger.Info("catalog rejected request",
			zap.String("route", route),
			zap.Int("upstream_status", serverErr.Status),
		)
		c.AbortWithStatusJSON(serverErr.Status, gin.H{
			"error":  serverErr.Error(),
			"errors": serverErr.Fields,
		})
	case errors.As(err, &transportErr):
		logger.Warn("catalog unreachable", zap.String("route", route), zap.Error(err))
		respondWithError(c, http.StatusBadGateway, "catalog service unavailable")
	default:
		logger.Error("unexpected catalog failure", zap.String("route", route), zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "internal server error")
	}
}

func vendorFrom(c *gin.Context) string {
	value, _ := c.Get(middleware.VendorIDKey)
	vendorID, _ := value.(string)
	return vendorID
}
