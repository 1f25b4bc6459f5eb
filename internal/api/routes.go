package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gitisfun/price-tracker-api/internal/handler"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, products *handler.ProductHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.POST("/products", products.Create)
	api.GET("/products", products.List)
	api.GET("/products/:id", products.Get)
	api.GET("/products/:id/report", products.Report)
	api.DELETE("/products/:id", products.Delete)
}
