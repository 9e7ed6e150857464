package router

import (
	"github.com/gin-gonic/gin"

	"crm_backend/internal/interfaces/http/handler"
)

func RegisterRoutes(
	r *gin.Engine,
	customerHandler *handler.CustomerHandler,
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
) {
	api := r.Group("/api")
	{
		api.GET("/hello", handler.Hello)

		api.POST("/customers", customerHandler.Create)
		api.POST("/customers/bulk", customerHandler.BulkCreate)
		api.GET("/customers", customerHandler.List)

		api.POST("/products", productHandler.Create)
		api.POST("/products/replenish", productHandler.Replenish)
		api.GET("/products", productHandler.List)

		api.POST("/orders", orderHandler.Create)
		api.GET("/orders", orderHandler.List)
	}
}
