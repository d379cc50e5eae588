package routes

import (
	"net/http"

	"atelier_back_end/internal/handlers"
	"atelier_back_end/internal/handlers/admin"
	"atelier_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.GET("/health-check", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// Catalogue (public)
	api.GET("/products", handlers.ListProducts)
	api.GET("/products/search", handlers.SearchProducts)
	api.GET("/products/slug/:slug", handlers.GetProductBySlug)
	api.GET("/products/:id", handlers.GetProductByID)
	api.GET("/categories", handlers.ListCategories)

	// Panier : accessible connecté ou anonyme (cookie de session)
	cart := api.Group("/cart")
	cart.Use(middleware.OptionalAuth(), middleware.CartSession())
	{
		cart.GET("", handlers.GetCart)
		cart.GET("/ws", handlers.CartWebSocket)
		cart.POST("", handlers.AddToCart)
		cart.PATCH("/items/:id", handlers.UpdateCartItem)
		cart.DELETE("/items/:id", handlers.RemoveCartItem)
		cart.DELETE("", handlers.ClearCart)
	}

	// Checkout et commandes : authentification obligatoire
	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/checkout", handlers.GetCheckout)
		authed.POST("/checkout", handlers.PlaceOrder)

		authed.GET("/orders", handlers.ListMyOrders)
		authed.GET("/orders/:id", handlers.GetMyOrder)
		authed.GET("/orders/:id/invoice", handlers.DownloadInvoice)

		authed.POST("/payment/intent", handlers.CreatePaymentIntent)
	}

	// Webhook Stripe : signé par Stripe, pas de JWT
	api.POST("/payment/webhook", handlers.StripeWebhook)

	// Back-office
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.GET("/orders", admin.ListOrders)
		adminGroup.GET("/orders/:id", admin.GetOrder)
		adminGroup.PATCH("/orders/:id", admin.UpdateOrderStatus)

		adminGroup.POST("/products", admin.CreateProduct)
		adminGroup.POST("/products/:id/stock", admin.AdjustStock)
		adminGroup.GET("/stock/movements", admin.StockMovements)
	}
}
