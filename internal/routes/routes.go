// Package routes câble l'API : CORS, groupes publics et groupes protégés.
package routes

import (
	"time"

	authhandlers "foodtruck_back_end/internal/handlers/auth"
	"foodtruck_back_end/internal/handlers/cart"
	"foodtruck_back_end/internal/handlers/catalog"
	"foodtruck_back_end/internal/handlers/orders"
	"foodtruck_back_end/internal/middleware"
	"foodtruck_back_end/internal/services"
	"foodtruck_back_end/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func Register(r *gin.Engine, clientURL string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{clientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	st := store.New()

	categories := catalog.NewCategoryHandler(st)
	ingredients := catalog.NewIngredientHandler(st)
	discounts := catalog.NewDiscountHandler(st)
	options := catalog.NewOptionHandler(st)
	products := catalog.NewProductHandler(st)
	customizations := catalog.NewCustomizationHandler(st)
	carts := cart.NewCartHandler(st)
	productOrders := cart.NewProductOrderHandler(st)
	orderHandler := orders.NewHandler(st, services.NewStripeProvider())
	authHandler := authhandlers.NewHandler(st, clientURL)

	api := r.Group("/api")

	// --- Public ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/:provider", authHandler.BeginAuth)
	api.GET("/auth/:provider/callback", authHandler.CallbackAuth)
	api.POST("/auth/google/exchange", authHandler.GoogleExchange)

	api.GET("/categories", categories.List)
	api.GET("/categories/:id", categories.GetByID)
	api.GET("/ingredients", ingredients.List)
	api.GET("/ingredients/:id", ingredients.GetByID)
	api.GET("/discounts", discounts.List)
	api.GET("/discounts/:id", discounts.GetByID)
	api.GET("/products", products.List)
	api.GET("/products/search", products.SearchByName)
	api.GET("/products/:id", products.GetByID)
	api.GET("/optionGroups", options.ListGroups)
	api.GET("/optionGroups/:id", options.GetGroupByID)
	api.GET("/options/:id", options.GetOptionByID)
	api.GET("/customizations", customizations.List)
	api.GET("/customizations/:id", customizations.GetByID)

	// Callbacks du collaborateur de paiement : pas de JWT, l'id signé dans
	// l'URL est la seule preuve.
	api.GET("/orders/orderSuccess/:id", orderHandler.OrderSuccess)
	api.GET("/orders/orderCancel/:id", orderHandler.OrderCancel)

	// --- Authentifié ---
	protected := api.Group("")
	protected.Use(middleware.AuthRequired())

	protected.POST("/categories/create", categories.Create)
	protected.PUT("/categories/:id", categories.Update)
	protected.DELETE("/categories/:id", categories.Delete)

	protected.POST("/ingredients/create", ingredients.Create)
	protected.PUT("/ingredients/:id", ingredients.Update)
	protected.DELETE("/ingredients/:id", ingredients.Delete)

	protected.POST("/discounts/create", discounts.Create)
	protected.PUT("/discounts/:id", discounts.Update)
	protected.DELETE("/discounts/:id", discounts.Delete)

	protected.POST("/products/create", products.Create)
	protected.PUT("/products/:id", products.Update)
	protected.DELETE("/products/:id", products.Delete)

	protected.POST("/optionGroups/create", options.CreateGroup)
	protected.PUT("/optionGroups/:id", options.UpdateGroup)
	protected.DELETE("/optionGroups/:id", options.DeleteGroup)
	protected.POST("/options/create", options.CreateOption)
	protected.PUT("/options/:id", options.UpdateOption)
	protected.DELETE("/options/:id", options.DeleteOption)

	protected.POST("/customizations/create", customizations.Create)
	protected.PUT("/customizations/:id", customizations.Update)
	protected.DELETE("/customizations/:id", customizations.Delete)

	protected.POST("/carts/create", carts.Create)
	protected.GET("/carts/my", carts.GetMine)
	protected.GET("/carts/:id", carts.GetByID)
	protected.DELETE("/carts/:id", carts.Delete)
	protected.POST("/carts/:id/productOrders", carts.AddProductOrder)
	protected.DELETE("/carts/:id/productOrders/:productOrderId", carts.RemoveProductOrder)

	protected.POST("/productOrders/create", productOrders.Create)
	protected.GET("/productOrders/:id", productOrders.GetByID)
	protected.DELETE("/productOrders/:id", productOrders.Delete)
	protected.POST("/productOrders/:id/customizations", productOrders.AttachCustomization)
	protected.DELETE("/productOrders/:id/customizations/:customizationId", productOrders.DetachCustomization)

	protected.POST("/orders/create", orderHandler.CreateOrder)
	protected.GET("/orders/my", orderHandler.GetMyOrders)
	protected.GET("/orders/:id", orderHandler.GetByID)
	protected.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	protected.GET("/orders/status/ws", orderHandler.StatusSocket)
}
