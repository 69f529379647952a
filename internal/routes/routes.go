// Package routes wires the HTTP handlers onto the echo router with the
// middleware each route group needs.
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/hatbazar/hatbazar/internal/domain"
	"github.com/hatbazar/hatbazar/internal/handler/api"
	"github.com/hatbazar/hatbazar/internal/middleware"
)

// Register attaches every route. The metrics endpoint is registered by the
// caller alongside the metrics middleware so scrapes are not self-counted.
func Register(e *echo.Echo, h *api.Handler) {
	e.GET("/health", h.Health)

	// Public catalog. Anonymous, read-only.
	products := e.Group("/api/products")
	products.GET("", h.ListProducts)
	products.GET("/filters", h.ProductFilters)
	products.GET("/:id", h.GetProduct)

	// Electronics demo catalog, same contract over SQLite.
	electronics := e.Group("/api/electronics")
	electronics.GET("", h.ListElectronics)
	electronics.GET("/filters", h.ElectronicsFilters)
	electronics.GET("/:id", h.GetElectronics)

	// Seller dashboard. Own products, all statuses.
	seller := e.Group("/api/seller", middleware.RequireRole(domain.RoleSeller))
	seller.GET("/products", h.SellerListProducts)
	seller.POST("/products", h.CreateProduct)
	seller.PUT("/products/:id", h.UpdateProduct)
	seller.DELETE("/products/:id", h.DeleteProduct)

	// Admin dashboard. Unrestricted scope.
	admin := e.Group("/api/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/products", h.AdminListProducts)
	admin.POST("/products", h.CreateProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)
	admin.PUT("/orders/:id/status", h.AdminUpdateOrderStatus)

	// Orders. Any authenticated user.
	orders := e.Group("/api/orders", middleware.RequireAuth)
	orders.POST("", h.PlaceOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.POST("/:id/payment/complete", h.CompletePayment)
}
