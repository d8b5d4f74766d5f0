package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/caffinity/caffinity-api/internal/auth"
	"github.com/caffinity/caffinity-api/internal/cart"
	"github.com/caffinity/caffinity-api/internal/config"
	"github.com/caffinity/caffinity-api/internal/httpx"
	"github.com/caffinity/caffinity-api/internal/order"
	"github.com/caffinity/caffinity-api/internal/product"
	"github.com/caffinity/caffinity-api/internal/user"
)

const apiVersion = "1.0.0"

type appDeps struct {
	cfg      config.Config
	users    user.Repository
	products product.Repository
	carts    cart.Repository
	orders   order.Repository
}

func newRouter(deps appDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	protected := auth.RequireAuth(deps.cfg.JWTSecret)

	r.GET("/", welcomeHandler())
	r.GET("/api/health", healthHandler())

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", registerHandler(deps.users, deps.cfg))
		authGroup.POST("/login", loginHandler(deps.users, deps.cfg))
		authGroup.GET("/profile", protected, getAuthProfileHandler(deps.users))
		authGroup.PUT("/profile", protected, updateAuthProfileHandler(deps.users))
	}

	usersGroup := r.Group("/api/users")
	{
		usersGroup.GET("", listUsersHandler(deps.users))
		usersGroup.GET("/profile", protected, getUserProfileHandler(deps.users))
		usersGroup.GET("/debug/db-check", dbCheckHandler(deps.users, deps.products))
		usersGroup.GET("/:id", getUserHandler(deps.users))
		usersGroup.PUT("/:id", protected, updateUserHandler(deps.users))
	}

	productsGroup := r.Group("/api/products")
	{
		productsGroup.GET("", listProductsHandler(deps.products))
		productsGroup.GET("/flash-sale", flashSaleHandler(deps.products))
	}

	cartGroup := r.Group("/api/cart", protected)
	{
		cartGroup.GET("/user/:user_id", getCartHandler(deps.carts))
		cartGroup.POST("", addToCartHandler(deps.carts))
		cartGroup.PUT("/:id", updateCartItemHandler(deps.carts))
		cartGroup.DELETE("/:id", removeCartItemHandler(deps.carts))
		cartGroup.DELETE("/clear/:user_id", clearCartHandler(deps.carts))
		cartGroup.GET("/summary/:user_id", cartSummaryHandler(deps.carts))
	}

	ordersGroup := r.Group("/api/orders", protected)
	{
		ordersGroup.POST("", createOrderHandler(deps.orders))
		ordersGroup.GET("", listOrdersHandler(deps.orders))
		ordersGroup.GET("/:id", getOrderHandler(deps.orders))
		ordersGroup.PUT("/:id/confirm", confirmOrderHandler(deps.orders))
	}

	return r
}

func welcomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Welcome to Caffinity Coffee Shop API",
			"version": apiVersion,
			"endpoints": gin.H{
				"auth":     []string{"POST /api/auth/register", "POST /api/auth/login", "GET /api/auth/profile", "PUT /api/auth/profile"},
				"products": []string{"GET /api/products", "GET /api/products/flash-sale"},
				"users":    []string{"GET /api/users", "GET /api/users/:id", "GET /api/users/profile"},
				"cart":     []string{"GET /api/cart/user/:user_id", "POST /api/cart", "GET /api/cart/summary/:user_id"},
				"orders":   []string{"POST /api/orders", "GET /api/orders", "GET /api/orders/:id", "PUT /api/orders/:id/confirm"},
			},
		})
	}
}

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"status":    "OK",
			"message":   "Caffinity API is running",
			"version":   apiVersion,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
