package routes

import (
	"net/http"

	"github.com/01moynul/bookstore-cart/internal/handlers"
	"github.com/01moynul/bookstore-cart/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware tells the browser that the storefront origin may call us.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Allow only the configured storefront.
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		// 2. Allow the headers and methods the cart client uses.
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		// 3. Answer the preflight OPTIONS request with 204 No Content.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers, allowedOrigin string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// --- APPLY THE CORS GUARD ---
	// This must be the very first thing the router uses
	router.Use(CORSMiddleware(allowedOrigin))

	// --- Ping Route (Public) ---
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong!"})
	})

	v1 := router.Group("/v1")
	{
		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)
	}

	// --- Catalog Routes ---
	router.GET("/books", h.GetAllBooks)
	router.POST("/books", h.CreateBook)

	// --- Cart Routes (token optional; owners only when present) ---
	carts := router.Group("/carts")
	carts.Use(middleware.OptionalAuthMiddleware(h.JWT))
	{
		carts.GET("", h.GetCarts)
		carts.POST("", h.CreateCartItem)
		carts.PUT("/:id", h.UpdateCartItem)
		carts.DELETE("/:id", h.DeleteCartItem)
	}

	return router
}
