package routes

import (
	"net/http"

	"marketplace-api/controllers"
	"marketplace-api/middleware"
	"marketplace-api/services"

	"github.com/gin-gonic/gin"
)

// Register mounts every route group on the engine.
func Register(
	r *gin.Engine,
	tokens *services.TokenService,
	authController *controllers.AuthController,
	productController *controllers.ProductController,
	orderController *controllers.OrderController,
) {
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	registerAuthRoutes(r, tokens, authController)
	registerProductRoutes(r, tokens, productController)
	registerOrderRoutes(r, tokens, orderController)
}

func registerAuthRoutes(r *gin.Engine, tokens *services.TokenService, ac *controllers.AuthController) {
	auth := r.Group("/auth")
	auth.POST("/signup", ac.Signup)
	auth.POST("/login", ac.Login)
	auth.GET("/users", ac.AllProfiles)

	protected := auth.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	protected.GET("/profile", ac.Profile)
	protected.PUT("/profile", ac.UpdateProfile)
	protected.DELETE("/profile", ac.DeleteAccount)
}

func registerProductRoutes(r *gin.Engine, tokens *services.TokenService, pc *controllers.ProductController) {
	products := r.Group("/products")
	products.GET("", pc.All)

	protected := products.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	protected.POST("", pc.Create)
	protected.GET("/mine", pc.Mine)
	protected.PUT("/:id", pc.Update)
	protected.DELETE("/:id", pc.Delete)
}

func registerOrderRoutes(r *gin.Engine, tokens *services.TokenService, oc *controllers.OrderController) {
	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware(tokens))
	orders.POST("", oc.CreateOrder)
	orders.GET("/mine", oc.GetMyOrders)
}
