package routes

import (
	"os"

	"github.com/bazargah/backend/controllers"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.Default()

	store := cookie.NewStore([]byte(os.Getenv("SESSION_SECRET")))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24, // 1 day
		Path:     "/",
		Secure:   os.Getenv("ENV") == "production",
		HttpOnly: true,
	})
	router.Use(sessions.Sessions("bazargah", store))

	// bank callback and result, reachable without a token
	router.GET("/transaction/verify", controllers.TransactionVerify)
	router.GET("/transaction/result/:number/:slug", controllers.TransactionResult)

	auth := router.Group("/auth")
	{
		auth.POST("/otp/request", controllers.RequestOTP)
		auth.POST("/otp/verify", controllers.VerifyOTP)
		auth.GET("/google/login", controllers.GoogleLogin)
		auth.GET("/google/callback", controllers.GoogleCallback)
	}

	api := router.Group("/v1")
	{
		initUserRoutes(api)
		initAdminRoutes(api)
	}

	return router
}
