package routes

import (
	"github.com/bazargah/backend/controllers"
	"github.com/bazargah/backend/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes wires everything a logged-in customer can do.
func initUserRoutes(api *gin.RouterGroup) {
	user := api.Group("")
	user.Use(middleware.AuthMiddleware())
	{
		cart := user.Group("/order")
		{
			cart.GET("", controllers.GetOrder)
			cart.POST("/items", controllers.AddItems)
			cart.PATCH("/items/increase", controllers.IncreaseItem)
			cart.PATCH("/items/decrease", controllers.DecreaseItem)
			cart.DELETE("/items", controllers.RemoveItem)
			cart.DELETE("/items/all", controllers.ClearItems)
			cart.POST("/coupon", controllers.UseCoupon)
			cart.DELETE("/coupon", controllers.RemoveCoupon)
		}

		user.GET("/shipping-rates", controllers.ListShippingRates)

		transaction := user.Group("/transaction")
		{
			transaction.POST("/request", controllers.TransactionRequest)
			transaction.POST("/request/repayment/:slug", controllers.TransactionRepayment)
		}

		profile := user.Group("/profile")
		{
			profile.GET("/orders/current", controllers.ListCurrentOrders)
			profile.GET("/orders/delivered", controllers.ListDeliveredOrders)
			profile.GET("/orders/canceled", controllers.ListCanceledOrders)
			profile.GET("/orders/:slug", controllers.GetOrderDetail)
			profile.GET("/orders/:slug/invoice", controllers.DownloadInvoice)

			profile.GET("/addresses", controllers.ListAddresses)
			profile.POST("/addresses", controllers.CreateAddress)
			profile.DELETE("/addresses/:id", controllers.DeleteAddress)
		}
	}
}
