package routes

import (
	"github.com/bazargah/backend/controllers"
	"github.com/bazargah/backend/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes wires the back-office endpoints.
func initAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin")
	admin.POST("/login", controllers.AdminLogin)

	protected := admin.Group("")
	protected.Use(middleware.AdminAuthMiddleware())
	{
		protected.PATCH("/orders/:slug/delivery-status", controllers.UpdateDeliveryStatus)
		protected.PUT("/stockrecords", controllers.UpdateStockRecord)
		protected.GET("/sales-report", controllers.SalesReport)
		protected.GET("/sales-report/excel", controllers.DownloadSalesReportExcel)
	}
}
