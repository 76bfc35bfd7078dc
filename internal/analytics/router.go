package analytics

import "github.com/gin-gonic/gin"

// SetupAnalyticsRoutes expects outlet to be /outlets/:outletID behind JWT and outlet access checks
func SetupAnalyticsRoutes(outlet *gin.RouterGroup, controller *Controller) {
	outlet.GET("/dashboard", controller.GetDashboard)
}
