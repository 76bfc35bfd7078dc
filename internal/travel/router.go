package travel

import (
	"outletdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTravelRoutes expects travel to be /outlets/:outletID/travel behind JWT and outlet access checks
func SetupTravelRoutes(travel *gin.RouterGroup, controller *Controller) {
	vehicles := travel.Group("/vehicles")
	{
		vehicles.GET("", controller.ListVehicles)   // GET /api/v1/outlets/:outletID/travel/vehicles?type=bus&status=active
		vehicles.GET("/:id", controller.GetVehicle) // GET /api/v1/outlets/:outletID/travel/vehicles/:id
		vehicles.PUT("/:id", controller.UpdateVehicle)
		manage := vehicles.Group("", middleware.RequireManager())
		manage.POST("", controller.CreateVehicle)
		manage.DELETE("/:id", controller.DeleteVehicle)
	}

	contacts := travel.Group("/contacts")
	{
		contacts.GET("", controller.ListContacts)
		contacts.GET("/:id", controller.GetContact)
		contacts.POST("", controller.CreateContact)
		contacts.PUT("/:id", controller.UpdateContact)
		contacts.DELETE("/:id", middleware.RequireManager(), controller.DeleteContact)
	}
}
