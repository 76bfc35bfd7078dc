package hotels

import (
	"outletdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupHotelRoutes expects hotel to be /outlets/:outletID/hotel behind JWT and outlet access checks
func SetupHotelRoutes(hotel *gin.RouterGroup, controller *Controller) {
	categories := hotel.Group("/categories")
	{
		categories.GET("", controller.ListCategories)  // GET /api/v1/outlets/:outletID/hotel/categories
		categories.GET("/:id", controller.GetCategory) // GET /api/v1/outlets/:outletID/hotel/categories/:id
		manage := categories.Group("", middleware.RequireManager())
		manage.POST("", controller.CreateCategory)       // POST /api/v1/outlets/:outletID/hotel/categories
		manage.PUT("/:id", controller.UpdateCategory)    // PUT /api/v1/outlets/:outletID/hotel/categories/:id
		manage.DELETE("/:id", controller.DeleteCategory) // DELETE /api/v1/outlets/:outletID/hotel/categories/:id
	}

	amenities := hotel.Group("/amenities")
	{
		amenities.GET("", controller.ListAmenities)
		amenities.GET("/:id", controller.GetAmenity)
		manage := amenities.Group("", middleware.RequireManager())
		manage.POST("", controller.CreateAmenity)
		manage.PUT("/:id", controller.UpdateAmenity)
		manage.DELETE("/:id", controller.DeleteAmenity)
	}

	rooms := hotel.Group("/rooms")
	{
		rooms.GET("", controller.ListRooms)                     // GET /api/v1/outlets/:outletID/hotel/rooms?capacity=2,3&sort=price_asc
		rooms.GET("/:id", controller.GetRoom)                   // GET /api/v1/outlets/:outletID/hotel/rooms/:id
		rooms.PATCH("/:id/status", controller.UpdateRoomStatus) // PATCH /api/v1/outlets/:outletID/hotel/rooms/:id/status
		manage := rooms.Group("", middleware.RequireManager())
		manage.POST("", controller.CreateRoom)
		manage.PUT("/:id", controller.UpdateRoom)
		manage.DELETE("/:id", controller.DeleteRoom)
	}
}
