package bookings

import (
	"outletdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes expects hotel to be /outlets/:outletID/hotel behind JWT and outlet access checks
func SetupBookingRoutes(hotel *gin.RouterGroup, controller *Controller) {
	rooms := hotel.Group("/rooms")
	{
		rooms.GET("/availability", controller.GetAvailability)        // GET /api/v1/outlets/:outletID/hotel/rooms/availability?from=&to=
		rooms.GET("/:id/active-booking", controller.GetActiveBooking) // GET /api/v1/outlets/:outletID/hotel/rooms/:id/active-booking
	}

	bookings := hotel.Group("/bookings")
	{
		bookings.GET("", controller.ListBookings)                                       // GET /api/v1/outlets/:outletID/hotel/bookings
		bookings.POST("", controller.CreateBookings)                                    // POST /api/v1/outlets/:outletID/hotel/bookings
		bookings.POST("/estimate", controller.EstimateBooking)                          // POST /api/v1/outlets/:outletID/hotel/bookings/estimate
		bookings.GET("/export", middleware.RequireManager(), controller.ExportBookings) // GET /api/v1/outlets/:outletID/hotel/bookings/export
		bookings.GET("/:id", controller.GetFolio)
		bookings.GET("/:id/folio", controller.GetFolio)
		bookings.POST("/:id/charges", controller.AddCharge)
		bookings.POST("/:id/check-in", controller.CheckIn)
		bookings.POST("/:id/extend", controller.ExtendStay)
		bookings.POST("/:id/checkout", controller.Checkout)
		bookings.POST("/:id/cancel", controller.CancelBooking)
	}
}

// Booking lifecycle:
//
// POST /bookings              confirmed, or checked-in when the stay starts today (room becomes occupied)
// POST /bookings/:id/check-in confirmed -> checked-in, room occupied
// POST /bookings/:id/extend   later check-out, overlap re-checked and rent recomputed
// POST /bookings/:id/checkout confirmed|checked-in -> completed, room released as available or maintenance
// POST /bookings/:id/cancel   pending|confirmed -> cancelled
