package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Dashboard is the landing page summary of one outlet; only the section of
// the outlet's vertical is populated.
type Dashboard struct {
	OutletID    uuid.UUID          `json:"outlet_id"`
	OutletType  string             `json:"outlet_type"`
	GeneratedAt time.Time          `json:"generated_at"`
	Hotel       *HotelMetrics      `json:"hotel,omitempty"`
	Restaurant  *RestaurantMetrics `json:"restaurant,omitempty"`
	Travel      *TravelMetrics     `json:"travel,omitempty"`
}

type HotelMetrics struct {
	TotalRooms       int            `json:"total_rooms"`
	RoomsByStatus    map[string]int `json:"rooms_by_status"`
	OccupancyRate    float64        `json:"occupancy_rate"`
	ActiveBookings   int            `json:"active_bookings"`
	ArrivalsToday    int            `json:"arrivals_today"`
	DeparturesToday  int            `json:"departures_today"`
	CompletedRevenue float64        `json:"completed_revenue"`
}

type RestaurantMetrics struct {
	OrdersByStatus   map[string]int `json:"orders_by_status"`
	OpenOrders       int            `json:"open_orders"`
	DeliveredRevenue float64        `json:"delivered_revenue"`
}

type TravelMetrics struct {
	TotalVehicles    int            `json:"total_vehicles"`
	VehiclesByStatus map[string]int `json:"vehicles_by_status"`
	TotalContacts    int            `json:"total_contacts"`
}

// StatusCount is one GROUP BY status row
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// BookingFigures are the date-sensitive hotel numbers
type BookingFigures struct {
	Active     int     `json:"active"`
	Arrivals   int     `json:"arrivals"`
	Departures int     `json:"departures"`
	Revenue    float64 `json:"revenue"`
}

func toMap(rows []StatusCount) (map[string]int, int) {
	m := make(map[string]int, len(rows))
	total := 0
	for _, r := range rows {
		m[r.Status] += r.Count
		total += r.Count
	}
	return m, total
}
