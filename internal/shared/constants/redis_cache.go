package constants

import (
	"fmt"
	"time"
)

// Redis keys follow outletdesk:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_SHORT   = 6 * time.Hour
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute
	TTL_DYNAMIC_SHORT  = 5 * time.Minute
	TTL_REALTIME_SHORT = 30 * time.Second
)

const (
	CACHE_PREFIX = "outletdesk"
)

// ================== OUTLETS MODULE ==================

const (
	CACHE_KEY_OUTLET_MEMBERSHIP = CACHE_PREFIX + ":outlets:membership:user:" // + user-id:outlet:outlet-id
	CACHE_KEY_CLIENT_STATE      = CACHE_PREFIX + ":state:"                   // + store:user:user-id
)

const (
	TTL_OUTLET_MEMBERSHIP = TTL_DYNAMIC_SHORT
)

// ================== HOTEL MODULE ==================

const (
	CACHE_KEY_HOTEL_CATEGORIES  = CACHE_PREFIX + ":hotel:categories:outlet:"   // + outlet-id
	CACHE_KEY_HOTEL_AMENITIES   = CACHE_PREFIX + ":hotel:amenities:outlet:"    // + outlet-id
	CACHE_KEY_ROOM_AVAILABILITY = CACHE_PREFIX + ":hotel:availability:outlet:" // + outlet-id:hash
)

const (
	TTL_HOTEL_CATALOGUE = TTL_STATIC_SHORT
)

// ================== ROOM LOCKS ==================

const (
	ROOM_LOCK_PREFIX = CACHE_PREFIX + ":locks:room:" // + room-id
)

// ================== RESTAURANT MODULE ==================

const (
	CACHE_KEY_MENU_ITEMS      = CACHE_PREFIX + ":restaurant:menu:outlet:"       // + outlet-id
	CACHE_KEY_MENU_CATEGORIES = CACHE_PREFIX + ":restaurant:categories:outlet:" // + outlet-id
)

const (
	TTL_MENU_ITEMS      = TTL_DYNAMIC_MEDIUM
	TTL_MENU_CATEGORIES = TTL_STATIC_SHORT
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_DASHBOARD = CACHE_PREFIX + ":analytics:dashboard:outlet:" // + outlet-id
)

const (
	TTL_DASHBOARD = TTL_DYNAMIC_MEDIUM
)

// ================== HELPER FUNCTIONS ==================

func BuildMembershipKey(userID, outletID string) string {
	return CACHE_KEY_OUTLET_MEMBERSHIP + userID + ":outlet:" + outletID
}

func BuildClientStateKey(store, userID string) string {
	return CACHE_KEY_CLIENT_STATE + store + ":user:" + userID
}

func BuildAvailabilityKey(outletID, from, to, filterHash string) string {
	return fmt.Sprintf("%s%s:from:%s:to:%s:%s", CACHE_KEY_ROOM_AVAILABILITY, outletID, from, to, filterHash)
}

// AvailabilityPattern matches every cached availability view of one outlet
func AvailabilityPattern(outletID string) string {
	return CACHE_KEY_ROOM_AVAILABILITY + outletID + ":*"
}

func BuildRoomLockKey(roomID string) string {
	return ROOM_LOCK_PREFIX + roomID
}

func BuildDashboardKey(outletID string) string {
	return CACHE_KEY_DASHBOARD + outletID
}

func BuildMenuItemsKey(outletID string) string {
	return CACHE_KEY_MENU_ITEMS + outletID
}

func BuildMenuCategoriesKey(outletID string) string {
	return CACHE_KEY_MENU_CATEGORIES + outletID
}

func BuildHotelCategoriesKey(outletID string) string {
	return CACHE_KEY_HOTEL_CATEGORIES + outletID
}

func BuildHotelAmenitiesKey(outletID string) string {
	return CACHE_KEY_HOTEL_AMENITIES + outletID
}
