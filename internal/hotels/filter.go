package hotels

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type PriceSort string

const (
	SortNone      PriceSort = ""
	SortPriceAsc  PriceSort = "price_asc"
	SortPriceDesc PriceSort = "price_desc"
)

// RoomFilter mirrors the room board's filter bar
type RoomFilter struct {
	CategoryID uuid.UUID
	Capacities []int
	Status     RoomStatus
	Search     string
	Sort       PriceSort
}

// ParseCapacities reads a multi-select such as "2,3" and drops anything that is not a positive number
func ParseCapacities(raw string) []int {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err == nil && n > 0 {
			out = append(out, n)
		}
	}
	return out
}

// FilterRooms returns the rooms matching f in the requested order; rooms is not modified
func FilterRooms(rooms []Room, f RoomFilter) []Room {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		if f.CategoryID != uuid.Nil && r.CategoryID != f.CategoryID {
			continue
		}
		if len(f.Capacities) > 0 && !containsInt(f.Capacities, r.Capacity) {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Number), search) {
			continue
		}
		out = append(out, r)
	}

	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
