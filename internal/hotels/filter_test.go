package hotels

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseCapacities(t *testing.T) {
	assert.Equal(t, []int{2, 3}, ParseCapacities("2,3"))
	assert.Equal(t, []int{4}, ParseCapacities(" 4 , x, -1, 0"))
	assert.Nil(t, ParseCapacities(""))
}

func TestFilterRooms(t *testing.T) {
	deluxe := uuid.New()
	standard := uuid.New()
	rooms := []Room{
		{Number: "101", CategoryID: standard, Capacity: 2, Price: 2500, Status: RoomStatusAvailable},
		{Number: "102", CategoryID: deluxe, Capacity: 3, Price: 4000, Status: RoomStatusOccupied},
		{Number: "201", CategoryID: deluxe, Capacity: 4, Price: 6000, Status: RoomStatusMaintenance},
		{Number: "202", CategoryID: standard, Capacity: 2, Price: 1800, Status: RoomStatusAvailable},
	}

	numbers := func(rs []Room) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.Number)
		}
		return out
	}

	tests := []struct {
		name   string
		filter RoomFilter
		want   []string
	}{
		{"no filter keeps order", RoomFilter{}, []string{"101", "102", "201", "202"}},
		{"category", RoomFilter{CategoryID: deluxe}, []string{"102", "201"}},
		{"capacity multi-select", RoomFilter{Capacities: []int{3, 4}}, []string{"102", "201"}},
		{"status", RoomFilter{Status: RoomStatusAvailable}, []string{"101", "202"}},
		{"search by number", RoomFilter{Search: "20"}, []string{"201", "202"}},
		{"price ascending", RoomFilter{Sort: SortPriceAsc}, []string{"202", "101", "102", "201"}},
		{"price descending with category", RoomFilter{CategoryID: standard, Sort: SortPriceDesc}, []string{"101", "202"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numbers(FilterRooms(rooms, tt.filter)))
		})
	}

	assert.Equal(t, "101", rooms[0].Number, "input must not be reordered")
}

func TestRoomStatus(t *testing.T) {
	assert.True(t, RoomStatusMaintenance.IsValid())
	assert.False(t, RoomStatus("cleaning").IsValid())
	assert.True(t, RoomStatusAvailable.IsCheckoutTarget())
	assert.True(t, RoomStatusMaintenance.IsCheckoutTarget())
	assert.False(t, RoomStatusOccupied.IsCheckoutTarget())
}
