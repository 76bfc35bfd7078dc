package main

import (
	"testing"

	"outletdesk/internal/outlets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeedIsValid(t *testing.T) {
	f, err := LoadSeedFile("")
	require.NoError(t, err)

	assert.Len(t, f.Users, 4)
	require.NotEmpty(t, f.Outlets)
	assert.Equal(t, "Grand Hotel", f.Outlets[0].Name)
	assert.Equal(t, outlets.OutletTypeHotel, f.Outlets[0].Type)
}

func TestSeedFileValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown role",
			yaml: "users:\n  - {email: a@x.com, password: p, role: OWNER}\n",
			want: "unknown role",
		},
		{
			name: "member not seeded",
			yaml: "users: []\noutlets:\n  - {name: H, type: hotel, members: [ghost@x.com]}\n",
			want: "not a seeded user",
		},
		{
			name: "room in unknown category",
			yaml: "outlets:\n  - name: H\n    type: hotel\n    rooms:\n      - {number: '1', category: Deluxe, price: 10, capacity: 1}\n",
			want: "unknown category",
		},
		{
			name: "menu item in unknown category",
			yaml: "outlets:\n  - name: K\n    type: restaurant\n    menu:\n      - {name: Pho, category: Soup, price: 5}\n",
			want: "unknown menu category",
		},
		{
			name: "menu item in unknown sub-category",
			yaml: "outlets:\n  - name: K\n    type: restaurant\n    menu_categories:\n      - {name: Pasta}\n    menu:\n      - {name: Penne, category: Pasta, sub_category: Fresh, price: 5}\n",
			want: "unknown sub-category",
		},
		{
			name: "bad outlet type",
			yaml: "outlets:\n  - {name: S, type: spa}\n",
			want: "unknown type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeedFile([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
