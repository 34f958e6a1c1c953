package photos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

// archive builds a keyed archive blob holding the given places.
func archive(t *testing.T, places ...Place) []byte {
	t.Helper()
	objects := []interface{}{"$null"}
	for _, p := range places {
		idx := len(objects)
		objects = append(objects,
			map[string]interface{}{
				"name":      plist.UID(idx + 1),
				"placeType": plist.UID(idx + 2),
				"area":      p.Area,
			},
			p.Name,
			int64(p.Type),
		)
	}
	data, err := plist.Marshal(map[string]interface{}{
		"$archiver": "NSKeyedArchiver",
		"$version":  int64(100000),
		"$objects":  objects,
		"$top":      map[string]interface{}{"root": plist.UID(1)},
	}, plist.BinaryFormat)
	require.NoError(t, err)
	return data
}

func TestParseLocationBlob_PrefersSmallestCity(t *testing.T) {
	blob := archive(t,
		Place{Name: "Japan", Type: PlaceCountry, Area: 1e6},
		Place{Name: "Tokyo", Type: PlaceState, Area: 2000},
		Place{Name: "Tokyo City", Type: PlaceCity, Area: 600},
		Place{Name: "Shibuya", Type: PlaceCity, Area: 15},
		Place{Name: "Dogenzaka", Type: PlaceNeighborhood, Area: 1},
	)

	loc, ok := ParseLocationBlob(blob)
	require.True(t, ok)
	assert.Equal(t, Location{City: "Shibuya", State: "Tokyo", Country: "Japan"}, loc)
}

func TestParseLocationBlob_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		places []Place
		want   Location
		ok     bool
	}{
		{
			name: "neighborhood when no city",
			places: []Place{
				{Name: "France", Type: PlaceCountry},
				{Name: "Ile-de-France", Type: PlaceState, Area: 100},
				{Name: "Le Marais", Type: PlaceNeighborhood, Area: 2},
			},
			want: Location{City: "Le Marais", State: "Ile-de-France", Country: "France"},
			ok:   true,
		},
		{
			name: "state when nothing smaller",
			places: []Place{
				{Name: "Iceland", Type: PlaceCountry},
				{Name: "Westfjords", Type: PlaceState, Area: 9000},
			},
			want: Location{City: "Westfjords", State: "Westfjords", Country: "Iceland"},
			ok:   true,
		},
		{
			name: "state falls back to city",
			places: []Place{
				{Name: "Monaco", Type: PlaceCountry},
				{Name: "Monte Carlo", Type: PlaceCity, Area: 1},
			},
			want: Location{City: "Monte Carlo", State: "Monte Carlo", Country: "Monaco"},
			ok:   true,
		},
		{
			name:   "no country",
			places: []Place{{Name: "Nowhere", Type: PlaceCity}},
		},
		{
			name:   "no city-like place",
			places: []Place{{Name: "Antarctica", Type: PlaceCountry}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, ok := ParseLocationBlob(archive(t, tt.places...))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, loc)
		})
	}
}

func TestParseLocationBlob_Garbage(t *testing.T) {
	_, ok := ParseLocationBlob(nil)
	assert.False(t, ok)

	_, ok = ParseLocationBlob([]byte("not a plist"))
	assert.False(t, ok)
}

func TestDecodePlaces_SkipsDanglingReferences(t *testing.T) {
	data, err := plist.Marshal(map[string]interface{}{
		"$objects": []interface{}{
			"$null",
			map[string]interface{}{"name": plist.UID(9), "placeType": plist.UID(2)},
			int64(4),
		},
	}, plist.BinaryFormat)
	require.NoError(t, err)

	places, err := DecodePlaces(data)
	require.NoError(t, err)
	assert.Empty(t, places)
}
