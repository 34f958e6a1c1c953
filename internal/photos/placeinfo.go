package photos

import (
	"fmt"
	"sort"

	"howett.net/plist"
)

// PlaceType is the administrative level of a reverse-geocoded place.
type PlaceType int

const (
	PlaceCountry      PlaceType = 1
	PlaceState        PlaceType = 2
	PlaceCounty       PlaceType = 3
	PlaceCity         PlaceType = 4
	PlaceNeighborhood PlaceType = 6
)

// Place is one entry of the archived place hierarchy.
type Place struct {
	Name string
	Type PlaceType
	Area float64
}

// Location is the city/state/country resolved for a photo.
type Location struct {
	City    string
	State   string
	Country string
}

type keyedArchive struct {
	Objects []interface{} `plist:"$objects"`
}

// DecodePlaces reads the place entries out of an NSKeyedArchiver blob.
func DecodePlaces(blob []byte) ([]Place, error) {
	var archive keyedArchive
	if _, err := plist.Unmarshal(blob, &archive); err != nil {
		return nil, fmt.Errorf("failed to decode location archive: %w", err)
	}

	var places []Place
	for _, obj := range archive.Objects {
		entry, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		nameRef, ok1 := entry["name"].(plist.UID)
		typeRef, ok2 := entry["placeType"].(plist.UID)
		if !ok1 || !ok2 {
			continue
		}

		name, ok := deref(archive.Objects, nameRef).(string)
		if !ok {
			continue
		}
		placeType, ok := toFloat(deref(archive.Objects, typeRef))
		if !ok {
			continue
		}
		area, _ := toFloat(entry["area"])
		places = append(places, Place{Name: name, Type: PlaceType(placeType), Area: area})
	}
	return places, nil
}

// ParseLocationBlob resolves a reverse-location blob to a Location. It
// returns false when the blob is empty, malformed, or lacks a country or
// any city-like place.
func ParseLocationBlob(blob []byte) (Location, bool) {
	if len(blob) == 0 {
		return Location{}, false
	}
	places, err := DecodePlaces(blob)
	if err != nil || len(places) == 0 {
		return Location{}, false
	}
	return ResolveLocation(places)
}

// ResolveLocation picks the city, state and country from a place list.
// The city is the smallest city-level place, then neighborhood, then state.
func ResolveLocation(places []Place) (Location, bool) {
	country, hasCountry := first(places, PlaceCountry)
	state, hasState := smallest(places, PlaceState)

	city, hasCity := smallest(places, PlaceCity)
	if !hasCity {
		city, hasCity = smallest(places, PlaceNeighborhood)
	}
	if !hasCity {
		city, hasCity = state, hasState
	}
	if !hasCity || !hasCountry {
		return Location{}, false
	}

	loc := Location{City: city.Name, State: city.Name, Country: country.Name}
	if hasState {
		loc.State = state.Name
	}
	return loc, true
}

func first(places []Place, t PlaceType) (Place, bool) {
	for _, p := range places {
		if p.Type == t {
			return p, true
		}
	}
	return Place{}, false
}

func smallest(places []Place, t PlaceType) (Place, bool) {
	var matches []Place
	for _, p := range places {
		if p.Type == t {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return Place{}, false
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Area < matches[j].Area })
	return matches[0], true
}

func deref(objects []interface{}, uid plist.UID) interface{} {
	if int(uid) >= len(objects) {
		return nil
	}
	return objects[uid]
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
