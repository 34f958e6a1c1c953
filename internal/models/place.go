package models

// PlaceEntry is one display name within a state, with every stay id carrying it.
type PlaceEntry struct {
	City string  `json:"city"`
	IDs  []int64 `json:"ids"`
}

// StatePlaces groups places of one state.
type StatePlaces struct {
	State  string       `json:"state"`
	Cities []PlaceEntry `json:"cities"`
}

// CountryPlaces groups states of one country.
type CountryPlaces struct {
	Country    string        `json:"country"`
	PlaceCount int           `json:"placeCount"`
	States     []StatePlaces `json:"states"`
}

// PlacesSummary is the places view: country -> state -> city.
type PlacesSummary struct {
	Countries      []CountryPlaces `json:"countries"`
	TotalPlaces    int             `json:"totalPlaces"`
	TotalCountries int             `json:"totalCountries"`
}

// PlaceDetail lists every visit to a place.
type PlaceDetail struct {
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Visits      []Stay `json:"visits"`
	TotalVisits int    `json:"totalVisits"`
	TotalDays   int    `json:"totalDays"`
}
