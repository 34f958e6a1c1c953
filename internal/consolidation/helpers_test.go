package consolidation

import (
	"github.com/jengzang/photo-timeline/internal/models"
)

func fact(date, city, state, country string) models.LocationFact {
	return models.LocationFact{
		PhotoID: date + "/" + city,
		Date:    date,
		City:    city,
		State:   state,
		Country: country,
	}
}

func factAt(date, city, state, country string, lat, lon float64) models.LocationFact {
	f := fact(date, city, state, country)
	f.Latitude = &lat
	f.Longitude = &lon
	return f
}

func repeat(n int, f models.LocationFact) []models.LocationFact {
	out := make([]models.LocationFact, n)
	for i := range out {
		out[i] = f
	}
	return out
}

func concat(parts ...[]models.LocationFact) []models.LocationFact {
	var out []models.LocationFact
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
